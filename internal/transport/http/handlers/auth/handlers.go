package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"factorypay/internal/auth"
	"factorypay/internal/transport/http/api"
	"factorypay/internal/transport/http/middleware"
)

type Handler struct {
	Auth *auth.Service
}

func NewHandler(authService *auth.Service) *Handler {
	return &Handler{Auth: authService}
}

type loginRequest struct {
	Operator string `json:"operator"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	operator := strings.TrimSpace(payload.Operator)
	token, err := h.Auth.Login(operator, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{
		"token":    token,
		"operator": operator,
	}, middleware.GetRequestID(r.Context()))
}
