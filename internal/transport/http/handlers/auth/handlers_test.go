package authhandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"factorypay/internal/auth"
)

func testHandler(t *testing.T, adminPassword string) *Handler {
	t.Helper()
	svc, err := auth.NewService("test-secret", adminPassword, time.Hour)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return NewHandler(svc)
}

func postLogin(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, req)
	return rec
}

func TestHandleLoginIssuesToken(t *testing.T) {
	h := testHandler(t, "ChangeMe123!")

	rec := postLogin(t, h, `{"operator": "omar", "password": "ChangeMe123!"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Data struct {
			Token    string `json:"token"`
			Operator string `json:"operator"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.Token == "" {
		t.Fatal("expected token")
	}
	if payload.Data.Operator != "omar" {
		t.Fatalf("expected operator omar, got %q", payload.Data.Operator)
	}

	claims, err := h.Auth.Parse(payload.Data.Token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.Operator != "omar" {
		t.Fatalf("expected claims for omar, got %q", claims.Operator)
	}
}

func TestHandleLoginRejectsBadCredentials(t *testing.T) {
	h := testHandler(t, "ChangeMe123!")

	for name, body := range map[string]string{
		"wrong password":   `{"operator": "omar", "password": "nope"}`,
		"missing operator": `{"password": "ChangeMe123!"}`,
	} {
		rec := postLogin(t, h, body)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d: %s", name, rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "invalid_credentials") {
			t.Fatalf("%s: expected invalid_credentials, got %s", name, rec.Body.String())
		}
	}
}

func TestHandleLoginRejectsMalformedPayload(t *testing.T) {
	h := testHandler(t, "ChangeMe123!")

	rec := postLogin(t, h, `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid_payload") {
		t.Fatalf("expected invalid_payload, got %s", rec.Body.String())
	}
}

func TestHandleLoginWithAuthDisabled(t *testing.T) {
	h := testHandler(t, "")

	rec := postLogin(t, h, `{"operator": "omar", "password": "anything"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when no admin password is set, got %d", rec.Code)
	}
}
