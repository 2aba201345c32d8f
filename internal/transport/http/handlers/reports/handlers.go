package reportshandler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"factorypay/internal/domain/payroll"
	"factorypay/internal/domain/payslip"
	"factorypay/internal/transport/http/api"
	"factorypay/internal/transport/http/middleware"
)

type Handler struct {
	Store     *payroll.Store
	Mu        *sync.Mutex
	Policy    payroll.LatePolicy
	ReportDir string
}

func NewHandler(store *payroll.Store, mu *sync.Mutex, policy payroll.LatePolicy, reportDir string) *Handler {
	return &Handler{Store: store, Mu: mu, Policy: policy, ReportDir: reportDir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/summary", h.handleSummary)
		r.Get("/payroll", h.handlePayrollRegister)
		r.Post("/export", h.handleExport)
	})
}

// policyFor lets a single request override the configured lateness
// policy, so an operator can compare both treatments side by side.
func (h *Handler) policyFor(r *http.Request) (payroll.LatePolicy, error) {
	raw := r.URL.Query().Get("policy")
	if raw == "" {
		return h.Policy, nil
	}
	return payroll.ParseLatePolicy(raw)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	policy, err := h.policyFor(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_policy", err.Error(), requestID)
		return
	}

	h.Mu.Lock()
	defer h.Mu.Unlock()

	summary, err := h.Store.Summary(policy)
	if err != nil {
		h.failReport(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{
		"policy":  policy,
		"summary": summary,
	}, requestID)
}

func (h *Handler) handlePayrollRegister(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	policy, err := h.policyFor(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_policy", err.Error(), requestID)
		return
	}

	h.Mu.Lock()
	defer h.Mu.Unlock()

	rows, err := h.Store.Register(policy)
	if err != nil {
		h.failReport(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{
		"policy": policy,
		"rows":   rows,
	}, requestID)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	policy, err := h.policyFor(r)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_policy", err.Error(), requestID)
		return
	}

	h.Mu.Lock()
	defer h.Mu.Unlock()

	rows, err := h.Store.Register(policy)
	if err != nil {
		h.failReport(w, err, requestID)
		return
	}
	summary, err := h.Store.Summary(policy)
	if err != nil {
		h.failReport(w, err, requestID)
		return
	}

	name := fmt.Sprintf("report_%s.txt", time.Now().Format("20060102_150405"))
	path := filepath.Join(h.ReportDir, name)
	if err := os.MkdirAll(h.ReportDir, 0o755); err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_export_failed", "failed to create report directory", requestID)
		return
	}
	if err := os.WriteFile(path, []byte(payslip.RenderRegister(rows, summary, policy)), 0o644); err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_export_failed", "failed to write report file", requestID)
		return
	}

	api.Created(w, map[string]any{
		"file":   path,
		"rows":   len(rows),
		"policy": policy,
	}, requestID)
}

func (h *Handler) failReport(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, payroll.ErrEmptySet):
		api.Fail(w, http.StatusConflict, "empty_set", "no employees on record", requestID)
	case errors.Is(err, payroll.ErrZeroHours):
		api.Fail(w, http.StatusConflict, "zero_hours", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build report", requestID)
	}
}
