package employeeshandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"factorypay/internal/domain/payroll"
	"factorypay/internal/domain/payslip"
	"factorypay/internal/platform/metrics"
	"factorypay/internal/transport/http/api"
	"factorypay/internal/transport/http/middleware"
	"factorypay/internal/transport/http/shared"
)

type Handler struct {
	Store     *payroll.Store
	Mu        *sync.Mutex
	Policy    payroll.LatePolicy
	Autosave  bool
	ReportDir string
	Metrics   *metrics.Collector
	Idem      *middleware.IdempotencyStore
}

func NewHandler(store *payroll.Store, mu *sync.Mutex, policy payroll.LatePolicy, autosave bool, reportDir string, collector *metrics.Collector, idem *middleware.IdempotencyStore) *Handler {
	return &Handler{
		Store:     store,
		Mu:        mu,
		Policy:    policy,
		Autosave:  autosave,
		ReportDir: reportDir,
		Metrics:   collector,
		Idem:      idem,
	}
}

type employeePayload struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	BaseSalary         float64 `json:"base_salary"`
	HoursPerDay        *int    `json:"hours_per_day"`
	InsuranceDeduction float64 `json:"insurance_deduction"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Put("/", h.handleUpdateBasics)
			r.Patch("/adjustments", h.handleAdjustments)
			r.Delete("/", h.handleDelete)
			r.Get("/payslip", h.handlePayslip)
		})
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 500)

	h.Mu.Lock()
	defer h.Mu.Unlock()

	employees := make([]*payroll.Employee, 0, h.Store.Count())
	skipped := 0
	for e := range h.Store.All() {
		if skipped < page.Offset {
			skipped++
			continue
		}
		if len(employees) >= page.Limit {
			break
		}
		employees = append(employees, e)
	}

	api.Success(w, map[string]any{
		"employees": employees,
		"total":     h.Store.Count(),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")
	requestHash := middleware.RequestHash(raw)
	if idempotencyKey != "" {
		stored, found, err := h.Idem.Check("employees.create", idempotencyKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key reused with a different payload", requestID)
			return
		}
		if found {
			api.Created(w, json.RawMessage(stored), requestID)
			return
		}
	}

	var payload employeePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	hours := payroll.DefaultHoursPerDay
	if payload.HoursPerDay != nil {
		hours = *payload.HoursPerDay
	}

	v := shared.NewValidator()
	v.Required("id", payload.ID, "is required")
	v.Required("name", payload.Name, "is required")
	v.NonNegative("base_salary", payload.BaseSalary)
	v.PositiveInt("hours_per_day", hours)
	v.NonNegative("insurance_deduction", payload.InsuranceDeduction)
	if v.Reject(w, requestID) {
		return
	}

	employee, err := payroll.NewEmployee(strings.TrimSpace(payload.ID), strings.TrimSpace(payload.Name), payload.BaseSalary, hours, payload.InsuranceDeduction)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestID)
		return
	}

	h.Mu.Lock()
	defer h.Mu.Unlock()

	if err := h.Store.Add(employee); err != nil {
		if errors.Is(err, payroll.ErrDuplicateID) {
			api.Fail(w, http.StatusConflict, "duplicate_id", "employee id already exists", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to add employee", requestID)
		return
	}
	if !h.persist(w, requestID) {
		return
	}

	if idempotencyKey != "" {
		if encoded, err := json.Marshal(employee); err == nil {
			if err := h.Idem.Save("employees.create", idempotencyKey, requestHash, encoded); err != nil {
				api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key reused with a different payload", requestID)
				return
			}
		}
	}

	api.Created(w, employee, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	h.Mu.Lock()
	defer h.Mu.Unlock()

	employee, ok := h.Store.Find(employeeID)
	if !ok {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employee, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateBasics(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	hours := payroll.DefaultHoursPerDay
	if payload.HoursPerDay != nil {
		hours = *payload.HoursPerDay
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	v.NonNegative("base_salary", payload.BaseSalary)
	v.PositiveInt("hours_per_day", hours)
	v.NonNegative("insurance_deduction", payload.InsuranceDeduction)
	if v.Reject(w, requestID) {
		return
	}

	h.Mu.Lock()
	defer h.Mu.Unlock()

	employee, ok := h.Store.Find(employeeID)
	if !ok {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}

	employee.Name = strings.TrimSpace(payload.Name)
	employee.BaseSalary = payload.BaseSalary
	employee.HoursPerDay = hours
	employee.InsuranceDeduction = payload.InsuranceDeduction

	if !h.persist(w, requestID) {
		return
	}
	api.Success(w, employee, requestID)
}

func (h *Handler) handleAdjustments(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var changes map[string]float64
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if len(changes) == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "no adjustment fields given", requestID)
		return
	}

	v := shared.NewValidator()
	for field, value := range changes {
		v.NonNegative(field, value)
	}
	if v.Reject(w, requestID) {
		return
	}

	h.Mu.Lock()
	defer h.Mu.Unlock()

	if err := h.Store.Update(employeeID, changes); err != nil {
		switch {
		case errors.Is(err, payroll.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		case errors.Is(err, payroll.ErrUnknownField):
			api.FailWithDetails(w, http.StatusBadRequest, "unknown_field", err.Error(), map[string]any{
				"accepted": payroll.AdjustmentFields(),
			}, requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", requestID)
		}
		return
	}

	if !h.persist(w, requestID) {
		return
	}

	employee, _ := h.Store.Find(employeeID)
	api.Success(w, employee, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	h.Mu.Lock()
	defer h.Mu.Unlock()

	if err := h.Store.Delete(employeeID); err != nil {
		if errors.Is(err, payroll.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_delete_failed", "failed to delete employee", requestID)
		return
	}

	if !h.persist(w, requestID) {
		return
	}
	api.Success(w, map[string]string{"deleted": employeeID}, requestID)
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))

	h.Mu.Lock()
	defer h.Mu.Unlock()

	employee, ok := h.Store.Find(employeeID)
	if !ok {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}

	slip, err := payslip.Build(employee, h.Policy)
	if err != nil {
		if errors.Is(err, payroll.ErrZeroHours) {
			api.Fail(w, http.StatusConflict, "zero_hours", "employee has no working hours configured", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to build payslip", requestID)
		return
	}
	h.Metrics.RecordPayslip()

	switch format {
	case "", "json":
		api.Success(w, slip, requestID)
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, payslip.RenderText(slip))
	case "pdf":
		name := fmt.Sprintf("payslip_%s_%s.pdf", employee.ID, time.Now().Format("20060102_150405"))
		path := filepath.Join(h.ReportDir, "payslips", name)
		if err := payslip.RenderPDF(slip, path); err != nil {
			api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to render payslip pdf", requestID)
			return
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		w.Header().Set("Content-Type", "application/pdf")
		http.ServeFile(w, r, path)
	default:
		api.Fail(w, http.StatusBadRequest, "invalid_format", "format must be json, text or pdf", requestID)
	}
}

// persist writes the snapshot after a mutation when autosave is on.
// The in-memory change stands either way; a failed save is reported so
// the operator can retry an explicit save.
func (h *Handler) persist(w http.ResponseWriter, requestID string) bool {
	if !h.Autosave {
		return true
	}
	if err := h.Store.Save(); err != nil {
		api.Fail(w, http.StatusInternalServerError, "snapshot_save_failed", "employee set changed in memory but saving the snapshot failed", requestID)
		return false
	}
	h.Metrics.RecordSnapshotSave()
	return true
}
