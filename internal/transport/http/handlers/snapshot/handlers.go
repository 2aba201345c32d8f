package snapshothandler

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"factorypay/internal/domain/payroll"
	"factorypay/internal/platform/jobs"
	"factorypay/internal/platform/metrics"
	"factorypay/internal/transport/http/api"
	"factorypay/internal/transport/http/middleware"
)

type Handler struct {
	Store   *payroll.Store
	Mu      *sync.Mutex
	Jobs    *jobs.Service
	Metrics *metrics.Collector
}

func NewHandler(store *payroll.Store, mu *sync.Mutex, jobService *jobs.Service, collector *metrics.Collector) *Handler {
	return &Handler{Store: store, Mu: mu, Jobs: jobService, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/snapshot", func(r chi.Router) {
		r.Post("/save", h.handleSave)
		r.Post("/backup", h.handleBackup)
		r.Post("/reload", h.handleReload)
		r.Get("/status", h.handleStatus)
	})
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	h.Mu.Lock()
	defer h.Mu.Unlock()

	if err := h.Store.Save(); err != nil {
		api.Fail(w, http.StatusInternalServerError, "snapshot_save_failed", "failed to write snapshot", requestID)
		return
	}
	h.Metrics.RecordSnapshotSave()

	api.Success(w, map[string]any{
		"file":      h.Store.Path(),
		"employees": h.Store.Count(),
	}, requestID)
}

// handleBackup runs the backup inline through the job service so the
// run lands in the same history the scheduled backups write to.
func (h *Handler) handleBackup(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	details, err := h.Jobs.RunNow(r.Context(), jobs.JobSnapshotBackup, h.BackupJob())
	if err != nil {
		if errors.Is(err, payroll.ErrNoSnapshot) {
			api.Fail(w, http.StatusConflict, "no_snapshot", "no snapshot file to back up; save first", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "snapshot_backup_failed", "failed to copy snapshot", requestID)
		return
	}
	api.Created(w, details, requestID)
}

// BackupJob is the closure both the manual endpoint and the scheduler
// enqueue. It copies the on-disk snapshot, never the in-memory state.
func (h *Handler) BackupJob() func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		h.Mu.Lock()
		defer h.Mu.Unlock()

		path, err := h.Store.Backup()
		if err != nil {
			return nil, err
		}
		h.Metrics.RecordSnapshotBackup()
		return map[string]any{"file": path}, nil
	}
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	h.Mu.Lock()
	defer h.Mu.Unlock()

	if err := h.Store.Load(); err != nil {
		api.Fail(w, http.StatusInternalServerError, "snapshot_reload_failed", "snapshot could not be read; in-memory set reset to empty", requestID)
		return
	}
	api.Success(w, map[string]any{
		"file":      h.Store.Path(),
		"employees": h.Store.Count(),
	}, requestID)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	h.Mu.Lock()
	count := h.Store.Count()
	path := h.Store.Path()
	backupDir := h.Store.BackupDir()
	h.Mu.Unlock()

	status := map[string]any{
		"file":       path,
		"backup_dir": backupDir,
		"employees":  count,
		"exists":     false,
		"jobs":       h.Jobs.History(),
	}
	if info, err := os.Stat(path); err == nil {
		status["exists"] = true
		status["size_bytes"] = info.Size()
		status["modified_at"] = info.ModTime().Format(time.RFC3339)
	}

	api.Success(w, status, requestID)
}
