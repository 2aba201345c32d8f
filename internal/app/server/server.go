package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"factorypay/internal/auth"
	"factorypay/internal/domain/payroll"
	"factorypay/internal/platform/config"
	"factorypay/internal/platform/jobs"
	"factorypay/internal/platform/metrics"
	authhandler "factorypay/internal/transport/http/handlers/auth"
	employeeshandler "factorypay/internal/transport/http/handlers/employees"
	reportshandler "factorypay/internal/transport/http/handlers/reports"
	snapshothandler "factorypay/internal/transport/http/handlers/snapshot"
	"factorypay/internal/transport/http/middleware"
)

// App wires the store, auth, jobs and router for one server instance.
// The store is not safe for concurrent use, so a single mutex owned
// here serializes every store access by handlers and background jobs.
type App struct {
	Config  config.Config
	Store   *payroll.Store
	Auth    *auth.Service
	Jobs    *jobs.Service
	Metrics *metrics.Collector
	Router  http.Handler

	mu     sync.Mutex
	cancel context.CancelFunc
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	policy, err := payroll.ParseLatePolicy(cfg.LatePolicy)
	if err != nil {
		return nil, err
	}

	authService, err := auth.NewService(cfg.JWTSecret, cfg.AdminPassword, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	store := payroll.NewStore(cfg.SnapshotPath, cfg.BackupDir)
	if err := store.Load(); err != nil {
		log.Printf("snapshot load failed, starting with empty employee set: %v", err)
	}

	jobCtx, cancel := context.WithCancel(ctx)

	app := &App{
		Config:  cfg,
		Store:   store,
		Auth:    authService,
		Jobs:    jobs.New(),
		Metrics: metrics.New(),
		cancel:  cancel,
	}

	employeesHandler := employeeshandler.NewHandler(store, &app.mu, policy, cfg.Autosave, cfg.ReportDir, app.Metrics, middleware.NewIdempotencyStore())
	reportsHandler := reportshandler.NewHandler(store, &app.mu, policy, cfg.ReportDir)
	snapshotHandler := snapshothandler.NewHandler(store, &app.mu, app.Jobs, app.Metrics)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.Logger)
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(app.Metrics))
	}
	router.Use(middleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.Auth(authService))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := probeSnapshotDir(cfg.SnapshotPath); err != nil {
			http.Error(w, "snapshot dir not writable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(app.Metrics.Snapshot())
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

		authHandler := authhandler.NewHandler(authService)
		r.Post("/auth/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireOperator(authService.Enabled()))
			employeesHandler.RegisterRoutes(r)
			reportsHandler.RegisterRoutes(r)
			snapshotHandler.RegisterRoutes(r)
		})
	})

	app.Jobs.Start(jobCtx)
	if cfg.BackupInterval > 0 {
		app.Jobs.Schedule(jobCtx, jobs.JobSnapshotBackup, cfg.BackupInterval, snapshotHandler.BackupJob())
	}

	app.Router = router
	return app, nil
}

// Close stops the job worker and any scheduled backups.
func (a *App) Close() {
	a.cancel()
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	log.Printf("factorypay server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// probeSnapshotDir verifies the snapshot can actually be written, not
// just that the path parses. Readiness gates on persistence working.
func probeSnapshotDir(snapshotPath string) error {
	dir := filepath.Dir(snapshotPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	probe, err := os.CreateTemp(dir, ".readyz-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	_ = probe.Close()
	return os.Remove(name)
}
