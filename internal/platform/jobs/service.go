package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	JobSnapshotBackup = "snapshot_backup"

	StatusCompleted = "completed"
	StatusFailed    = "failed"

	historyLimit = 50
)

// Run is the recorded outcome of one job execution, newest kept first
// in the service history.
type Run struct {
	Job         string    `json:"job"`
	Status      string    `json:"status"`
	Details     any       `json:"details,omitempty"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// Service runs background jobs off a single worker goroutine and keeps
// a bounded in-memory history of outcomes. Job closures own their data
// access; the service only sequences and records them.
type Service struct {
	queue chan job

	mu      sync.Mutex
	history []Run
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New() *Service {
	return &Service{
		queue: make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
}

// Schedule enqueues the job every interval until ctx is done.
func (s *Service) Schedule(ctx context.Context, jobType string, interval time.Duration, run func(context.Context) (any, error)) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Enqueue(jobType, run)
			}
		}
	}()
}

// Enqueue hands the job to the worker without blocking. A full queue
// drops the job with a warning; scheduled jobs come around again.
func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

// RunNow executes the job inline and records it in the history.
func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

// History returns recorded runs, newest first.
func (s *Service) History() []Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Run, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	run := Run{
		Job:       j.Type,
		StartedAt: time.Now(),
	}
	details, err := j.Run(ctx)
	run.CompletedAt = time.Now()
	run.Details = details
	if err != nil {
		run.Status = StatusFailed
		run.Error = err.Error()
	} else {
		run.Status = StatusCompleted
	}
	s.record(run)
	return details, err
}

func (s *Service) record(run Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append([]Run{run}, s.history...)
	if len(s.history) > historyLimit {
		s.history = s.history[:historyLimit]
	}
}
