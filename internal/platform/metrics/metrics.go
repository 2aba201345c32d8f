package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64

	snapshotSaves     uint64
	snapshotBackups   uint64
	payslipsGenerated uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordSnapshotSave() {
	atomic.AddUint64(&c.snapshotSaves, 1)
}

func (c *Collector) RecordSnapshotBackup() {
	atomic.AddUint64(&c.snapshotBackups, 1)
}

func (c *Collector) RecordPayslip() {
	atomic.AddUint64(&c.payslipsGenerated, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":          total,
		"errorsTotal":            errs,
		"rateLimitedTotal":       limited,
		"avgDurationMs":          avg,
		"totalDurationMs":        totalMs,
		"snapshotSavesTotal":     atomic.LoadUint64(&c.snapshotSaves),
		"snapshotBackupsTotal":   atomic.LoadUint64(&c.snapshotBackups),
		"payslipsGeneratedTotal": atomic.LoadUint64(&c.payslipsGenerated),
	}
}
