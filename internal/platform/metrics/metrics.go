package metrics

import (
	"sync/atomic"
	"time"
)

// Scan outcome labels.
const (
	ScanClockedIn         = "clocked_in"
	ScanClockedOut        = "clocked_out"
	ScanTooSoon           = "too_soon"
	ScanAlreadyClockedOut = "already_clocked_out"
	ScanUnknownEmployee   = "unknown_employee"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64

	scanClockedIn  uint64
	scanClockedOut uint64
	scanTooSoon    uint64
	scanAlreadyOut uint64
	scanUnknown    uint64
	jobsCompleted  uint64
	jobsFailed     uint64
	jobsDropped    uint64
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

func (c *Collector) RecordScan(outcome string) {
	switch outcome {
	case ScanClockedIn:
		atomic.AddUint64(&c.scanClockedIn, 1)
	case ScanClockedOut:
		atomic.AddUint64(&c.scanClockedOut, 1)
	case ScanTooSoon:
		atomic.AddUint64(&c.scanTooSoon, 1)
	case ScanAlreadyClockedOut:
		atomic.AddUint64(&c.scanAlreadyOut, 1)
	case ScanUnknownEmployee:
		atomic.AddUint64(&c.scanUnknown, 1)
	}
}

func (c *Collector) RecordJob(err error, dropped bool) {
	switch {
	case dropped:
		atomic.AddUint64(&c.jobsDropped, 1)
	case err != nil:
		atomic.AddUint64(&c.jobsFailed, 1)
	default:
		atomic.AddUint64(&c.jobsCompleted, 1)
	}
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
		"requestsTotal":    total,
		"errorsTotal":      errs,
		"rateLimitedTotal": limited,
		"avgDurationMs":    avg,
		"totalDurationMs":  totalMs,
		"scans": map[string]uint64{
			ScanClockedIn:         atomic.LoadUint64(&c.scanClockedIn),
			ScanClockedOut:        atomic.LoadUint64(&c.scanClockedOut),
			ScanTooSoon:           atomic.LoadUint64(&c.scanTooSoon),
			ScanAlreadyClockedOut: atomic.LoadUint64(&c.scanAlreadyOut),
			ScanUnknownEmployee:   atomic.LoadUint64(&c.scanUnknown),
		},
		"jobs": map[string]uint64{
			"completed": atomic.LoadUint64(&c.jobsCompleted),
			"failed":    atomic.LoadUint64(&c.jobsFailed),
			"dropped":   atomic.LoadUint64(&c.jobsDropped),
		},
	}
}
