package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	JobEmail        = "email"
	JobResetCleanup = "password_reset_cleanup"
)

// Observer receives the result of every job. metrics.Collector satisfies it.
type Observer interface {
	RecordJob(err error, dropped bool)
}

type Service struct {
	queue    chan job
	observer Observer
	wg       sync.WaitGroup
	schedMu  sync.Mutex
	schedule []periodic
}

type job struct {
	Type string
	Run  func(context.Context) error
}

type periodic struct {
	Type     string
	Interval time.Duration
	Run      func(context.Context) error
}

func New(queueSize int, observer Observer) *Service {
	if queueSize <= 0 {
		queueSize = 128
	}
	return &Service{
		queue:    make(chan job, queueSize),
		observer: observer,
	}
}

// Every registers a periodic job. It must be called before Start.
func (s *Service) Every(jobType string, interval time.Duration, run func(context.Context) error) {
	if interval <= 0 {
		return
	}
	s.schedMu.Lock()
	s.schedule = append(s.schedule, periodic{Type: jobType, Interval: interval, Run: run})
	s.schedMu.Unlock()
}

func (s *Service) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.worker(ctx)

	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	for _, p := range s.schedule {
		s.wg.Add(1)
		go s.runPeriodic(ctx, p)
	}
}

// Wait blocks until the worker and schedulers have exited.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) Enqueue(jobType string, run func(context.Context) error) bool {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		slog.Warn("job queue full", "jobType", jobType)
		s.observe(nil, true)
		return false
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) error) error {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			s.drain()
			return
		case j := <-s.queue:
			if err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

// drain gives already queued jobs a short grace period after shutdown.
func (s *Service) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case j := <-s.queue:
			if err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed during drain", "jobType", j.Type, "err", err)
			}
		default:
			return
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (err error) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("job panicked", "jobType", j.Type, "panic", rec)
			err = errPanic
		}
		s.observe(err, false)
		slog.Debug("job finished", "jobType", j.Type, "durationMs", time.Since(start).Milliseconds(), "failed", err != nil)
	}()
	return j.Run(ctx)
}

func (s *Service) runPeriodic(ctx context.Context, p periodic) {
	defer s.wg.Done()
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(p.Type, p.Run)
		}
	}
}

func (s *Service) observe(err error, dropped bool) {
	if s.observer != nil {
		s.observer.RecordJob(err, dropped)
	}
}
