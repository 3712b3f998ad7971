package cron

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	robfig "github.com/robfig/cron/v3"
)

var (
	ErrJobRunning = errors.New("job already running")
	ErrUnknownJob = errors.New("unknown job")
)

// Locker serializes a job across instances. TryLock returns ok=false when
// another instance holds the lock.
type Locker interface {
	TryLock(ctx context.Context, name string, ttl time.Duration) (release func(), ok bool, err error)
}

// Job represents a scheduled job
type Job struct {
	Name     string
	Interval time.Duration // zero for calendar jobs
	Spec     string        // cron spec for calendar jobs
	Fn       func(ctx context.Context) error

	running atomic.Bool
}

type Option func(*Scheduler)

// WithLocker makes every run take a distributed lock first.
func WithLocker(l Locker, ttl time.Duration) Option {
	return func(s *Scheduler) {
		s.locker = l
		s.lockTTL = ttl
	}
}

// Scheduler runs interval jobs on tickers and calendar jobs on a cron
// clock pinned to one timezone. A job never overlaps itself.
type Scheduler struct {
	jobs     []*Job
	byName   map[string]*Job
	calendar *robfig.Cron
	locker   Locker
	lockTTL  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewScheduler creates a new cron scheduler
func NewScheduler(loc *time.Location, opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		byName:   make(map[string]*Job),
		calendar: robfig.New(robfig.WithLocation(loc)),
		lockTTL:  10 * time.Minute,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddJob adds an interval job. It runs once on Start and then every interval.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := &Job{Name: name, Interval: interval, Fn: fn}
	s.jobs = append(s.jobs, job)
	s.byName[name] = job
	slog.Info("Cron job registered", "name", name, "interval", interval)
}

// AddCalendarJob adds a job on a standard 5-field cron spec, e.g. "0 22 * * *".
func (s *Scheduler) AddCalendarJob(name string, spec string, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := &Job{Name: name, Spec: spec, Fn: fn}
	if _, err := s.calendar.AddFunc(spec, func() { _ = s.executeJob(s.ctx, job) }); err != nil {
		return err
	}
	s.jobs = append(s.jobs, job)
	s.byName[name] = job
	slog.Info("Cron job registered", "name", name, "spec", spec, "location", s.calendar.Location().String())
	return nil
}

// Start begins running all scheduled jobs
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		if job.Interval <= 0 {
			continue
		}
		s.wg.Add(1)
		go s.runJob(job)
	}
	s.calendar.Start()

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop gracefully stops all scheduled jobs
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	s.cancel()
	<-s.calendar.Stop().Done()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

// Trigger runs a registered job now, subject to the same overlap guard.
func (s *Scheduler) Trigger(ctx context.Context, name string) error {
	s.mu.Lock()
	job, ok := s.byName[name]
	s.mu.Unlock()
	if !ok {
		return ErrUnknownJob
	}
	return s.executeJob(ctx, job)
}

// TriggerAfter runs name once after delay unless the scheduler stops first.
func (s *Scheduler) TriggerAfter(name string, delay time.Duration) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-s.ctx.Done():
		case <-t.C:
			_ = s.Trigger(s.ctx, name)
		}
	}()
}

// runJob runs a single job on its schedule
func (s *Scheduler) runJob(job *Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	// Run immediately on start
	_ = s.executeJob(s.ctx, job)

	for {
		select {
		case <-s.ctx.Done():
			slog.Info("Cron job stopping", "name", job.Name)
			return
		case <-ticker.C:
			_ = s.executeJob(s.ctx, job)
		}
	}
}

// executeJob executes a job and logs results
func (s *Scheduler) executeJob(ctx context.Context, job *Job) error {
	if !job.running.CompareAndSwap(false, true) {
		slog.Warn("Cron job skipped, previous run still in progress", "name", job.Name)
		return ErrJobRunning
	}
	defer job.running.Store(false)

	if s.locker != nil {
		release, ok, err := s.locker.TryLock(ctx, job.Name, s.lockTTL)
		if err != nil {
			slog.Error("Cron job lock failed", "name", job.Name, "error", err)
			return err
		}
		if !ok {
			slog.Info("Cron job held by another instance", "name", job.Name)
			return ErrJobRunning
		}
		defer release()
	}

	start := time.Now()
	slog.Debug("Cron job starting", "name", job.Name)

	if err := job.Fn(ctx); err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
		return err
	}
	slog.Info("Cron job completed", "name", job.Name, "duration", time.Since(start))
	return nil
}

// RunOnce runs all jobs once (useful for testing)
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	jobs := append([]*Job(nil), s.jobs...)
	s.mu.Unlock()

	for _, job := range jobs {
		_ = s.executeJob(ctx, job)
	}
}
