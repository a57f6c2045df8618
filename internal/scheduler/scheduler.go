// file: internal/scheduler/scheduler.go
// version: 1.0.0
// guid: 8c2acb4d-b167-4986-9726-4444d42d5b47

// Package scheduler runs registered jobs on interval, one-shot, and
// (reserved) cron schedules under a single global concurrency bound.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/svetakrava/chorrosion/internal/metrics"
)

// DefaultMaxConcurrentJobs bounds simultaneous executions when no
// explicit limit is configured.
const DefaultMaxConcurrentJobs = 8

// Default job capability values. Concrete jobs override as needed.
const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 60 * time.Second
)

// JobType classifies a job for logging and metrics.
type JobType string

const (
	JobTypeRSSSync         JobType = "rss_sync"
	JobTypeBacklogSearch   JobType = "backlog_search"
	JobTypeMetadataRefresh JobType = "metadata_refresh"
	JobTypeHousekeeping    JobType = "housekeeping"
)

// JobContext is built fresh for every execution attempt sequence.
type JobContext struct {
	JobID         string
	ExecutionTime time.Time
}

// Result reports one execution attempt. A nil Err is success. Retry is
// only consulted on failure.
type Result struct {
	Err   error
	Retry bool
}

// Success reports a completed attempt.
func Success() Result { return Result{} }

// Failure reports a failed attempt. retry=false terminates the attempt
// loop regardless of remaining attempts.
func Failure(err error, retry bool) Result { return Result{Err: err, Retry: retry} }

// Job is the capability set every schedulable unit exposes.
type Job interface {
	Type() JobType
	Name() string
	Execute(ctx context.Context, jc JobContext) Result
	Retriable() bool
	MaxRetries() int
	RetryDelay() time.Duration
}

// BaseJob carries the default capability values. Embed it and override
// only what differs.
type BaseJob struct{}

func (BaseJob) Retriable() bool           { return true }
func (BaseJob) MaxRetries() int           { return DefaultMaxRetries }
func (BaseJob) RetryDelay() time.Duration { return DefaultRetryDelay }

// ScheduleKind discriminates the schedule variants.
type ScheduleKind int

const (
	ScheduleInterval ScheduleKind = iota
	ScheduleOnce
	ScheduleCron
)

// Schedule describes when a job's driver fires.
type Schedule struct {
	Kind  ScheduleKind
	Every time.Duration
	Expr  string
}

// Interval fires every d. d must be positive; Register rejects others.
func Interval(d time.Duration) Schedule { return Schedule{Kind: ScheduleInterval, Every: d} }

// Once fires a single execution at startup.
func Once() Schedule { return Schedule{Kind: ScheduleOnce} }

// Cron is reserved. Registered cron jobs warn once at start and stay
// inert.
func Cron(expr string) Schedule { return Schedule{Kind: ScheduleCron, Expr: expr} }

type registration struct {
	job      Job
	schedule Schedule
}

// Scheduler owns the registry and the global execution semaphore. Ticks
// that fire while the semaphore is saturated are dropped, never queued.
type Scheduler struct {
	mu      sync.RWMutex
	jobs    map[string]registration
	sem     chan struct{}
	stop    chan struct{}
	wg      sync.WaitGroup
	started bool
}

// New builds a scheduler allowing at most maxConcurrent simultaneous
// executions.
func New(maxConcurrent int) *Scheduler {
	if maxConcurrent < 1 {
		maxConcurrent = DefaultMaxConcurrentJobs
	}
	return &Scheduler{
		jobs: make(map[string]registration),
		sem:  make(chan struct{}, maxConcurrent),
		stop: make(chan struct{}),
	}
}

// Register adds a job under a unique id. Registration after Start is
// rejected.
func (s *Scheduler) Register(id string, job Job, schedule Schedule) error {
	if id == "" {
		return fmt.Errorf("job id must not be empty")
	}
	if job == nil {
		return fmt.Errorf("job %q is nil", id)
	}
	if schedule.Kind == ScheduleInterval && schedule.Every <= 0 {
		return fmt.Errorf("job %q: interval must be positive, got %s", id, schedule.Every)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("job %q: scheduler already started", id)
	}
	if _, exists := s.jobs[id]; exists {
		return fmt.Errorf("job %q already registered", id)
	}
	s.jobs[id] = registration{job: job, schedule: schedule}
	log.Printf("[INFO] scheduler: registered job %s (%s)", id, job.Type())
	return nil
}

// Start spawns one driver per registered job. ctx is the base context
// handed to every execution.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already started")
	}
	s.started = true
	registered := make(map[string]registration, len(s.jobs))
	for id, reg := range s.jobs {
		registered[id] = reg
	}
	s.mu.Unlock()

	for id, reg := range registered {
		switch reg.schedule.Kind {
		case ScheduleInterval:
			s.wg.Add(1)
			go s.runInterval(ctx, id, reg.job, reg.schedule.Every)
		case ScheduleOnce:
			s.wg.Add(1)
			go s.runOnce(ctx, id, reg.job)
		case ScheduleCron:
			log.Printf("[WARN] scheduler: job %s uses an unimplemented cron schedule %q, skipping", id, reg.schedule.Expr)
		}
	}
	log.Printf("[INFO] scheduler: started with %d registered jobs, max %d concurrent", len(registered), cap(s.sem))
	return nil
}

// Stop halts every driver and waits for in-flight executions to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	s.mu.Unlock()

	s.wg.Wait()
	log.Printf("[INFO] scheduler: stopped")
}

// InFlight reports how many executions currently hold a permit.
func (s *Scheduler) InFlight() int { return len(s.sem) }

func (s *Scheduler) runInterval(ctx context.Context, id string, job Job, every time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Saturated semaphore drops the tick. The driver keeps
			// ticking so the next free permit serves the next tick.
			select {
			case s.sem <- struct{}{}:
				s.wg.Add(1)
				go func() {
					defer s.wg.Done()
					defer func() { <-s.sem }()
					s.executeJob(ctx, id, job)
				}()
			default:
				metrics.IncJobTickDropped(id)
				log.Printf("[DEBUG] scheduler: tick for job %s dropped, all permits in use", id)
			}
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, id string, job Job) {
	defer s.wg.Done()
	select {
	case <-s.stop:
		return
	case <-ctx.Done():
		return
	case s.sem <- struct{}{}:
	}
	defer func() { <-s.sem }()
	s.executeJob(ctx, id, job)
}

// executeJob drives the attempt loop for one permit-holding execution.
func (s *Scheduler) executeJob(ctx context.Context, id string, job Job) {
	jc := JobContext{JobID: id, ExecutionTime: time.Now().UTC()}

	maxAttempts := 1
	if job.Retriable() {
		maxAttempts = job.MaxRetries() + 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		start := time.Now()
		result := s.invoke(ctx, job, jc)
		metrics.ObserveJobDuration(id, time.Since(start))

		if result.Err == nil {
			metrics.IncJobExecution(id, "success")
			if attempt > 1 {
				log.Printf("[INFO] scheduler: job %s succeeded on attempt %d/%d", id, attempt, maxAttempts)
			}
			return
		}

		log.Printf("[ERROR] scheduler: job %s attempt %d/%d failed: %v", id, attempt, maxAttempts, result.Err)
		if !result.Retry || attempt >= maxAttempts {
			metrics.IncJobExecution(id, "failure")
			log.Printf("[WARN] scheduler: job %s abandoned after %d attempts", id, attempt)
			return
		}

		select {
		case <-s.stop:
			metrics.IncJobExecution(id, "aborted")
			return
		case <-ctx.Done():
			metrics.IncJobExecution(id, "aborted")
			return
		case <-time.After(job.RetryDelay()):
		}
	}
}

// invoke shields the attempt loop from a panicking job body.
func (s *Scheduler) invoke(ctx context.Context, job Job, jc JobContext) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Failure(fmt.Errorf("job panicked: %v", r), job.Retriable())
		}
	}()
	return job.Execute(ctx, jc)
}
