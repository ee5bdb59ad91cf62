// Package worker runs queued jobs on a fixed number of goroutines.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/jobs"
	"github.com/fithub/fithub-onboarding/internal/jobs/lock"
)

// JobHandler handles the raw payload of one job type
type JobHandler func(ctx context.Context, payload []byte) error

// Config configures the worker pool
type Config struct {
	Concurrency     int
	PollInterval    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns pool defaults
func DefaultConfig() Config {
	return Config{
		Concurrency:     4,
		PollInterval:    200 * time.Millisecond,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Stats is a snapshot of pool activity
type Stats struct {
	Running       bool   `json:"running"`
	WorkerID      string `json:"worker_id,omitempty"`
	Concurrency   int    `json:"concurrency"`
	ActiveWorkers int64  `json:"active_workers"`
	ProcessedJobs int64  `json:"processed_jobs"`
	FailedJobs    int64  `json:"failed_jobs"`
	SkippedJobs   int64  `json:"skipped_jobs"`
}

// WorkerPool polls the queue and dispatches jobs to registered handlers
type WorkerPool struct {
	config  Config
	queue   jobs.Queue
	locks   *lock.LockManager
	metrics jobs.Metrics
	logger  *zap.Logger

	mu       sync.RWMutex
	handlers map[string]JobHandler

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	active    atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
	skipped   atomic.Int64
}

// NewWorkerPool creates a pool. locks may be nil, in which case jobs run
// without per-job locking or idempotency checks.
func NewWorkerPool(q jobs.Queue, locks *lock.LockManager, metrics jobs.Metrics, logger *zap.Logger, config Config) *WorkerPool {
	if metrics == nil {
		metrics = jobs.NopMetrics{}
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultConfig().PollInterval
	}
	return &WorkerPool{
		config:   config,
		queue:    q,
		locks:    locks,
		metrics:  metrics,
		logger:   logger,
		handlers: make(map[string]JobHandler),
	}
}

// RegisterHandler registers the handler for a job type
func (p *WorkerPool) RegisterHandler(jobType string, handler JobHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[jobType] = handler
	p.logger.Info("Registered job handler", zap.String("job_type", jobType))
}

// Start launches the workers and the delayed-job mover. The workers outlive
// ctx; Stop ends them.
func (p *WorkerPool) Start(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return fmt.Errorf("worker pool already running")
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel

	p.logger.Info("Starting worker pool",
		zap.Int("concurrency", p.config.Concurrency),
		zap.Duration("poll_interval", p.config.PollInterval),
		zap.Bool("locking", p.locks != nil),
	)

	for i := 0; i < p.config.Concurrency; i++ {
		p.wg.Add(1)
		go p.work(runCtx, i)
	}
	p.wg.Add(1)
	go p.moveScheduled(runCtx)
	return nil
}

// Stop waits for in-flight jobs up to the shutdown timeout
func (p *WorkerPool) Stop(ctx context.Context) error {
	if !p.running.CompareAndSwap(true, false) {
		return nil
	}

	p.logger.Info("Stopping worker pool")
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	timeout := p.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().ShutdownTimeout
	}
	select {
	case <-done:
		p.logger.Info("Worker pool stopped")
	case <-time.After(timeout):
		p.logger.Warn("Worker pool shutdown timed out")
	case <-ctx.Done():
		p.logger.Warn("Worker pool shutdown cancelled")
	}

	if p.locks != nil {
		p.locks.ReleaseAll(context.Background())
	}
	return nil
}

func (p *WorkerPool) work(ctx context.Context, id int) {
	defer p.wg.Done()

	logger := p.logger.With(zap.Int("worker", id))
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// drain everything available before waiting for the next tick
			for ctx.Err() == nil && p.processNext(ctx, logger) {
			}
		}
	}
}

// processNext runs one job and reports whether one was dequeued
func (p *WorkerPool) processNext(ctx context.Context, logger *zap.Logger) bool {
	job, err := p.queue.Dequeue(ctx)
	if errors.Is(err, jobs.ErrQueueEmpty) {
		return false
	}
	if err != nil {
		if ctx.Err() == nil {
			logger.Error("Failed to dequeue job", zap.Error(err))
		}
		return false
	}

	logger = logger.With(
		zap.String("job_id", job.ID),
		zap.String("job_type", job.Type),
		zap.Int("attempt", job.Attempts),
	)

	if p.locks != nil {
		if done, err := p.locks.Completed(ctx, job.UniqueKey); err != nil {
			logger.Warn("Idempotency check failed", zap.Error(err))
		} else if done {
			logger.Info("Job already completed, skipping")
			_ = p.queue.Complete(ctx, job.ID)
			p.skipped.Add(1)
			p.metrics.RecordJob(job.Type, jobs.OutcomeSkipped, 0)
			return true
		}

		l, err := p.locks.AcquireLock(ctx, job.ID)
		if err != nil {
			if errors.Is(err, lock.ErrLockNotAcquired) {
				logger.Debug("Job locked by another worker, requeueing")
				if err := p.queue.Requeue(ctx, job); err != nil {
					logger.Error("Failed to requeue job", zap.Error(err))
				}
			} else {
				logger.Error("Failed to acquire job lock", zap.Error(err))
			}
			p.skipped.Add(1)
			return true
		}
		defer func() {
			if err := p.locks.ReleaseLock(context.WithoutCancel(ctx), job.ID, l); err != nil {
				logger.Warn("Failed to release job lock", zap.Error(err))
			}
		}()
	}

	p.execute(ctx, job, logger)
	return true
}

func (p *WorkerPool) execute(ctx context.Context, job *jobs.JobPayload, logger *zap.Logger) {
	p.active.Add(1)
	defer p.active.Add(-1)

	p.mu.RLock()
	handler, ok := p.handlers[job.Type]
	p.mu.RUnlock()

	start := time.Now()
	var err error
	if !ok {
		err = fmt.Errorf("no handler for job type %q", job.Type)
	} else {
		execCtx, cancel := context.WithTimeout(ctx, job.Timeout)
		err = safeRun(execCtx, handler, job.Payload)
		cancel()
	}
	duration := time.Since(start)

	// bookkeeping must land even while shutting down
	bg := context.WithoutCancel(ctx)
	if err != nil {
		p.failed.Add(1)
		retried, ferr := p.queue.Fail(bg, job.ID, err)
		if ferr != nil {
			logger.Error("Failed to record job failure", zap.Error(ferr))
		}
		outcome := jobs.OutcomeDead
		if retried {
			outcome = jobs.OutcomeRetried
		}
		p.metrics.RecordJob(job.Type, outcome, duration)
		logger.Error("Job failed",
			zap.Error(err),
			zap.Bool("will_retry", retried),
			zap.Duration("duration", duration),
		)
		return
	}

	p.processed.Add(1)
	if err := p.queue.Complete(bg, job.ID); err != nil {
		logger.Error("Failed to complete job", zap.Error(err))
	}
	if p.locks != nil {
		if err := p.locks.MarkCompleted(bg, job.UniqueKey, job.ID); err != nil {
			logger.Warn("Failed to mark job completed", zap.Error(err))
		}
	}
	p.metrics.RecordJob(job.Type, jobs.OutcomeCompleted, duration)
	logger.Info("Job completed", zap.Duration("duration", duration))
}

// safeRun turns a handler panic into an error so the job is retried
func safeRun(ctx context.Context, h JobHandler, payload []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job handler panic: %v", r)
		}
	}()
	return h(ctx, payload)
}

func (p *WorkerPool) moveScheduled(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			moved, err := p.queue.ProcessScheduled(ctx)
			if err != nil && ctx.Err() == nil {
				p.logger.Error("Failed to process scheduled jobs", zap.Error(err))
			} else if moved > 0 {
				p.logger.Debug("Moved scheduled jobs", zap.Int("count", moved))
			}
		}
	}
}

// Stats returns pool statistics
func (p *WorkerPool) Stats() Stats {
	s := Stats{
		Running:       p.running.Load(),
		Concurrency:   p.config.Concurrency,
		ActiveWorkers: p.active.Load(),
		ProcessedJobs: p.processed.Load(),
		FailedJobs:    p.failed.Load(),
		SkippedJobs:   p.skipped.Load(),
	}
	if p.locks != nil {
		s.WorkerID = p.locks.WorkerID()
	}
	return s
}
