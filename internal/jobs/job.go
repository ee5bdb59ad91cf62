// Package jobs is the Redis-backed background job system: a priority queue
// with delayed retries and a dead letter list, a worker pool, and a
// leader-elected cron scheduler.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// KeyPrefix namespaces every Redis key the job system writes
const KeyPrefix = "fithub:jobs:"

var (
	ErrJobNotFound  = errors.New("job not found")
	ErrDuplicateJob = errors.New("duplicate job with same unique key")
	ErrQueueEmpty   = errors.New("queue is empty")
)

// Priority represents job priority levels
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

// Priorities lists every priority, highest first
var Priorities = []Priority{PriorityCritical, PriorityHigh, PriorityNormal, PriorityLow}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// QueueName returns the Redis list holding jobs of this priority
func (p Priority) QueueName() string {
	return KeyPrefix + "queue:" + p.String()
}

// JobStatus represents the current status of a job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusRetrying  JobStatus = "retrying"
	JobStatusDead      JobStatus = "dead"
)

// RetryPolicy controls how long a failed job waits before its next attempt
type RetryPolicy struct {
	MaxRetries   int           `json:"max_retries"`
	InitialDelay time.Duration `json:"initial_delay"`
	MaxDelay     time.Duration `json:"max_delay"`
	Multiplier   float64       `json:"multiplier"`
}

// DefaultRetryPolicy retries five times with exponential backoff
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:   5,
		InitialDelay: time.Second,
		MaxDelay:     5 * time.Minute,
		Multiplier:   2.0,
	}
}

// Delay returns the wait before retry number attempt (1-based)
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	delay := time.Duration(float64(p.InitialDelay) * math.Pow(mult, float64(attempt-1)))
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}

// JobPayload is the serializable job stored in the queue
type JobPayload struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Payload       json.RawMessage `json:"payload"`
	Priority      Priority        `json:"priority"`
	Status        JobStatus       `json:"status"`
	Attempts      int             `json:"attempts"`
	RetryPolicy   RetryPolicy     `json:"retry_policy"`
	Timeout       time.Duration   `json:"timeout"`
	ScheduledAt   *time.Time      `json:"scheduled_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	StartedAt     *time.Time      `json:"started_at,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	LastError     string          `json:"last_error,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	UniqueKey     string          `json:"unique_key,omitempty"`
}

// NewJobPayload creates a job of the given type
func NewJobPayload(jobType string, payload any, opts ...JobOption) (*JobPayload, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	jp := &JobPayload{
		ID:          uuid.NewString(),
		Type:        jobType,
		Payload:     data,
		Priority:    PriorityNormal,
		Status:      JobStatusPending,
		RetryPolicy: DefaultRetryPolicy(),
		Timeout:     time.Minute,
		CreatedAt:   time.Now(),
	}
	for _, opt := range opts {
		opt(jp)
	}
	return jp, nil
}

// CanRetry reports whether another attempt is allowed after a failure
func (j *JobPayload) CanRetry() bool {
	return j.Attempts <= j.RetryPolicy.MaxRetries
}

// JobOption configures a job
type JobOption func(*JobPayload)

func WithPriority(p Priority) JobOption {
	return func(jp *JobPayload) { jp.Priority = p }
}

func WithRetryPolicy(policy RetryPolicy) JobOption {
	return func(jp *JobPayload) { jp.RetryPolicy = policy }
}

func WithTimeout(d time.Duration) JobOption {
	return func(jp *JobPayload) { jp.Timeout = d }
}

// WithDelay schedules the job after a delay
func WithDelay(d time.Duration) JobOption {
	return func(jp *JobPayload) {
		t := time.Now().Add(d)
		jp.ScheduledAt = &t
	}
}

func WithCorrelationID(id string) JobOption {
	return func(jp *JobPayload) { jp.CorrelationID = id }
}

// WithUniqueKey rejects the enqueue while another job with the same key is
// queued, scheduled or running
func WithUniqueKey(key string) JobOption {
	return func(jp *JobPayload) { jp.UniqueKey = key }
}

// Queue is the job queue contract the worker pool and scheduler use
type Queue interface {
	Enqueue(ctx context.Context, job *JobPayload) error
	Dequeue(ctx context.Context, priorities ...Priority) (*JobPayload, error)
	GetJob(ctx context.Context, jobID string) (*JobPayload, error)
	Complete(ctx context.Context, jobID string) error
	// Fail records the error and either schedules a retry or moves the job
	// to the dead letter list. It reports whether a retry was scheduled.
	Fail(ctx context.Context, jobID string, jobErr error) (bool, error)
	// Requeue puts a dequeued job back without counting the attempt
	Requeue(ctx context.Context, job *JobPayload) error
	// ProcessScheduled moves due delayed jobs onto their priority lists
	ProcessScheduled(ctx context.Context) (int, error)
	DeadJobs(ctx context.Context, limit int64) ([]*JobPayload, error)
	RetryDead(ctx context.Context, jobID string) error
	Stats(ctx context.Context) (QueueStats, error)
}

// QueueStats is a snapshot of queue depth
type QueueStats struct {
	Pending    int64            `json:"pending"`
	Scheduled  int64            `json:"scheduled"`
	Dead       int64            `json:"dead"`
	Completed  int64            `json:"completed_total"`
	Failed     int64            `json:"failed_total"`
	QueueSizes map[string]int64 `json:"queue_sizes"`
}
