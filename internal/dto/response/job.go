package response

import (
	"time"

	"github.com/fithub/fithub-onboarding/internal/jobs"
	"github.com/fithub/fithub-onboarding/internal/jobs/scheduler"
	"github.com/fithub/fithub-onboarding/internal/jobs/worker"
)

// JobResponse represents a background job in admin responses
type JobResponse struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Priority      string     `json:"priority"`
	Status        string     `json:"status"`
	Attempts      int        `json:"attempts"`
	MaxRetries    int        `json:"max_retries"`
	ScheduledAt   *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
	CorrelationID string     `json:"correlation_id,omitempty"`
	UniqueKey     string     `json:"unique_key,omitempty"`
}

// NewJobResponse maps a queued job. The payload is left out since it may
// carry a password hash.
func NewJobResponse(j *jobs.JobPayload) JobResponse {
	return JobResponse{
		ID:            j.ID,
		Type:          j.Type,
		Priority:      j.Priority.String(),
		Status:        string(j.Status),
		Attempts:      j.Attempts,
		MaxRetries:    j.RetryPolicy.MaxRetries,
		ScheduledAt:   j.ScheduledAt,
		CreatedAt:     j.CreatedAt,
		StartedAt:     j.StartedAt,
		CompletedAt:   j.CompletedAt,
		LastError:     j.LastError,
		CorrelationID: j.CorrelationID,
		UniqueKey:     j.UniqueKey,
	}
}

// NewJobResponses maps a list of jobs
func NewJobResponses(list []*jobs.JobPayload) []JobResponse {
	out := make([]JobResponse, len(list))
	for i, j := range list {
		out[i] = NewJobResponse(j)
	}
	return out
}

// QueueStatsResponse represents queue statistics
type QueueStatsResponse struct {
	Pending    int64            `json:"pending"`
	Scheduled  int64            `json:"scheduled"`
	Dead       int64            `json:"dead"`
	Completed  int64            `json:"completed"`
	Failed     int64            `json:"failed"`
	QueueSizes map[string]int64 `json:"queue_sizes"`
}

// NewQueueStatsResponse maps a queue snapshot
func NewQueueStatsResponse(s jobs.QueueStats) QueueStatsResponse {
	return QueueStatsResponse{
		Pending:    s.Pending,
		Scheduled:  s.Scheduled,
		Dead:       s.Dead,
		Completed:  s.Completed,
		Failed:     s.Failed,
		QueueSizes: s.QueueSizes,
	}
}

// WorkerStatusResponse is served by the worker process health endpoint
type WorkerStatusResponse struct {
	Workers   worker.Stats        `json:"workers"`
	Leader    bool                `json:"leader"`
	Scheduled []scheduler.JobInfo `json:"scheduled"`
}
