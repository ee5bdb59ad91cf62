package jobs

import (
	"context"
)

// Service is the producer-facing side of the job system
type Service interface {
	// Enqueue adds a job and returns its ID
	Enqueue(ctx context.Context, jobType string, payload any, opts ...JobOption) (string, error)
	GetJob(ctx context.Context, jobID string) (*JobPayload, error)
	Stats(ctx context.Context) (QueueStats, error)
	DeadJobs(ctx context.Context, limit int) ([]*JobPayload, error)
	RetryDead(ctx context.Context, jobID string) error
}

type jobService struct {
	queue Queue
}

// NewJobService creates a job service over q
func NewJobService(q Queue) Service {
	return &jobService{queue: q}
}

func (s *jobService) Enqueue(ctx context.Context, jobType string, payload any, opts ...JobOption) (string, error) {
	job, err := NewJobPayload(jobType, payload, opts...)
	if err != nil {
		return "", err
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		return "", err
	}
	return job.ID, nil
}

func (s *jobService) GetJob(ctx context.Context, jobID string) (*JobPayload, error) {
	return s.queue.GetJob(ctx, jobID)
}

func (s *jobService) Stats(ctx context.Context) (QueueStats, error) {
	return s.queue.Stats(ctx)
}

func (s *jobService) DeadJobs(ctx context.Context, limit int) ([]*JobPayload, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.queue.DeadJobs(ctx, int64(limit))
}

func (s *jobService) RetryDead(ctx context.Context, jobID string) error {
	return s.queue.RetryDead(ctx, jobID)
}
