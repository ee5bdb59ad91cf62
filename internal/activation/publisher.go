package activation

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/jobs"
)

// Publisher delivers activation events. Delivery may repeat; consumers
// deduplicate on the application ID.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// QueuePublisher enqueues events as trainer.activate jobs
type QueuePublisher struct {
	jobs   jobs.Service
	logger *zap.Logger
}

// NewQueuePublisher creates a publisher over the job service
func NewQueuePublisher(svc jobs.Service, logger *zap.Logger) *QueuePublisher {
	return &QueuePublisher{jobs: svc, logger: logger.Named("activation.queue")}
}

// Publish enqueues ev. An event already queued for the same application
// counts as published.
func (p *QueuePublisher) Publish(ctx context.Context, ev Event) error {
	jobID, err := p.jobs.Enqueue(ctx, JobTypeActivate, ev,
		jobs.WithPriority(jobs.PriorityHigh),
		jobs.WithUniqueKey(ev.Key()),
		jobs.WithCorrelationID(ev.EventID),
	)
	if errors.Is(err, jobs.ErrDuplicateJob) {
		p.logger.Debug("activation already queued", zap.Uint("application_id", ev.ApplicationID))
		return nil
	}
	if err != nil {
		return err
	}
	p.logger.Debug("activation queued",
		zap.Uint("application_id", ev.ApplicationID),
		zap.String("job_id", jobID),
	)
	return nil
}

// MultiPublisher publishes to every sink in order and stops at the first
// failure, so a retry republishes to all of them
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, ev Event) error {
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}
