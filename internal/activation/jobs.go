package activation

import (
	"context"
	"time"

	"github.com/fithub/fithub-onboarding/internal/config"
	"github.com/fithub/fithub-onboarding/internal/jobs"
	"github.com/fithub/fithub-onboarding/internal/jobs/handler"
	"github.com/fithub/fithub-onboarding/internal/jobs/scheduler"
)

// SweepPayload is the empty payload of activation.sweep jobs
type SweepPayload struct{}

// RegisterHandlers installs the activation job handlers on the worker
func RegisterHandlers(registry *handler.Registry, relay *Relay, materializer *Materializer) {
	handler.Register(registry, JobTypeActivate, materializer.Handle)
	handler.Register(registry, JobTypeSweep, func(ctx context.Context, _ SweepPayload) error {
		_, err := relay.Sweep(ctx)
		return err
	})
}

// SweepJob is the cron entry that enqueues the activation sweep
func SweepJob(cfg config.ActivationConfig) scheduler.ScheduledJob {
	return scheduler.ScheduledJob{
		Name:     SweepJobName,
		Schedule: cfg.SweepSchedule,
		JobType:  JobTypeSweep,
		Payload:  SweepPayload{},
		Priority: jobs.PriorityNormal,
		Timeout:  2 * time.Minute,
	}
}
