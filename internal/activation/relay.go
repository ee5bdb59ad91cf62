package activation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/config"
	"github.com/fithub/fithub-onboarding/internal/domain/entity"
	"github.com/fithub/fithub-onboarding/internal/domain/repository"
	"github.com/fithub/fithub-onboarding/internal/observability"
)

const defaultBatchSize = 100

// Relay moves approved applications to the publisher. An approved
// application with no dispatch stamp is the outbox entry; the stamp is
// written only after a successful publish, so a crash in between means the
// event is published again and never lost.
type Relay struct {
	appRepo   repository.TrainerApplicationRepository
	publisher Publisher
	sink      string
	batchSize int
	metrics   *observability.MetricsProvider
	logger    *zap.Logger
	now       func() time.Time
}

// NewRelay creates a relay
func NewRelay(
	appRepo repository.TrainerApplicationRepository,
	publisher Publisher,
	cfg config.ActivationConfig,
	metrics *observability.MetricsProvider,
	logger *zap.Logger,
) *Relay {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	return &Relay{
		appRepo:   appRepo,
		publisher: publisher,
		sink:      string(cfg.Sink),
		batchSize: batch,
		metrics:   metrics,
		logger:    logger.Named("activation.relay"),
		now:       time.Now,
	}
}

// Dispatch publishes one freshly approved application. Failures are left
// for the next sweep.
func (r *Relay) Dispatch(ctx context.Context, app *entity.TrainerApplication) error {
	if !app.AwaitingActivation() {
		return nil
	}
	return r.publish(ctx, app)
}

// Sweep publishes up to one batch of approved applications that have not
// been dispatched and returns how many were published. A failed publish
// is logged and retried on the next sweep.
func (r *Relay) Sweep(ctx context.Context) (published int, err error) {
	ctx, span := observability.Start(ctx, "ActivationRelay.Sweep")
	defer func() { observability.EndSpan(span, err) }()

	apps, err := r.appRepo.ListAwaitingActivation(ctx, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list awaiting activation: %w", err)
	}

	for _, app := range apps {
		if ctx.Err() != nil {
			return published, ctx.Err()
		}
		if err := r.publish(ctx, app); err != nil {
			r.logger.Warn("activation publish failed, will retry",
				zap.Uint("application_id", app.ID),
				zap.Error(err),
			)
			continue
		}
		published++
	}
	if len(apps) > 0 {
		r.logger.Info("activation sweep finished",
			zap.Int("pending", len(apps)),
			zap.Int("published", published),
		)
	}
	return published, nil
}

func (r *Relay) publish(ctx context.Context, app *entity.TrainerApplication) error {
	err := r.publisher.Publish(ctx, NewEvent(app))
	r.metrics.RecordActivationPublished(ctx, r.sink, err)
	if err != nil {
		return err
	}

	marked, err := r.appRepo.MarkDispatched(ctx, app.ID, r.now().UTC())
	if err != nil {
		return fmt.Errorf("mark application %d dispatched: %w", app.ID, err)
	}
	if !marked {
		r.logger.Debug("activation already marked dispatched", zap.Uint("application_id", app.ID))
	}
	return nil
}
