package di

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/activation"
	"github.com/fithub/fithub-onboarding/internal/config"
	"github.com/fithub/fithub-onboarding/internal/domain/repository"
	"github.com/fithub/fithub-onboarding/internal/domain/service"
	"github.com/fithub/fithub-onboarding/internal/jobs"
	"github.com/fithub/fithub-onboarding/internal/observability"
	"github.com/fithub/fithub-onboarding/internal/resilience"
)

// ActivationModule provides the activation relay, its publisher and the
// account materializer
var ActivationModule = fx.Module("activation",
	fx.Provide(
		provideActivationPublisher,
		provideActivationRelay,
		provideMaterializer,
		provideActivationDispatcher,
	),
)

func provideActivationPublisher(
	lc fx.Lifecycle,
	cfg *config.Config,
	jobService jobs.Service,
	breakers *resilience.CircuitBreakerRegistry,
	logger *zap.Logger,
) activation.Publisher {
	var publishers activation.MultiPublisher
	if cfg.Activation.UsesQueue() {
		publishers = append(publishers, activation.NewQueuePublisher(jobService, logger))
	}
	if cfg.Activation.UsesKafka() {
		kafka := activation.NewKafkaPublisher(cfg.Kafka, breakers, logger)
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				logger.Info("Closing Kafka writer")
				return kafka.Close()
			},
		})
		publishers = append(publishers, kafka)
	}

	logger.Info("Activation publisher configured",
		zap.String("sink", string(cfg.Activation.Sink)),
		zap.Strings("brokers", kafkaBrokers(cfg)),
	)
	if len(publishers) == 1 {
		return publishers[0]
	}
	return publishers
}

func kafkaBrokers(cfg *config.Config) []string {
	if !cfg.Activation.UsesKafka() {
		return nil
	}
	return cfg.Kafka.Brokers
}

func provideActivationRelay(
	appRepo repository.TrainerApplicationRepository,
	publisher activation.Publisher,
	cfg *config.Config,
	metrics *observability.MetricsProvider,
	logger *zap.Logger,
) *activation.Relay {
	return activation.NewRelay(appRepo, publisher, cfg.Activation, metrics, logger)
}

func provideMaterializer(
	userRepo repository.UserRepository,
	appRepo repository.TrainerApplicationRepository,
	breakers *resilience.CircuitBreakerRegistry,
	metrics *observability.MetricsProvider,
	logger *zap.Logger,
) *activation.Materializer {
	return activation.NewMaterializer(userRepo, appRepo, breakers, metrics, logger)
}

// provideActivationDispatcher returns nil with the fast path off; approved
// applications then wait for the sweep
func provideActivationDispatcher(cfg *config.Config, relay *activation.Relay) service.ActivationDispatcher {
	if !cfg.Activation.FastPath {
		return nil
	}
	return relay
}
