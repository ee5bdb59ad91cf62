package di

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/config"
	"github.com/fithub/fithub-onboarding/internal/observability"
	"github.com/fithub/fithub-onboarding/internal/resilience"
)

// ObservabilityModule provides metrics, tracing and the resilience
// primitives that report into them
var ObservabilityModule = fx.Module("observability",
	fx.Provide(
		provideMetricsProvider,
		provideTracingProvider,
		provideCircuitBreakerRegistry,
		provideRateLimiter,
	),
)

func provideMetricsProvider(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*observability.MetricsProvider, error) {
	mp, err := observability.NewMetricsProvider(&observability.MetricsConfig{
		Enabled:        cfg.Observability.MetricsEnabled,
		ServiceName:    cfg.App.Name,
		PrometheusPath: cfg.Observability.MetricsPath,
	}, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return mp.Shutdown(ctx)
		},
	})
	return mp, nil
}

func provideTracingProvider(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*observability.TracingProvider, error) {
	tp, err := observability.NewTracingProvider(&observability.TracingConfig{
		Enabled:        cfg.Observability.TracingEnabled,
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		ExporterType:   cfg.Observability.ExporterType,
		OTLPEndpoint:   cfg.Observability.OTLPEndpoint,
		OTLPInsecure:   cfg.Observability.OTLPInsecure,
		SamplingRate:   cfg.Observability.SamplingRate,
	}, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})
	return tp, nil
}

func provideCircuitBreakerRegistry(metrics *observability.MetricsProvider, logger *zap.Logger) *resilience.CircuitBreakerRegistry {
	registry := resilience.NewCircuitBreakerRegistry(logger.Named("breaker"))
	registry.OnStateChange = metrics.RecordCircuitState
	return registry
}

// provideRateLimiter returns nil when throttling is disabled; the
// middleware passes every request through a nil limiter
func provideRateLimiter(cfg *config.ServerConfig) *resilience.KeyedLimiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return resilience.NewKeyedLimiter(resilience.RateLimiterConfig{
		Rate:   cfg.RateLimit.Rate,
		Period: cfg.RateLimit.Period,
		Burst:  cfg.RateLimit.Burst,
	})
}
