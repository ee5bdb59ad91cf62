package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	otelprometheus "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/resilience"
)

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	PrometheusPath string `mapstructure:"prometheus_path"`
}

// DefaultMetricsConfig returns default metrics configuration
func DefaultMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		Enabled:        true,
		ServiceName:    "fithub-onboarding",
		PrometheusPath: "/metrics",
	}
}

// MetricsProvider manages OpenTelemetry metrics. Every Record method is a
// no-op on a disabled or nil provider.
type MetricsProvider struct {
	config        *MetricsConfig
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	logger        *zap.Logger
	registry      *prometheus.Registry
	handler       http.Handler

	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	registrationsTotal   metric.Int64Counter
	transitionsTotal     metric.Int64Counter
	reviewConflicts      metric.Int64Counter
	activationsPublished metric.Int64Counter
	trainersCreated      metric.Int64Counter

	jobsTotal      metric.Int64Counter
	jobDuration    metric.Float64Histogram
	circuitState   metric.Int64Gauge
	applicationsBy metric.Int64Gauge
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(config *MetricsConfig, logger *zap.Logger) (*MetricsProvider, error) {
	if !config.Enabled {
		return &MetricsProvider{
			config: config,
			meter:  otel.Meter(config.ServiceName),
			logger: logger,
		}, nil
	}

	registry := prometheus.NewRegistry()

	exporter, err := otelprometheus.New(
		otelprometheus.WithRegisterer(registry),
	)
	if err != nil {
		return nil, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	mp := &MetricsProvider{
		config:        config,
		meterProvider: meterProvider,
		meter:         meterProvider.Meter(config.ServiceName),
		logger:        logger,
		registry:      registry,
		handler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}

	if err := mp.initMetrics(); err != nil {
		return nil, err
	}

	logger.Info("OpenTelemetry metrics initialized",
		zap.String("service", config.ServiceName),
		zap.String("prometheus_path", config.PrometheusPath),
	)

	return mp, nil
}

func (mp *MetricsProvider) initMetrics() error {
	var err error

	if mp.httpRequestsTotal, err = mp.meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return err
	}
	if mp.httpRequestDuration, err = mp.meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return err
	}

	if mp.registrationsTotal, err = mp.meter.Int64Counter(
		"registrations_total",
		metric.WithDescription("Registration attempts by role and outcome"),
	); err != nil {
		return err
	}
	if mp.transitionsTotal, err = mp.meter.Int64Counter(
		"application_transitions_total",
		metric.WithDescription("Trainer applications moved out of pending"),
	); err != nil {
		return err
	}
	if mp.reviewConflicts, err = mp.meter.Int64Counter(
		"review_conflicts_total",
		metric.WithDescription("Reviews refused because the application was already reviewed"),
	); err != nil {
		return err
	}
	if mp.activationsPublished, err = mp.meter.Int64Counter(
		"activations_published_total",
		metric.WithDescription("Activation events handed to a sink"),
	); err != nil {
		return err
	}
	if mp.trainersCreated, err = mp.meter.Int64Counter(
		"trainer_accounts_created_total",
		metric.WithDescription("Trainer accounts materialized from approved applications"),
	); err != nil {
		return err
	}

	if mp.jobsTotal, err = mp.meter.Int64Counter(
		"jobs_processed_total",
		metric.WithDescription("Background jobs processed by type and outcome"),
	); err != nil {
		return err
	}
	if mp.jobDuration, err = mp.meter.Float64Histogram(
		"job_duration_seconds",
		metric.WithDescription("Background job run time in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return err
	}
	if mp.circuitState, err = mp.meter.Int64Gauge(
		"circuit_breaker_state",
		metric.WithDescription("Circuit breaker state: 0 closed, 1 open, 2 half-open"),
	); err != nil {
		return err
	}
	if mp.applicationsBy, err = mp.meter.Int64Gauge(
		"trainer_applications",
		metric.WithDescription("Trainer applications per status at the last count"),
	); err != nil {
		return err
	}

	return nil
}

// RecordHTTPRequest records an HTTP request metric
func (mp *MetricsProvider) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if mp == nil || mp.httpRequestsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		AttrHTTPMethod.String(method),
		AttrHTTPRoute.String(path),
		AttrHTTPStatusCode.Int(statusCode),
	)

	mp.httpRequestsTotal.Add(ctx, 1, attrs)
	mp.httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordRegistration counts a registration attempt
func (mp *MetricsProvider) RecordRegistration(ctx context.Context, role, outcome string) {
	if mp == nil || mp.registrationsTotal == nil {
		return
	}
	mp.registrationsTotal.Add(ctx, 1, metric.WithAttributes(
		AttrRole.String(role),
		AttrOutcome.String(outcome),
	))
}

// RecordTransition counts an applied review
func (mp *MetricsProvider) RecordTransition(ctx context.Context, status string) {
	if mp == nil || mp.transitionsTotal == nil {
		return
	}
	mp.transitionsTotal.Add(ctx, 1, metric.WithAttributes(AttrStatus.String(status)))
}

// RecordReviewConflict counts a review that lost to an earlier one
func (mp *MetricsProvider) RecordReviewConflict(ctx context.Context) {
	if mp == nil || mp.reviewConflicts == nil {
		return
	}
	mp.reviewConflicts.Add(ctx, 1)
}

// RecordActivationPublished counts a publish attempt on one sink
func (mp *MetricsProvider) RecordActivationPublished(ctx context.Context, sink string, err error) {
	if mp == nil || mp.activationsPublished == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	mp.activationsPublished.Add(ctx, 1, metric.WithAttributes(
		AttrSink.String(sink),
		AttrOutcome.String(outcome),
	))
}

// RecordTrainerCreated counts a materialized trainer account
func (mp *MetricsProvider) RecordTrainerCreated(ctx context.Context) {
	if mp == nil || mp.trainersCreated == nil {
		return
	}
	mp.trainersCreated.Add(ctx, 1)
}

// RecordJob records one processed job. It satisfies jobs.Metrics.
func (mp *MetricsProvider) RecordJob(jobType, outcome string, duration time.Duration) {
	if mp == nil || mp.jobsTotal == nil {
		return
	}
	ctx := context.Background()
	attrs := metric.WithAttributes(
		AttrJobType.String(jobType),
		AttrOutcome.String(outcome),
	)
	mp.jobsTotal.Add(ctx, 1, attrs)
	mp.jobDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordCircuitState publishes a breaker transition. Its signature matches
// resilience.CircuitBreakerRegistry.OnStateChange.
func (mp *MetricsProvider) RecordCircuitState(name string, _, to resilience.State) {
	if mp == nil || mp.circuitState == nil {
		return
	}
	mp.circuitState.Record(context.Background(), int64(to), metric.WithAttributes(AttrBreaker.String(name)))
}

// RecordApplicationCounts publishes the per-status totals
func (mp *MetricsProvider) RecordApplicationCounts(ctx context.Context, counts map[string]int64) {
	if mp == nil || mp.applicationsBy == nil {
		return
	}
	for status, n := range counts {
		mp.applicationsBy.Record(ctx, n, metric.WithAttributes(AttrStatus.String(status)))
	}
}

// Handler returns an HTTP handler for Prometheus metrics
func (mp *MetricsProvider) Handler() http.Handler {
	if mp != nil && mp.handler != nil {
		return mp.handler
	}
	return http.NotFoundHandler()
}

// Meter returns the meter for creating custom metrics
func (mp *MetricsProvider) Meter() metric.Meter {
	return mp.meter
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	if mp != nil && mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}
