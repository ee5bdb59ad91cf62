package di

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/config"
	"github.com/fithub/fithub-onboarding/internal/jobs/lock"
	"github.com/fithub/fithub-onboarding/internal/jobs/scheduler"
	"github.com/fithub/fithub-onboarding/internal/jobs/worker"
)

// CoreModule holds everything both processes share: configuration, storage,
// the job queue, the activation pipeline and the domain services
var CoreModule = fx.Options(
	ConfigModule,
	LoggerModule,
	ObservabilityModule,
	DatabaseModule,
	DAOModule,        // DAO layer (between Database and Repository)
	RepositoryModule, // Repository layer (delegates to DAO)
	SecurityModule,
	JobsModule,
	ActivationModule,
	ServiceModule,
)

// AppModule aggregates the API server modules
var AppModule = fx.Options(
	CoreModule,
	WorkerModule,
	MiddlewareModule,
	ControllerModule,
	HTTPServerModule,
	fx.Invoke(bootstrapAdmin),
	fx.Invoke(startEmbeddedWorkers),
)

// WorkerAppModule aggregates the worker process modules
var WorkerAppModule = fx.Options(
	CoreModule,
	WorkerModule,
	WorkerStatusModule,
	fx.Invoke(startWorkers),
)

// startEmbeddedWorkers runs the worker pool inside the API server when
// worker.enabled is set
func startEmbeddedWorkers(
	lc fx.Lifecycle,
	cfg *config.Config,
	pool *worker.WorkerPool,
	sched *scheduler.Scheduler,
	lm *lock.LockManager,
	logger *zap.Logger,
) {
	if !cfg.Worker.Enabled {
		logger.Info("Embedded worker pool disabled")
		return
	}
	startWorkers(lc, cfg, pool, sched, lm, logger)
}

// PrintBanner prints the application startup banner
func PrintBanner(cfg *config.Config, logger *zap.Logger) {
	logger.Info("===========================================")
	logger.Info("     FitHub Onboarding - Trainer Intake    ")
	logger.Info("===========================================")
	logger.Info("Application Info",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)
	logger.Info("Runtime Config",
		zap.String("database", cfg.Database.Driver),
		zap.String("activation_sink", string(cfg.Activation.Sink)),
		zap.Bool("activation_fast_path", cfg.Activation.FastPath),
		zap.Bool("embedded_workers", cfg.Worker.Enabled),
		zap.Bool("scheduler", cfg.Scheduler.Enabled),
	)
	logger.Info("===========================================")
}
