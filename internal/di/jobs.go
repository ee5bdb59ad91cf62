package di

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/activation"
	"github.com/fithub/fithub-onboarding/internal/config"
	"github.com/fithub/fithub-onboarding/internal/jobs"
	"github.com/fithub/fithub-onboarding/internal/jobs/handler"
	"github.com/fithub/fithub-onboarding/internal/jobs/lock"
	"github.com/fithub/fithub-onboarding/internal/jobs/queue"
	"github.com/fithub/fithub-onboarding/internal/jobs/scheduler"
	"github.com/fithub/fithub-onboarding/internal/jobs/worker"
	"github.com/fithub/fithub-onboarding/internal/observability"
)

// JobsModule provides the Redis queue side of the job system. Every process
// needs it: the API enqueues, the worker consumes.
var JobsModule = fx.Module("jobs",
	fx.Provide(
		provideRedisClient,
		provideJobQueue,
		provideLockManager,
		provideScheduler,
		provideJobService,
	),
)

// WorkerModule provides the worker pool with the activation handlers and
// the activation sweep registered on the scheduler. Starting them is left
// to the process module.
var WorkerModule = fx.Module("worker",
	fx.Provide(
		provideWorkerPool,
		provideHandlerRegistry,
	),
	fx.Invoke(
		activation.RegisterHandlers,
		registerScheduledJobs,
	),
)

func provideRedisClient(lc fx.Lifecycle, cfg *config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
	)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing Redis connection")
			return client.Close()
		},
	})

	return client, nil
}

func provideJobQueue(client *redis.Client) *queue.RedisQueue {
	return queue.NewRedisQueue(client)
}

func provideLockManager(client *redis.Client, logger *zap.Logger) *lock.LockManager {
	cfg := lock.DefaultConfig()
	lm := lock.NewLockManager(client, cfg)
	logger.Info("Lock manager initialized",
		zap.String("worker_id", lm.WorkerID()),
		zap.Duration("lock_ttl", cfg.LockTTL),
		zap.Duration("idempotency_ttl", cfg.IdempotencyTTL),
	)
	return lm
}

func provideScheduler(client *redis.Client, q *queue.RedisQueue, cfg *config.Config, logger *zap.Logger) *scheduler.Scheduler {
	return scheduler.NewScheduler(client, q, logger, scheduler.Config{
		LeaderLockTTL: cfg.Scheduler.LeaderLockTTL,
	})
}

func provideJobService(q *queue.RedisQueue) jobs.Service {
	return jobs.NewJobService(q)
}

func provideWorkerPool(
	q *queue.RedisQueue,
	lm *lock.LockManager,
	metrics *observability.MetricsProvider,
	cfg *config.Config,
	logger *zap.Logger,
) *worker.WorkerPool {
	return worker.NewWorkerPool(q, lm, metrics, logger, worker.Config{
		Concurrency:     cfg.Worker.Concurrency,
		PollInterval:    cfg.Worker.PollInterval,
		ShutdownTimeout: cfg.Worker.ShutdownTimeout,
	})
}

func provideHandlerRegistry(pool *worker.WorkerPool, logger *zap.Logger) *handler.Registry {
	return handler.NewRegistry(pool, logger)
}

func registerScheduledJobs(sched *scheduler.Scheduler, cfg *config.Config, logger *zap.Logger) error {
	if err := sched.RegisterJob(activation.SweepJob(cfg.Activation)); err != nil {
		return fmt.Errorf("failed to register %s job: %w", activation.SweepJobName, err)
	}
	logger.Info("Registered scheduled jobs",
		zap.String("job", activation.SweepJobName),
		zap.String("schedule", cfg.Activation.SweepSchedule),
	)
	return nil
}

// startWorkers runs the worker pool, and the scheduler when enabled, for
// the lifetime of the app
func startWorkers(
	lc fx.Lifecycle,
	cfg *config.Config,
	pool *worker.WorkerPool,
	sched *scheduler.Scheduler,
	lm *lock.LockManager,
	logger *zap.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting job worker pool",
				zap.String("worker_id", lm.WorkerID()),
				zap.Int("concurrency", cfg.Worker.Concurrency),
			)
			if err := pool.Start(ctx); err != nil {
				return fmt.Errorf("failed to start worker pool: %w", err)
			}

			if !cfg.Scheduler.Enabled {
				logger.Info("Job scheduler disabled")
				return nil
			}
			logger.Info("Starting job scheduler")
			if err := sched.Start(ctx); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cfg.Scheduler.Enabled {
				logger.Info("Stopping job scheduler")
				if err := sched.Stop(ctx); err != nil {
					logger.Warn("Error stopping scheduler", zap.Error(err))
				}
			}

			logger.Info("Stopping job worker pool")
			if err := pool.Stop(ctx); err != nil {
				logger.Warn("Error stopping worker pool", zap.Error(err))
			}

			logger.Info("Releasing all job locks")
			lm.ReleaseAll(ctx)
			return nil
		},
	})
}
