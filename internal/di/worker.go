package di

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/config"
	httpctrl "github.com/fithub/fithub-onboarding/internal/controller/http"
	"github.com/fithub/fithub-onboarding/internal/dto/response"
	"github.com/fithub/fithub-onboarding/internal/jobs/scheduler"
	"github.com/fithub/fithub-onboarding/internal/jobs/worker"
	"github.com/fithub/fithub-onboarding/internal/middleware"
	"github.com/fithub/fithub-onboarding/internal/observability"
)

// WorkerStatusModule serves probes, metrics and pool status for the worker
// process
var WorkerStatusModule = fx.Module("worker_status",
	fx.Provide(provideHealthController),
	fx.Invoke(startWorkerStatusServer),
)

// workerStatusHandler reports pool counters and scheduler leadership
func workerStatusHandler(pool *worker.WorkerPool, sched *scheduler.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, response.NewSuccessWithData(response.WorkerStatusResponse{
			Workers:   pool.Stats(),
			Leader:    sched.IsLeader(),
			Scheduled: sched.ListJobs(),
		}))
	}
}

func newWorkerStatusRouter(
	cfg *config.Config,
	health *httpctrl.HealthController,
	pool *worker.WorkerPool,
	sched *scheduler.Scheduler,
	metrics *observability.MetricsProvider,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(logger))

	health.RegisterRoutes(router)
	router.GET("/status", workerStatusHandler(pool, sched))
	if cfg.Observability.MetricsEnabled {
		router.GET(cfg.Observability.MetricsPath, gin.WrapH(metrics.Handler()))
	}
	return router
}

func startWorkerStatusServer(
	lc fx.Lifecycle,
	cfg *config.Config,
	health *httpctrl.HealthController,
	pool *worker.WorkerPool,
	sched *scheduler.Scheduler,
	metrics *observability.MetricsProvider,
	logger *zap.Logger,
) {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	server := &http.Server{
		Addr:    cfg.Worker.StatusAddr,
		Handler: newWorkerStatusRouter(cfg, health, pool, sched, metrics, logger),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting worker status server", zap.String("address", server.Addr))
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("Worker status server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping worker status server")
			return server.Shutdown(ctx)
		},
	})
}
