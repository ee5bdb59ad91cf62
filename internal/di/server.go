package di

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/config"
	"github.com/fithub/fithub-onboarding/internal/controller/graphql"
	httpctrl "github.com/fithub/fithub-onboarding/internal/controller/http"
	"github.com/fithub/fithub-onboarding/internal/dto/request"
	"github.com/fithub/fithub-onboarding/internal/middleware"
	"github.com/fithub/fithub-onboarding/internal/observability"
)

// HTTPServerModule provides the API server
var HTTPServerModule = fx.Module("http_server",
	fx.Provide(provideGinEngine),
	fx.Provide(provideHTTPServer),
	fx.Invoke(registerHTTPRoutes),
	fx.Invoke(startHTTPServer),
)

func provideGinEngine(cfg *config.Config, metrics *observability.MetricsProvider, logger *zap.Logger) (*gin.Engine, error) {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := request.RegisterValidations(); err != nil {
		return nil, fmt.Errorf("failed to register request validations: %w", err)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(middleware.CORSConfigFor(cfg.Server.AllowedOrigins)))
	if cfg.Observability.TracingEnabled {
		router.Use(observability.TracingMiddleware(cfg.App.Name))
	}
	router.Use(observability.MetricsMiddleware(metrics))

	return router, nil
}

func provideHTTPServer(cfg *config.ServerConfig, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// Controllers is a struct that holds all HTTP controllers for fx to inject
type Controllers struct {
	fx.In

	Health       *httpctrl.HealthController
	Auth         *httpctrl.AuthController
	Registration *httpctrl.RegistrationController
	Application  *httpctrl.ApplicationController
	User         *httpctrl.UserController
	Job          *httpctrl.JobController
	GraphQL      *graphql.Handler
}

func registerHTTPRoutes(router *gin.Engine, cfg *config.Config, metrics *observability.MetricsProvider, controllers Controllers) {
	controllers.Health.RegisterRoutes(router)
	if cfg.Observability.MetricsEnabled {
		router.GET(cfg.Observability.MetricsPath, gin.WrapH(metrics.Handler()))
	}

	// API routes
	api := router.Group("/api/v1")

	controllers.Auth.RegisterRoutes(api)
	controllers.Registration.RegisterRoutes(api)
	controllers.Application.RegisterRoutes(api)
	controllers.User.RegisterRoutes(api)
	controllers.Job.RegisterRoutes(api)

	if cfg.GraphQL.Enabled {
		controllers.GraphQL.RegisterRoutes(router)
	}
}

func startHTTPServer(lc fx.Lifecycle, server *http.Server, cfg *config.ServerConfig, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting HTTP server", zap.String("address", server.Addr))
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server")
			ctx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()
			return server.Shutdown(ctx)
		},
	})
}
