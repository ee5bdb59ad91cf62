package di

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/config"
	"github.com/fithub/fithub-onboarding/internal/controller/graphql"
	httpctrl "github.com/fithub/fithub-onboarding/internal/controller/http"
	"github.com/fithub/fithub-onboarding/internal/domain/service"
	"github.com/fithub/fithub-onboarding/internal/jobs"
	"github.com/fithub/fithub-onboarding/internal/jobs/scheduler"
	"github.com/fithub/fithub-onboarding/internal/middleware"
	"github.com/fithub/fithub-onboarding/internal/resilience"
	"github.com/fithub/fithub-onboarding/internal/security"
)

// ControllerModule provides HTTP and GraphQL controller dependencies
var ControllerModule = fx.Module("controller",
	fx.Provide(
		provideHealthController,
		provideAuthController,
		provideRegistrationController,
		provideApplicationController,
		provideUserController,
		provideJobController,
		provideGraphQLHandler,
	),
)

func provideHealthController(sqlDB *SQLDatabase, mongoDB *MongoDatabase, client *redis.Client) *httpctrl.HealthController {
	return httpctrl.NewHealthController(
		httpctrl.HealthCheck{
			Name: "database",
			Check: func(ctx context.Context) error {
				return Ping(ctx, sqlDB, mongoDB)
			},
		},
		httpctrl.HealthCheck{
			Name: "redis",
			Check: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			},
		},
	)
}

func provideAuthController(
	authService service.AuthService,
	securityService *security.SecurityService,
	authMiddleware *middleware.AuthMiddleware,
) *httpctrl.AuthController {
	return httpctrl.NewAuthController(authService, securityService, authMiddleware)
}

func provideRegistrationController(
	registrations service.RegistrationService,
	applications service.TrainerApplicationService,
	limiter *resilience.KeyedLimiter,
) *httpctrl.RegistrationController {
	return httpctrl.NewRegistrationController(registrations, applications, limiter)
}

func provideApplicationController(
	applications service.TrainerApplicationService,
	securityService *security.SecurityService,
	authMiddleware *middleware.AuthMiddleware,
) *httpctrl.ApplicationController {
	return httpctrl.NewApplicationController(applications, securityService, authMiddleware)
}

func provideUserController(
	userService service.UserService,
	authMiddleware *middleware.AuthMiddleware,
) *httpctrl.UserController {
	return httpctrl.NewUserController(userService, authMiddleware)
}

func provideJobController(
	jobService jobs.Service,
	sched *scheduler.Scheduler,
	authMiddleware *middleware.AuthMiddleware,
) *httpctrl.JobController {
	return httpctrl.NewJobController(jobService, sched, authMiddleware)
}

func provideGraphQLHandler(
	applications service.TrainerApplicationService,
	cfg *config.GraphQLConfig,
	jwtProvider *security.JWTProvider,
	logger *zap.Logger,
) (*graphql.Handler, error) {
	schema, err := graphql.BuildSchema(graphql.NewResolver(applications))
	if err != nil {
		return nil, err
	}
	return graphql.NewHandler(schema, cfg, jwtProvider, logger), nil
}
