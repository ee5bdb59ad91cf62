package di

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/config"
	"github.com/fithub/fithub-onboarding/internal/domain/registration"
	"github.com/fithub/fithub-onboarding/internal/domain/repository"
	"github.com/fithub/fithub-onboarding/internal/domain/service"
	serviceimpl "github.com/fithub/fithub-onboarding/internal/domain/service/impl"
	"github.com/fithub/fithub-onboarding/internal/observability"
	"github.com/fithub/fithub-onboarding/internal/security"
)

// ServiceModule provides service layer dependencies
var ServiceModule = fx.Module("service",
	fx.Provide(
		provideRegistrationValidator,
		provideTrainerApplicationService,
		provideRegistrationService,
		provideAuthService,
		provideUserService,
		provideAdminBootstrapper,
	),
)

func provideRegistrationValidator(cfg *config.Config) *registration.Validator {
	return registration.New(registration.WithMinimumAge(cfg.Registration.MinimumAge))
}

func provideTrainerApplicationService(
	appRepo repository.TrainerApplicationRepository,
	dispatcher service.ActivationDispatcher,
	metrics *observability.MetricsProvider,
	logger *zap.Logger,
) service.TrainerApplicationService {
	return serviceimpl.NewTrainerApplicationService(appRepo, dispatcher, metrics, logger)
}

func provideRegistrationService(
	validator *registration.Validator,
	userRepo repository.UserRepository,
	appRepo repository.TrainerApplicationRepository,
	applications service.TrainerApplicationService,
	passwordHasher *security.PasswordHasher,
	metrics *observability.MetricsProvider,
	logger *zap.Logger,
) service.RegistrationService {
	return serviceimpl.NewRegistrationService(validator, userRepo, appRepo, applications, passwordHasher, metrics, logger)
}

func provideAuthService(
	userRepo repository.UserRepository,
	jwtProvider *security.JWTProvider,
	passwordHasher *security.PasswordHasher,
	logger *zap.Logger,
) service.AuthService {
	return serviceimpl.NewAuthService(userRepo, jwtProvider, passwordHasher, logger)
}

func provideUserService(userRepo repository.UserRepository, logger *zap.Logger) service.UserService {
	return serviceimpl.NewUserService(userRepo, logger)
}

func provideAdminBootstrapper(
	userRepo repository.UserRepository,
	passwordHasher *security.PasswordHasher,
	cfg *config.Config,
	logger *zap.Logger,
) *serviceimpl.AdminBootstrapper {
	return serviceimpl.NewAdminBootstrapper(userRepo, passwordHasher, cfg, logger)
}

// bootstrapAdmin seeds the configured administrator before the server
// accepts requests
func bootstrapAdmin(lc fx.Lifecycle, bootstrapper *serviceimpl.AdminBootstrapper) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return bootstrapper.Run(ctx)
		},
	})
}
