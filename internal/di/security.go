package di

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/config"
	"github.com/fithub/fithub-onboarding/internal/security"
)

// SecurityModule provides token issuing, password hashing and the
// request principal accessor
var SecurityModule = fx.Module("security",
	fx.Provide(
		security.NewJWTProvider,
		providePasswordHasher,
		security.NewSecurityService,
	),
)

func providePasswordHasher(cfg *config.Config, logger *zap.Logger) *security.PasswordHasher {
	if cfg.Registration.BcryptCost < security.DefaultCost {
		logger.Warn("bcrypt cost below the recommended default",
			zap.Int("cost", cfg.Registration.BcryptCost),
			zap.Int("default", security.DefaultCost),
		)
	}
	return security.NewPasswordHasherWithCost(cfg.Registration.BcryptCost)
}
