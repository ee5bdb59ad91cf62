package impl

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/config"
	"github.com/fithub/fithub-onboarding/internal/domain/dao"
	"github.com/fithub/fithub-onboarding/internal/domain/entity"
	"github.com/fithub/fithub-onboarding/internal/domain/repository"
	"github.com/fithub/fithub-onboarding/internal/security"
)

// AdminBootstrapper seeds the first administrator so applications can be
// reviewed on a fresh install
type AdminBootstrapper struct {
	userRepo       repository.UserRepository
	passwordHasher *security.PasswordHasher
	config         config.AdminConfig
	logger         *zap.Logger
}

// NewAdminBootstrapper creates a new AdminBootstrapper
func NewAdminBootstrapper(
	userRepo repository.UserRepository,
	passwordHasher *security.PasswordHasher,
	cfg *config.Config,
	logger *zap.Logger,
) *AdminBootstrapper {
	return &AdminBootstrapper{
		userRepo:       userRepo,
		passwordHasher: passwordHasher,
		config:         cfg.Admin,
		logger:         logger.Named("bootstrap"),
	}
}

// Run creates the configured administrator unless an account with that
// email already exists. It does nothing when no credentials are configured.
func (b *AdminBootstrapper) Run(ctx context.Context) error {
	if !b.config.Enabled() {
		return nil
	}
	email := normalizeEmail(b.config.Email)

	existing, err := b.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("look up admin account: %w", err)
	}
	if existing != nil {
		if existing.Role != entity.RoleAdmin {
			b.logger.Warn("bootstrap email belongs to a non-admin account, leaving it unchanged",
				zap.String("email", email),
				zap.String("role", string(existing.Role)),
			)
		}
		return nil
	}

	hash, err := b.passwordHasher.Hash(b.config.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := &entity.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    b.config.FirstName,
		LastName:     b.config.LastName,
		Role:         entity.RoleAdmin,
		IsActive:     true,
	}
	if err := b.userRepo.Create(ctx, admin); err != nil {
		// another instance won the race
		if errors.Is(err, dao.ErrDuplicateKey) {
			return nil
		}
		return fmt.Errorf("create admin account: %w", err)
	}

	b.logger.Info("administrator account created", zap.String("email", email))
	return nil
}
