package impl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/domain/dao"
	"github.com/fithub/fithub-onboarding/internal/domain/entity"
	"github.com/fithub/fithub-onboarding/internal/domain/registration"
	"github.com/fithub/fithub-onboarding/internal/domain/repository"
	"github.com/fithub/fithub-onboarding/internal/domain/service"
	"github.com/fithub/fithub-onboarding/internal/dto/response"
	"github.com/fithub/fithub-onboarding/internal/observability"
	"github.com/fithub/fithub-onboarding/internal/security"
	apperrors "github.com/fithub/fithub-onboarding/pkg/errors"
)

// registration outcomes beyond the success ones in dto/response
const (
	outcomeInvalid  = "invalid"
	outcomeConflict = "conflict"
	outcomeError    = "error"
)

// registrationService implements service.RegistrationService
type registrationService struct {
	validator      *registration.Validator
	userRepo       repository.UserRepository
	appRepo        repository.TrainerApplicationRepository
	applications   service.TrainerApplicationService
	passwordHasher *security.PasswordHasher
	metrics        *observability.MetricsProvider
	logger         *zap.Logger
}

// NewRegistrationService creates a new RegistrationService instance
func NewRegistrationService(
	validator *registration.Validator,
	userRepo repository.UserRepository,
	appRepo repository.TrainerApplicationRepository,
	applications service.TrainerApplicationService,
	passwordHasher *security.PasswordHasher,
	metrics *observability.MetricsProvider,
	logger *zap.Logger,
) service.RegistrationService {
	return &registrationService{
		validator:      validator,
		userRepo:       userRepo,
		appRepo:        appRepo,
		applications:   applications,
		passwordHasher: passwordHasher,
		metrics:        metrics,
		logger:         logger.Named("registration"),
	}
}

func (s *registrationService) RegisterValues(ctx context.Context, values registration.Values) (*service.RegistrationResult, error) {
	values = values.Clone()
	values[registration.FieldPhone] = registration.SanitizePhone(values[registration.FieldPhone])

	reg, err := s.validator.Accept(values)
	if err != nil {
		role := registration.Role(values[registration.FieldRole])
		if !role.IsValid() {
			role = "unknown"
		}
		s.metrics.RecordRegistration(ctx, string(role), outcomeInvalid)
		return nil, err
	}
	return s.register(ctx, reg)
}

func (s *registrationService) Register(ctx context.Context, reg registration.Registration) (*service.RegistrationResult, error) {
	if err := s.validator.ValidateRegistration(reg).Err(); err != nil {
		s.metrics.RecordRegistration(ctx, string(reg.Role()), outcomeInvalid)
		return nil, err
	}
	return s.register(ctx, reg)
}

func (s *registrationService) register(ctx context.Context, reg registration.Registration) (result *service.RegistrationResult, err error) {
	role := string(reg.Role())
	ctx, span := observability.Start(ctx, "RegistrationService.Register", observability.AttrRole.String(role))
	defer func() {
		observability.EndSpan(span, err)
		s.metrics.RecordRegistration(ctx, role, registrationOutcome(result, err))
	}()

	account := reg.Account()
	email := normalizeEmail(account.Email)

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyRegistered
	}

	pending, err := s.appRepo.HasPending(ctx, email)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, apperrors.ErrApplicationPending
	}

	hash, err := s.passwordHasher.Hash(account.Password)
	if security.IsTooLong(err) {
		return nil, apperrors.NewFormSubmissionError([]*apperrors.FieldValidationError{{
			Field:   string(registration.FieldPassword),
			Status:  string(registration.StatusInvalid),
			Message: "Password must be at most 72 bytes",
		}})
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	switch r := reg.(type) {
	case *registration.TrainerRegistration:
		app, err := s.applications.Submit(ctx, r, hash)
		if err != nil {
			return nil, err
		}
		return &service.RegistrationResult{Role: registration.RoleTrainer, Application: app}, nil

	case *registration.UserRegistration:
		user := &entity.User{
			Email:               email,
			PasswordHash:        hash,
			FirstName:           strings.TrimSpace(r.FirstName),
			LastName:            strings.TrimSpace(r.LastName),
			Phone:               r.Phone,
			DateOfBirth:         r.DateOfBirth,
			Gender:              string(r.Gender),
			Role:                entity.RoleUser,
			IsActive:            true,
			SubscribeNewsletter: r.SubscribeNewsletter,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, dao.ErrDuplicateKey) {
				return nil, apperrors.ErrEmailAlreadyRegistered
			}
			return nil, fmt.Errorf("create user: %w", err)
		}
		s.logger.Info("user registered", zap.Uint("user_id", user.ID))
		return &service.RegistrationResult{Role: registration.RoleUser, User: user}, nil

	default:
		return nil, fmt.Errorf("unsupported registration %T", reg)
	}
}

func (s *registrationService) CheckField(field registration.Field, value string, values registration.Values) registration.Verdict {
	if field == registration.FieldPhone {
		value = registration.SanitizePhone(value)
	}
	return s.validator.Check(field, value, values)
}

func registrationOutcome(result *service.RegistrationResult, err error) string {
	switch {
	case err == nil && result.Application != nil:
		return response.RegistrationPending
	case err == nil:
		return response.RegistrationCreated
	case apperrors.Is(err, apperrors.ErrEmailAlreadyRegistered), apperrors.Is(err, apperrors.ErrApplicationPending):
		return outcomeConflict
	case errors.Is(err, apperrors.ErrFormSubmission):
		return outcomeInvalid
	default:
		return outcomeError
	}
}
