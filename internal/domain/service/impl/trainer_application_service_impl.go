package impl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/domain/dao"
	"github.com/fithub/fithub-onboarding/internal/domain/entity"
	"github.com/fithub/fithub-onboarding/internal/domain/registration"
	"github.com/fithub/fithub-onboarding/internal/domain/repository"
	"github.com/fithub/fithub-onboarding/internal/domain/service"
	"github.com/fithub/fithub-onboarding/internal/observability"
	apperrors "github.com/fithub/fithub-onboarding/pkg/errors"
)

// trainerApplicationService implements service.TrainerApplicationService
type trainerApplicationService struct {
	appRepo    repository.TrainerApplicationRepository
	dispatcher service.ActivationDispatcher
	metrics    *observability.MetricsProvider
	logger     *zap.Logger
	now        func() time.Time
}

// NewTrainerApplicationService creates a new TrainerApplicationService.
// dispatcher may be nil, in which case approved applications wait for the
// activation sweep.
func NewTrainerApplicationService(
	appRepo repository.TrainerApplicationRepository,
	dispatcher service.ActivationDispatcher,
	metrics *observability.MetricsProvider,
	logger *zap.Logger,
) service.TrainerApplicationService {
	return &trainerApplicationService{
		appRepo:    appRepo,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger.Named("applications"),
		now:        time.Now,
	}
}

func (s *trainerApplicationService) Submit(ctx context.Context, reg *registration.TrainerRegistration, passwordHash string) (*entity.TrainerApplication, error) {
	ctx, span := observability.Start(ctx, "TrainerApplicationService.Submit")
	app := &entity.TrainerApplication{
		Email:           normalizeEmail(reg.Email),
		PasswordHash:    passwordHash,
		FirstName:       strings.TrimSpace(reg.FirstName),
		LastName:        strings.TrimSpace(reg.LastName),
		Phone:           reg.Phone,
		DateOfBirth:     reg.DateOfBirth,
		Gender:          string(reg.Gender),
		Experience:      strings.TrimSpace(reg.Profile.Experience),
		Certifications:  strings.TrimSpace(reg.Profile.Certifications),
		Specializations: strings.TrimSpace(reg.Profile.Specializations),
		Bio:             strings.TrimSpace(reg.Profile.Bio),
		Motivation:      strings.TrimSpace(reg.Profile.Motivation),
		Status:          entity.ApplicationPending,
		AppliedAt:       s.now().UTC(),
	}
	err := s.appRepo.Create(ctx, app)
	observability.EndSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("create trainer application: %w", err)
	}

	s.logger.Info("trainer application submitted",
		zap.Uint("application_id", app.ID),
		zap.String("email", app.Email),
	)
	return app, nil
}

func (s *trainerApplicationService) Approve(ctx context.Context, id uint, reviewer service.Reviewer, notes string) (*entity.TrainerApplication, error) {
	app, err := s.transition(ctx, id, reviewer, entity.Review{
		Status:     entity.ApplicationApproved,
		AdminNotes: strings.TrimSpace(notes),
	})
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		// the sweep retries anything this misses
		if err := s.dispatcher.Dispatch(ctx, app); err != nil {
			s.logger.Warn("activation dispatch deferred to sweep",
				zap.Uint("application_id", id),
				zap.Error(err),
			)
		}
	}
	return app, nil
}

func (s *trainerApplicationService) Reject(ctx context.Context, id uint, reviewer service.Reviewer, reason string) (*entity.TrainerApplication, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewInvalidTransitionInput("Rejection reason is required")
	}
	return s.transition(ctx, id, reviewer, entity.Review{
		Status:          entity.ApplicationRejected,
		RejectionReason: reason,
	})
}

// transition applies review through the repository's conditional write and
// classifies a refused write as not-found or conflict
func (s *trainerApplicationService) transition(ctx context.Context, id uint, reviewer service.Reviewer, review entity.Review) (app *entity.TrainerApplication, err error) {
	ctx, span := observability.Start(ctx, "TrainerApplicationService.Transition",
		observability.AttrApplicationID.Int64(int64(id)),
		observability.AttrStatus.String(string(review.Status)),
	)
	defer func() { observability.EndSpan(span, err) }()

	identity := reviewer.Identity()
	if identity == "" {
		return nil, apperrors.NewInvalidTransitionInput("Reviewer identity is required")
	}
	review.ReviewedBy = identity
	review.ReviewedAt = s.now().UTC()

	app, applied, err := s.appRepo.Transition(ctx, id, review)
	if err != nil {
		return nil, fmt.Errorf("review application %d: %w", id, err)
	}
	if app == nil {
		return nil, apperrors.NewApplicationNotFound(id)
	}
	if !applied {
		s.metrics.RecordReviewConflict(ctx)
		s.logger.Info("review refused, application already reviewed",
			zap.Uint("application_id", id),
			zap.String("reviewer", identity),
			zap.String("status", string(app.Status)),
		)
		return nil, apperrors.NewApplicationAlreadyReviewed(id, string(app.Status))
	}

	s.metrics.RecordTransition(ctx, string(app.Status))
	s.logger.Info("application reviewed",
		zap.Uint("application_id", id),
		zap.String("reviewer", identity),
		zap.String("status", string(app.Status)),
	)
	return app, nil
}

func (s *trainerApplicationService) Get(ctx context.Context, id uint) (*entity.TrainerApplication, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, apperrors.NewApplicationNotFound(id)
	}
	return app, nil
}

func (s *trainerApplicationService) ListPending(ctx context.Context) ([]*entity.TrainerApplication, error) {
	apps, _, err := s.appRepo.List(ctx, dao.ApplicationFilter{
		Status:    entity.ApplicationPending,
		Ascending: true,
	})
	return apps, err
}

func (s *trainerApplicationService) List(ctx context.Context, status entity.ApplicationStatus, page, size int) ([]*entity.TrainerApplication, int64, error) {
	if status != "" && !status.IsValid() {
		return nil, 0, apperrors.ErrBadRequest.WithMessage(fmt.Sprintf("unknown application status %q", status))
	}
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return s.appRepo.List(ctx, dao.ApplicationFilter{
		Status: status,
		Page:   page,
		Size:   size,
	})
}

func (s *trainerApplicationService) StatusByEmail(ctx context.Context, email string) (*entity.TrainerApplication, error) {
	app, err := s.appRepo.GetLatestByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, apperrors.ErrApplicationNotFound.WithMessage("No application found for this email")
	}
	return app, nil
}

func (s *trainerApplicationService) Counts(ctx context.Context) (map[entity.ApplicationStatus]int64, error) {
	counts, err := s.appRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	gauge := make(map[string]int64, len(counts))
	for status, n := range counts {
		gauge[string(status)] = n
	}
	s.metrics.RecordApplicationCounts(ctx, gauge)
	return counts, nil
}

func (s *trainerApplicationService) RejectionReasons() []string {
	out := make([]string, len(service.RejectionReasons))
	copy(out, service.RejectionReasons)
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
