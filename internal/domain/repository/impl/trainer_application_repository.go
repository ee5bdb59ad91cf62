package impl

import (
	"context"
	"fmt"
	"time"

	"github.com/fithub/fithub-onboarding/internal/domain/dao"
	"github.com/fithub/fithub-onboarding/internal/domain/entity"
	"github.com/fithub/fithub-onboarding/internal/domain/repository"
)

// trainerApplicationRepository implements repository.TrainerApplicationRepository.
type trainerApplicationRepository struct {
	dao dao.TrainerApplicationDAO
}

// NewTrainerApplicationRepository creates a new TrainerApplicationRepository instance.
func NewTrainerApplicationRepository(appDAO dao.TrainerApplicationDAO) repository.TrainerApplicationRepository {
	return &trainerApplicationRepository{dao: appDAO}
}

func (r *trainerApplicationRepository) Create(ctx context.Context, app *entity.TrainerApplication) error {
	return r.dao.Create(ctx, app)
}

func (r *trainerApplicationRepository) GetByID(ctx context.Context, id uint) (*entity.TrainerApplication, error) {
	return r.dao.FindByID(ctx, id)
}

func (r *trainerApplicationRepository) GetLatestByEmail(ctx context.Context, email string) (*entity.TrainerApplication, error) {
	return r.dao.FindLatestByEmail(ctx, email)
}

func (r *trainerApplicationRepository) HasPending(ctx context.Context, email string) (bool, error) {
	return r.dao.ExistsPendingByEmail(ctx, email)
}

func (r *trainerApplicationRepository) List(ctx context.Context, filter dao.ApplicationFilter) ([]*entity.TrainerApplication, int64, error) {
	return r.dao.List(ctx, filter)
}

// Transition rejects reviews that would not end in a terminal state before
// touching the store.
func (r *trainerApplicationRepository) Transition(ctx context.Context, id uint, review entity.Review) (*entity.TrainerApplication, bool, error) {
	if !review.Status.IsTerminal() {
		return nil, false, fmt.Errorf("transition to %q is not allowed", review.Status)
	}
	return r.dao.TransitionFromPending(ctx, id, review)
}

func (r *trainerApplicationRepository) ListAwaitingActivation(ctx context.Context, limit int) ([]*entity.TrainerApplication, error) {
	return r.dao.FindAwaitingActivation(ctx, limit)
}

func (r *trainerApplicationRepository) MarkDispatched(ctx context.Context, id uint, at time.Time) (bool, error) {
	return r.dao.MarkActivationDispatched(ctx, id, at)
}

func (r *trainerApplicationRepository) LinkTrainer(ctx context.Context, id uint, userID uint) error {
	return r.dao.SetTrainerUserID(ctx, id, userID)
}

func (r *trainerApplicationRepository) CountByStatus(ctx context.Context) (map[entity.ApplicationStatus]int64, error) {
	return r.dao.CountByStatus(ctx)
}
