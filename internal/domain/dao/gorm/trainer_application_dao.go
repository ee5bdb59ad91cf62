package gorm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/fithub/fithub-onboarding/internal/domain/dao"
	"github.com/fithub/fithub-onboarding/internal/domain/entity"
)

// trainerApplicationDAO implements dao.TrainerApplicationDAO using GORM.
type trainerApplicationDAO struct {
	base *crud[entity.TrainerApplication]
}

// NewTrainerApplicationDAO creates a new GORM-based TrainerApplicationDAO.
func NewTrainerApplicationDAO(db *gorm.DB) dao.TrainerApplicationDAO {
	return &trainerApplicationDAO{
		base: newCRUD[entity.TrainerApplication](db),
	}
}

func (d *trainerApplicationDAO) Create(ctx context.Context, app *entity.TrainerApplication) error {
	return d.base.Create(ctx, app)
}

func (d *trainerApplicationDAO) FindByID(ctx context.Context, id uint) (*entity.TrainerApplication, error) {
	return d.base.FindByID(ctx, id)
}

// FindLatestByEmail retrieves the most recently submitted application for an email.
func (d *trainerApplicationDAO) FindLatestByEmail(ctx context.Context, email string) (*entity.TrainerApplication, error) {
	return first[entity.TrainerApplication](d.base.conn(ctx).
		Where("email = ?", email).
		Order("applied_at DESC").
		Order("id DESC"))
}

func (d *trainerApplicationDAO) ExistsPendingByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := d.base.model(ctx).
		Where("email = ? AND status = ?", email, entity.ApplicationPending).
		Count(&count).Error
	return count > 0, err
}

func (d *trainerApplicationDAO) List(ctx context.Context, filter dao.ApplicationFilter) ([]*entity.TrainerApplication, int64, error) {
	scoped := func() *gorm.DB {
		query := d.base.model(ctx)
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		return query
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "applied_at DESC, id DESC"
	if filter.Ascending {
		order = "applied_at ASC, id ASC"
	}

	var apps []*entity.TrainerApplication
	err := scoped().
		Scopes(paginate(filter.Page, filter.Size)).
		Order(order).
		Find(&apps).Error
	return apps, total, err
}

// TransitionFromPending runs the pending check and the write as a single
// conditional UPDATE. Of two concurrent reviews only one can match
// status = pending; the other sees zero affected rows.
func (d *trainerApplicationDAO) TransitionFromPending(ctx context.Context, id uint, review entity.Review) (*entity.TrainerApplication, bool, error) {
	var (
		current entity.TrainerApplication
		applied bool
	)

	err := d.base.conn(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.TrainerApplication{}).
			Where("id = ? AND status = ?", id, entity.ApplicationPending).
			Updates(review.Columns())
		if res.Error != nil {
			return res.Error
		}
		applied = res.RowsAffected == 1
		return tx.First(&current, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &current, applied, nil
}

func (d *trainerApplicationDAO) FindAwaitingActivation(ctx context.Context, limit int) ([]*entity.TrainerApplication, error) {
	var apps []*entity.TrainerApplication
	query := d.base.conn(ctx).
		Where("status = ? AND activation_dispatched_at IS NULL", entity.ApplicationApproved).
		Order("reviewed_at ASC").
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (d *trainerApplicationDAO) MarkActivationDispatched(ctx context.Context, id uint, at time.Time) (bool, error) {
	res := d.base.conn(ctx).
		Model(&entity.TrainerApplication{}).
		Where("id = ? AND status = ? AND activation_dispatched_at IS NULL", id, entity.ApplicationApproved).
		Update("activation_dispatched_at", at)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (d *trainerApplicationDAO) SetTrainerUserID(ctx context.Context, id uint, userID uint) error {
	return d.base.conn(ctx).
		Model(&entity.TrainerApplication{}).
		Where("id = ?", id).
		Update("trainer_user_id", userID).Error
}

func (d *trainerApplicationDAO) CountByStatus(ctx context.Context) (map[entity.ApplicationStatus]int64, error) {
	var rows []struct {
		Status entity.ApplicationStatus
		Total  int64
	}
	err := d.base.conn(ctx).
		Model(&entity.TrainerApplication{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[entity.ApplicationStatus]int64{
		entity.ApplicationPending:  0,
		entity.ApplicationApproved: 0,
		entity.ApplicationRejected: 0,
	}
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}
