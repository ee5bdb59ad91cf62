package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/fithub/fithub-onboarding/internal/domain/dao"
	"github.com/fithub/fithub-onboarding/internal/domain/entity"
)

// userDAO implements dao.UserDAO using GORM for SQL databases.
type userDAO struct {
	*crud[entity.User]
}

// NewUserDAO creates a new GORM-based UserDAO.
func NewUserDAO(db *gorm.DB) dao.UserDAO {
	return &userDAO{crud: newCRUD[entity.User](db)}
}

// FindByEmail retrieves a user by their unique email address.
func (d *userDAO) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return d.findBy(ctx, "email", email)
}

// FindByTrainerApplicationID retrieves the trainer created from an application.
func (d *userDAO) FindByTrainerApplicationID(ctx context.Context, applicationID uint) (*entity.User, error) {
	return d.findBy(ctx, "trainer_application_id", applicationID)
}

// ExistsByEmail checks if a user with the given email exists.
func (d *userDAO) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return d.ExistsBy(ctx, "email", email)
}
