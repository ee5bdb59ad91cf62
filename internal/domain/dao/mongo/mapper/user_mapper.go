// Package mapper converts between domain entities and MongoDB documents.
package mapper

import (
	"gorm.io/gorm"

	"github.com/fithub/fithub-onboarding/internal/domain/dao/mongo/document"
	"github.com/fithub/fithub-onboarding/internal/domain/entity"
)

// UserMapper converts between User entity and UserDocument.
type UserMapper struct{}

// NewUserMapper creates a new UserMapper instance.
func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

// ToDocument converts a User entity to a UserDocument.
func (m *UserMapper) ToDocument(user *entity.User) *document.UserDocument {
	if user == nil {
		return nil
	}

	doc := &document.UserDocument{
		NumericID:            user.ID,
		Email:                user.Email,
		PasswordHash:         user.PasswordHash,
		FirstName:            user.FirstName,
		LastName:             user.LastName,
		Phone:                user.Phone,
		DateOfBirth:          user.DateOfBirth,
		Gender:               user.Gender,
		Role:                 string(user.Role),
		IsActive:             user.IsActive,
		SubscribeNewsletter:  user.SubscribeNewsletter,
		Experience:           user.Experience,
		Certifications:       user.Certifications,
		Specializations:      user.Specializations,
		Bio:                  user.Bio,
		TrainerStatus:        user.TrainerStatus,
		ApprovedBy:           user.ApprovedBy,
		ApprovedAt:           user.ApprovedAt,
		TrainerApplicationID: user.TrainerApplicationID,
		CreatedAt:            user.CreatedAt,
		UpdatedAt:            user.UpdatedAt,
	}

	if user.DeletedAt.Valid {
		doc.DeletedAt = &user.DeletedAt.Time
	}

	return doc
}

// ToEntity converts a UserDocument to a User entity.
func (m *UserMapper) ToEntity(doc *document.UserDocument) *entity.User {
	if doc == nil {
		return nil
	}

	user := &entity.User{
		ID:                   doc.NumericID,
		Email:                doc.Email,
		PasswordHash:         doc.PasswordHash,
		FirstName:            doc.FirstName,
		LastName:             doc.LastName,
		Phone:                doc.Phone,
		DateOfBirth:          doc.DateOfBirth,
		Gender:               doc.Gender,
		Role:                 entity.UserRole(doc.Role),
		IsActive:             doc.IsActive,
		SubscribeNewsletter:  doc.SubscribeNewsletter,
		Experience:           doc.Experience,
		Certifications:       doc.Certifications,
		Specializations:      doc.Specializations,
		Bio:                  doc.Bio,
		TrainerStatus:        doc.TrainerStatus,
		ApprovedBy:           doc.ApprovedBy,
		ApprovedAt:           doc.ApprovedAt,
		TrainerApplicationID: doc.TrainerApplicationID,
		CreatedAt:            doc.CreatedAt,
		UpdatedAt:            doc.UpdatedAt,
	}

	if doc.DeletedAt != nil {
		user.DeletedAt = gorm.DeletedAt{Time: *doc.DeletedAt, Valid: true}
	}

	return user
}

// ToEntities converts a slice of UserDocument to a slice of User entities.
func (m *UserMapper) ToEntities(docs []*document.UserDocument) []*entity.User {
	if docs == nil {
		return nil
	}

	users := make([]*entity.User, len(docs))
	for i, doc := range docs {
		users[i] = m.ToEntity(doc)
	}
	return users
}
