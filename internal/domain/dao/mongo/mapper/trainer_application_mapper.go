package mapper

import (
	"github.com/fithub/fithub-onboarding/internal/domain/dao/mongo/document"
	"github.com/fithub/fithub-onboarding/internal/domain/entity"
)

// TrainerApplicationMapper converts between TrainerApplication and its document.
type TrainerApplicationMapper struct{}

// NewTrainerApplicationMapper creates a new TrainerApplicationMapper instance.
func NewTrainerApplicationMapper() *TrainerApplicationMapper {
	return &TrainerApplicationMapper{}
}

// ToDocument converts a TrainerApplication entity to a document.
func (m *TrainerApplicationMapper) ToDocument(app *entity.TrainerApplication) *document.TrainerApplicationDocument {
	if app == nil {
		return nil
	}

	return &document.TrainerApplicationDocument{
		NumericID:              app.ID,
		Email:                  app.Email,
		PasswordHash:           app.PasswordHash,
		FirstName:              app.FirstName,
		LastName:               app.LastName,
		Phone:                  app.Phone,
		DateOfBirth:            app.DateOfBirth,
		Gender:                 app.Gender,
		Experience:             app.Experience,
		Certifications:         app.Certifications,
		Specializations:        app.Specializations,
		Bio:                    app.Bio,
		Motivation:             app.Motivation,
		Status:                 string(app.Status),
		AppliedAt:              app.AppliedAt,
		ReviewedBy:             app.ReviewedBy,
		ReviewedAt:             app.ReviewedAt,
		AdminNotes:             app.AdminNotes,
		RejectionReason:        app.RejectionReason,
		ActivationDispatchedAt: app.ActivationDispatchedAt,
		TrainerUserID:          app.TrainerUserID,
		CreatedAt:              app.CreatedAt,
		UpdatedAt:              app.UpdatedAt,
	}
}

// ToEntity converts a document to a TrainerApplication entity.
func (m *TrainerApplicationMapper) ToEntity(doc *document.TrainerApplicationDocument) *entity.TrainerApplication {
	if doc == nil {
		return nil
	}

	return &entity.TrainerApplication{
		ID:                     doc.NumericID,
		Email:                  doc.Email,
		PasswordHash:           doc.PasswordHash,
		FirstName:              doc.FirstName,
		LastName:               doc.LastName,
		Phone:                  doc.Phone,
		DateOfBirth:            doc.DateOfBirth,
		Gender:                 doc.Gender,
		Experience:             doc.Experience,
		Certifications:         doc.Certifications,
		Specializations:        doc.Specializations,
		Bio:                    doc.Bio,
		Motivation:             doc.Motivation,
		Status:                 entity.ApplicationStatus(doc.Status),
		AppliedAt:              doc.AppliedAt,
		ReviewedBy:             doc.ReviewedBy,
		ReviewedAt:             doc.ReviewedAt,
		AdminNotes:             doc.AdminNotes,
		RejectionReason:        doc.RejectionReason,
		ActivationDispatchedAt: doc.ActivationDispatchedAt,
		TrainerUserID:          doc.TrainerUserID,
		CreatedAt:              doc.CreatedAt,
		UpdatedAt:              doc.UpdatedAt,
	}
}

// ToEntities converts a slice of documents to entities.
func (m *TrainerApplicationMapper) ToEntities(docs []*document.TrainerApplicationDocument) []*entity.TrainerApplication {
	if docs == nil {
		return nil
	}

	apps := make([]*entity.TrainerApplication, len(docs))
	for i, doc := range docs {
		apps[i] = m.ToEntity(doc)
	}
	return apps
}
