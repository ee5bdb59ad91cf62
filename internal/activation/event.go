// Package activation turns approved trainer applications into trainer
// accounts. The relay publishes an Event for every approved application
// that has not been dispatched yet; the materializer consumes it and
// creates the account at most once per application.
package activation

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/fithub/fithub-onboarding/internal/domain/entity"
)

const (
	// JobTypeActivate is the worker job that materializes one trainer account
	JobTypeActivate = "trainer.activate"

	// JobTypeSweep is the worker job that runs Relay.Sweep
	JobTypeSweep = "activation.sweep"

	// SweepJobName is the cron entry that enqueues JobTypeSweep
	SweepJobName = "activation-sweep"
)

// Event asks the account store to create the trainer account for an
// approved application
type Event struct {
	EventID         string    `json:"event_id"`
	ApplicationID   uint      `json:"application_id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"password_hash"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Phone           string    `json:"phone"`
	DateOfBirth     string    `json:"date_of_birth"`
	Gender          string    `json:"gender"`
	Experience      string    `json:"experience"`
	Certifications  string    `json:"certifications"`
	Specializations string    `json:"specializations"`
	Bio             string    `json:"bio"`
	ApprovedBy      string    `json:"approved_by"`
	ApprovedAt      time.Time `json:"approved_at"`
}

// NewEvent builds the activation event of an approved application
func NewEvent(app *entity.TrainerApplication) Event {
	ev := Event{
		EventID:         uuid.NewString(),
		ApplicationID:   app.ID,
		Email:           app.Email,
		PasswordHash:    app.PasswordHash,
		FirstName:       app.FirstName,
		LastName:        app.LastName,
		Phone:           app.Phone,
		DateOfBirth:     app.DateOfBirth,
		Gender:          app.Gender,
		Experience:      app.Experience,
		Certifications:  app.Certifications,
		Specializations: app.Specializations,
		Bio:             app.Bio,
		ApprovedBy:      app.ReviewedBy,
	}
	if app.ReviewedAt != nil {
		ev.ApprovedAt = *app.ReviewedAt
	}
	return ev
}

// Key identifies the application an event belongs to. Every event for the
// same application shares it.
func (e Event) Key() string {
	return "trainer-activation:" + strconv.FormatUint(uint64(e.ApplicationID), 10)
}

// User is the trainer account the event describes
func (e Event) User() *entity.User {
	approvedAt := e.ApprovedAt
	applicationID := e.ApplicationID
	return &entity.User{
		Email:                e.Email,
		PasswordHash:         e.PasswordHash,
		FirstName:            e.FirstName,
		LastName:             e.LastName,
		Phone:                e.Phone,
		DateOfBirth:          e.DateOfBirth,
		Gender:               e.Gender,
		Role:                 entity.RoleTrainer,
		IsActive:             true,
		Experience:           e.Experience,
		Certifications:       e.Certifications,
		Specializations:      e.Specializations,
		Bio:                  e.Bio,
		TrainerStatus:        entity.TrainerStatusProfessional,
		ApprovedBy:           e.ApprovedBy,
		ApprovedAt:           &approvedAt,
		TrainerApplicationID: &applicationID,
	}
}
