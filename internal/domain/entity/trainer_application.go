package entity

import (
	"time"
)

// ApplicationStatus is the review state of a trainer application
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// IsValid checks if the status is known
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is defined
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationApproved || s == ApplicationRejected
}

// TrainerApplication is a prospective trainer's submission awaiting, or
// after, administrator review. Applications are never deleted.
type TrainerApplication struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"size:100;not null;index" json:"email"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	FirstName    string `gorm:"column:first_name;size:50" json:"first_name"`
	LastName     string `gorm:"column:last_name;size:50" json:"last_name"`
	Phone        string `gorm:"size:15" json:"phone"`
	DateOfBirth  string `gorm:"column:date_of_birth;size:25" json:"date_of_birth"`
	Gender       string `gorm:"size:20" json:"gender"`

	Experience      string `gorm:"type:text" json:"experience"`
	Certifications  string `gorm:"type:text" json:"certifications"`
	Specializations string `gorm:"type:text" json:"specializations"`
	Bio             string `gorm:"type:text" json:"bio"`
	Motivation      string `gorm:"type:text" json:"motivation"`

	Status          ApplicationStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	AppliedAt       time.Time         `gorm:"column:applied_at;not null;index" json:"applied_at"`
	ReviewedBy      string            `gorm:"column:reviewed_by;size:100" json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time        `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	AdminNotes      string            `gorm:"column:admin_notes;type:text" json:"admin_notes,omitempty"`
	RejectionReason string            `gorm:"column:rejection_reason;type:text" json:"rejection_reason,omitempty"`

	// Set once the activation event for an approved application is handed
	// to the publisher
	ActivationDispatchedAt *time.Time `gorm:"column:activation_dispatched_at;index" json:"activation_dispatched_at,omitempty"`
	TrainerUserID          *uint      `gorm:"column:trainer_user_id" json:"trainer_user_id,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for TrainerApplication
func (TrainerApplication) TableName() string {
	return "trainer_applications"
}

// IsPending reports whether the application still awaits review
func (a *TrainerApplication) IsPending() bool {
	return a.Status == ApplicationPending
}

// FullName joins first and last name
func (a *TrainerApplication) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// AwaitingActivation reports whether the application is approved but its
// activation event has not been dispatched yet
func (a *TrainerApplication) AwaitingActivation() bool {
	return a.Status == ApplicationApproved && a.ActivationDispatchedAt == nil
}

// Review is the outcome an administrator records on a pending application
type Review struct {
	Status          ApplicationStatus
	ReviewedBy      string
	ReviewedAt      time.Time
	AdminNotes      string
	RejectionReason string
}

// Apply copies the review onto the application. Notes are only kept for
// approvals and the reason only for rejections.
func (r Review) Apply(a *TrainerApplication) {
	at := r.ReviewedAt
	a.Status = r.Status
	a.ReviewedBy = r.ReviewedBy
	a.ReviewedAt = &at
	switch r.Status {
	case ApplicationApproved:
		a.AdminNotes = r.AdminNotes
		a.RejectionReason = ""
	case ApplicationRejected:
		a.RejectionReason = r.RejectionReason
		a.AdminNotes = ""
	}
}

// Columns returns the column updates the review makes
func (r Review) Columns() map[string]any {
	cols := map[string]any{
		"status":      r.Status,
		"reviewed_by": r.ReviewedBy,
		"reviewed_at": r.ReviewedAt,
	}
	switch r.Status {
	case ApplicationApproved:
		cols["admin_notes"] = r.AdminNotes
	case ApplicationRejected:
		cols["rejection_reason"] = r.RejectionReason
	}
	return cols
}
