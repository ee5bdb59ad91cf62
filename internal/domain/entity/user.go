package entity

import (
	"time"

	"gorm.io/gorm"
)

// UserRole represents user roles in the system
type UserRole string

const (
	RoleUser    UserRole = "user"
	RoleTrainer UserRole = "trainer"
	RoleAdmin   UserRole = "admin"
)

// IsValid checks if the role is known
func (r UserRole) IsValid() bool {
	switch r {
	case RoleUser, RoleTrainer, RoleAdmin:
		return true
	}
	return false
}

// TrainerStatusProfessional marks trainers whose application was approved
const TrainerStatusProfessional = "professional"

// User represents an account in the system
type User struct {
	ID                  uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Email               string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash        string         `gorm:"column:password_hash;not null" json:"-"`
	FirstName           string         `gorm:"column:first_name;size:50" json:"first_name"`
	LastName            string         `gorm:"column:last_name;size:50" json:"last_name"`
	Phone               string         `gorm:"size:15" json:"phone,omitempty"`
	DateOfBirth         string         `gorm:"column:date_of_birth;size:25" json:"date_of_birth,omitempty"`
	Gender              string         `gorm:"size:20" json:"gender,omitempty"`
	Role                UserRole       `gorm:"size:20;not null;default:user;index" json:"role"`
	IsActive            bool           `gorm:"column:is_active;default:true" json:"is_active"`
	SubscribeNewsletter bool           `gorm:"column:subscribe_newsletter;default:false" json:"subscribe_newsletter"`
	CreatedAt           time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	// Trainer profile, copied from the approved application
	Experience           string     `gorm:"type:text" json:"experience,omitempty"`
	Certifications       string     `gorm:"type:text" json:"certifications,omitempty"`
	Specializations      string     `gorm:"type:text" json:"specializations,omitempty"`
	Bio                  string     `gorm:"type:text" json:"bio,omitempty"`
	TrainerStatus        string     `gorm:"column:trainer_status;size:20" json:"trainer_status,omitempty"`
	ApprovedBy           string     `gorm:"column:approved_by;size:100" json:"approved_by,omitempty"`
	ApprovedAt           *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
	TrainerApplicationID *uint      `gorm:"column:trainer_application_id;uniqueIndex" json:"trainer_application_id,omitempty"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// FullName joins first and last name
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsTrainer reports whether the account is a trainer
func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}
