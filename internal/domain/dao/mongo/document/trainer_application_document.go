package document

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainerApplicationDocument represents a trainer application in MongoDB.
type TrainerApplicationDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	NumericID    uint               `bson:"numeric_id"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	FirstName    string             `bson:"first_name,omitempty"`
	LastName     string             `bson:"last_name,omitempty"`
	Phone        string             `bson:"phone,omitempty"`
	DateOfBirth  string             `bson:"date_of_birth,omitempty"`
	Gender       string             `bson:"gender,omitempty"`

	Experience      string `bson:"experience"`
	Certifications  string `bson:"certifications"`
	Specializations string `bson:"specializations"`
	Bio             string `bson:"bio"`
	Motivation      string `bson:"motivation"`

	Status          string     `bson:"status"`
	AppliedAt       time.Time  `bson:"applied_at"`
	ReviewedBy      string     `bson:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `bson:"reviewed_at,omitempty"`
	AdminNotes      string     `bson:"admin_notes,omitempty"`
	RejectionReason string     `bson:"rejection_reason,omitempty"`

	// Stored as null rather than omitted so the outbox query can match it.
	ActivationDispatchedAt *time.Time `bson:"activation_dispatched_at"`
	TrainerUserID          *uint      `bson:"trainer_user_id,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// CollectionName returns the MongoDB collection name for trainer applications.
func (TrainerApplicationDocument) CollectionName() string {
	return "trainer_applications"
}

// IsPending reports whether the stored application still awaits review.
func (d *TrainerApplicationDocument) IsPending() bool {
	return d.Status == "pending"
}
