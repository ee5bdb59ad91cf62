// Package document defines MongoDB document structs for persistence.
// These structs are separate from domain entities so the stored layout can
// evolve independently of the GORM models.
package document

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserDocument represents a user in MongoDB.
type UserDocument struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	NumericID           uint               `bson:"numeric_id"`
	Email               string             `bson:"email"`
	PasswordHash        string             `bson:"password_hash"`
	FirstName           string             `bson:"first_name,omitempty"`
	LastName            string             `bson:"last_name,omitempty"`
	Phone               string             `bson:"phone,omitempty"`
	DateOfBirth         string             `bson:"date_of_birth,omitempty"`
	Gender              string             `bson:"gender,omitempty"`
	Role                string             `bson:"role"`
	IsActive            bool               `bson:"is_active"`
	SubscribeNewsletter bool               `bson:"subscribe_newsletter"`

	Experience      string     `bson:"experience,omitempty"`
	Certifications  string     `bson:"certifications,omitempty"`
	Specializations string     `bson:"specializations,omitempty"`
	Bio             string     `bson:"bio,omitempty"`
	TrainerStatus   string     `bson:"trainer_status,omitempty"`
	ApprovedBy      string     `bson:"approved_by,omitempty"`
	ApprovedAt      *time.Time `bson:"approved_at,omitempty"`
	// Absent for plain users so the partial unique index ignores them.
	TrainerApplicationID *uint `bson:"trainer_application_id,omitempty"`

	CreatedAt time.Time  `bson:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty"`
}

// CollectionName returns the MongoDB collection name for users.
func (UserDocument) CollectionName() string {
	return "users"
}

// IsDeleted returns true if the document has been soft-deleted.
func (d *UserDocument) IsDeleted() bool {
	return d.DeletedAt != nil
}
