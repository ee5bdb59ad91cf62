package registration

import (
	"fmt"
	"strconv"
)

// Registration is an accepted registration payload. It is either a
// *UserRegistration or a *TrainerRegistration.
type Registration interface {
	Role() Role
	Account() *UserRegistration
	Values() Values
	isRegistration()
}

// UserRegistration carries the fields every account has
type UserRegistration struct {
	FirstName           string
	LastName            string
	Email               string
	Phone               string
	Password            string
	ConfirmPassword     string
	DateOfBirth         string
	Gender              Gender
	AgreeToTerms        bool
	SubscribeNewsletter bool
}

// Role returns RoleUser
func (r *UserRegistration) Role() Role { return RoleUser }

// Account returns the common account fields
func (r *UserRegistration) Account() *UserRegistration { return r }

// Values flattens the registration into form values
func (r *UserRegistration) Values() Values {
	return Values{
		FieldFirstName:           r.FirstName,
		FieldLastName:            r.LastName,
		FieldEmail:               r.Email,
		FieldPhone:               r.Phone,
		FieldPassword:            r.Password,
		FieldConfirmPassword:     r.ConfirmPassword,
		FieldDateOfBirth:         r.DateOfBirth,
		FieldGender:              string(r.Gender),
		FieldRole:                string(RoleUser),
		FieldAgreeToTerms:        strconv.FormatBool(r.AgreeToTerms),
		FieldSubscribeNewsletter: strconv.FormatBool(r.SubscribeNewsletter),
	}
}

func (*UserRegistration) isRegistration() {}

// TrainerProfile holds the fields a prospective trainer must provide
type TrainerProfile struct {
	Experience      string
	Certifications  string
	Specializations string
	Bio             string
	Motivation      string
}

// TrainerRegistration is a registration that becomes a trainer application
type TrainerRegistration struct {
	UserRegistration
	Profile TrainerProfile
}

// Role returns RoleTrainer
func (r *TrainerRegistration) Role() Role { return RoleTrainer }

// Account returns the common account fields
func (r *TrainerRegistration) Account() *UserRegistration { return &r.UserRegistration }

// Values flattens the registration into form values
func (r *TrainerRegistration) Values() Values {
	out := r.UserRegistration.Values()
	out[FieldRole] = string(RoleTrainer)
	out[FieldExperience] = r.Profile.Experience
	out[FieldCertifications] = r.Profile.Certifications
	out[FieldSpecializations] = r.Profile.Specializations
	out[FieldBio] = r.Profile.Bio
	out[FieldMotivation] = r.Profile.Motivation
	return out
}

func (*TrainerRegistration) isRegistration() {}

// Parse builds the typed registration for the role in values. Trainer
// fields are dropped for the user role. Parse does not validate; use
// Validator.Accept for that.
func Parse(values Values) (Registration, error) {
	user := UserRegistration{
		FirstName:           values[FieldFirstName],
		LastName:            values[FieldLastName],
		Email:               values[FieldEmail],
		Phone:               values[FieldPhone],
		Password:            values[FieldPassword],
		ConfirmPassword:     values[FieldConfirmPassword],
		DateOfBirth:         values[FieldDateOfBirth],
		Gender:              Gender(values[FieldGender]),
		AgreeToTerms:        parseBool(values[FieldAgreeToTerms]),
		SubscribeNewsletter: parseBool(values[FieldSubscribeNewsletter]),
	}

	switch role := Role(values[FieldRole]); role {
	case RoleUser:
		return &user, nil
	case RoleTrainer:
		return &TrainerRegistration{
			UserRegistration: user,
			Profile: TrainerProfile{
				Experience:      values[FieldExperience],
				Certifications:  values[FieldCertifications],
				Specializations: values[FieldSpecializations],
				Bio:             values[FieldBio],
				Motivation:      values[FieldMotivation],
			},
		}, nil
	default:
		return nil, fmt.Errorf("unknown registration role %q", role)
	}
}
