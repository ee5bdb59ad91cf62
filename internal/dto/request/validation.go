package request

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/fithub/fithub-onboarding/internal/domain/entity"
	"github.com/fithub/fithub-onboarding/internal/domain/registration"
)

// RegisterValidations adds the custom binding tags used by request DTOs to
// gin's validator engine. It is safe to call more than once.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return Register(v)
}

// Register adds the custom tags to v
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("registration_field", func(fl validator.FieldLevel) bool {
		return registration.KnownField(registration.Field(fl.Field().String()))
	}); err != nil {
		return err
	}
	return v.RegisterValidation("application_status", func(fl validator.FieldLevel) bool {
		return entity.ApplicationStatus(fl.Field().String()).IsValid()
	})
}
