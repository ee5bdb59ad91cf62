package impl

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/fithub/fithub-onboarding/internal/domain/entity"
	"github.com/fithub/fithub-onboarding/internal/domain/registration"
	"github.com/fithub/fithub-onboarding/internal/domain/service"
	"github.com/fithub/fithub-onboarding/internal/security"
	"github.com/fithub/fithub-onboarding/internal/testutil/mocks"
)

var fixedNow = time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)

type recordingDispatcher struct {
	mu  sync.Mutex
	ids []uint
	err error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, app *entity.TrainerApplication) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids = append(d.ids, app.ID)
	return d.err
}

func (d *recordingDispatcher) dispatched() []uint {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]uint(nil), d.ids...)
}

func newTestApplicationService(t *testing.T, appRepo *mocks.MockTrainerApplicationRepository, dispatcher *recordingDispatcher) *trainerApplicationService {
	t.Helper()
	var d service.ActivationDispatcher
	if dispatcher != nil {
		d = dispatcher
	}
	svc := NewTrainerApplicationService(appRepo, d, nil, zaptest.NewLogger(t)).(*trainerApplicationService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func newTestValidator() *registration.Validator {
	return registration.New(registration.WithClock(func() time.Time { return fixedNow }))
}

func newTestHasher() *security.PasswordHasher {
	return security.NewPasswordHasherWithCost(4)
}

func userValues(email string) registration.Values {
	return registration.Values{
		registration.FieldFirstName:           "Asha",
		registration.FieldLastName:            "Rao",
		registration.FieldEmail:               email,
		registration.FieldPhone:               "9876543210",
		registration.FieldPassword:            "abcdefgh",
		registration.FieldConfirmPassword:     "abcdefgh",
		registration.FieldDateOfBirth:         "1995-04-02",
		registration.FieldGender:              "female",
		registration.FieldRole:                "user",
		registration.FieldAgreeToTerms:        "true",
		registration.FieldSubscribeNewsletter: "true",
	}
}

func trainerValues(email string) registration.Values {
	v := userValues(email)
	v[registration.FieldRole] = "trainer"
	v[registration.FieldExperience] = strings.Repeat("x", 50)
	v[registration.FieldCertifications] = "ACE-CPT"
	v[registration.FieldSpecializations] = "Yoga, mobility"
	v[registration.FieldBio] = "Certified yoga instructor from Pune."
	v[registration.FieldMotivation] = "I want to coach beginners."
	return v
}

func trainerRegistration(t *testing.T, email string) *registration.TrainerRegistration {
	t.Helper()
	reg, err := registration.Parse(trainerValues(email))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return reg.(*registration.TrainerRegistration)
}

func pendingApplication(repo *mocks.MockTrainerApplicationRepository, email string) *entity.TrainerApplication {
	app := &entity.TrainerApplication{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Asha",
		Status:       entity.ApplicationPending,
		AppliedAt:    fixedNow.Add(-time.Hour),
	}
	repo.Put(app)
	return app
}
