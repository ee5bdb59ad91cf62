package activation

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/fithub/fithub-onboarding/internal/config"
	"github.com/fithub/fithub-onboarding/internal/domain/entity"
	"github.com/fithub/fithub-onboarding/internal/resilience"
	"github.com/fithub/fithub-onboarding/internal/testutil/mocks"
)

var approvedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
		Multiplier:      1,
	}
}

func approvedApplication(repo *mocks.MockTrainerApplicationRepository, email string) *entity.TrainerApplication {
	reviewed := approvedAt
	app := &entity.TrainerApplication{
		Email:           email,
		PasswordHash:    "$2a$04$hash",
		FirstName:       "Meera",
		LastName:        "Iyer",
		Phone:           "9876543210",
		DateOfBirth:     "1992-04-18",
		Gender:          "female",
		Experience:      "6 years of strength coaching",
		Certifications:  "NSCA-CSCS",
		Specializations: "strength, mobility",
		Bio:             "Coach focused on sustainable progress.",
		Status:          entity.ApplicationApproved,
		AppliedAt:       approvedAt.Add(-48 * time.Hour),
		ReviewedBy:      "admin@fithub.test",
		ReviewedAt:      &reviewed,
	}
	repo.Put(app)
	return app
}

// recordingPublisher collects published events and fails while err is set
type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) failWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *recordingPublisher) applicationIDs() []uint {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]uint, len(p.events))
	for i, ev := range p.events {
		ids[i] = ev.ApplicationID
	}
	return ids
}

func newTestRelay(t *testing.T, repo *mocks.MockTrainerApplicationRepository, pub Publisher, batch int) *Relay {
	t.Helper()
	r := NewRelay(repo, pub, config.ActivationConfig{Sink: config.SinkQueue, BatchSize: batch}, nil, zaptest.NewLogger(t))
	r.now = func() time.Time { return approvedAt.Add(time.Minute) }
	return r
}

func newTestMaterializer(t *testing.T, users *mocks.MockUserRepository, apps *mocks.MockTrainerApplicationRepository) *Materializer {
	t.Helper()
	m := NewMaterializer(users, apps, resilience.NewCircuitBreakerRegistry(zaptest.NewLogger(t)), nil, zaptest.NewLogger(t))
	m.retry = fastRetry()
	return m
}
