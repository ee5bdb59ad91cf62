package activation

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/domain/dao"
	"github.com/fithub/fithub-onboarding/internal/domain/entity"
	"github.com/fithub/fithub-onboarding/internal/domain/repository"
	"github.com/fithub/fithub-onboarding/internal/observability"
	"github.com/fithub/fithub-onboarding/internal/resilience"
)

// AccountStoreBreaker names the circuit breaker around account creation
const AccountStoreBreaker = "account-store"

// Materializer creates trainer accounts from activation events. Handling
// the same event twice creates one account.
type Materializer struct {
	userRepo repository.UserRepository
	appRepo  repository.TrainerApplicationRepository
	breaker  *resilience.CircuitBreaker
	retry    resilience.RetryConfig
	metrics  *observability.MetricsProvider
	logger   *zap.Logger
}

// NewMaterializer creates a materializer
func NewMaterializer(
	userRepo repository.UserRepository,
	appRepo repository.TrainerApplicationRepository,
	breakers *resilience.CircuitBreakerRegistry,
	metrics *observability.MetricsProvider,
	logger *zap.Logger,
) *Materializer {
	return &Materializer{
		userRepo: userRepo,
		appRepo:  appRepo,
		breaker:  breakers.Get(AccountStoreBreaker),
		retry:    resilience.DefaultRetryConfig(),
		metrics:  metrics,
		logger:   logger.Named("activation.materializer"),
	}
}

// Handle is the trainer.activate job handler
func (m *Materializer) Handle(ctx context.Context, ev Event) (err error) {
	ctx, span := observability.Start(ctx, "ActivationMaterializer.Handle",
		observability.AttrApplicationID.Int64(int64(ev.ApplicationID)),
	)
	defer func() { observability.EndSpan(span, err) }()

	if ev.ApplicationID == 0 || ev.Email == "" {
		m.logger.Error("dropping malformed activation event", zap.String("event_id", ev.EventID))
		return nil
	}

	return resilience.Retry(ctx, m.retry, func(ctx context.Context) error {
		return m.breaker.Execute(ctx, func(ctx context.Context) error {
			return m.materialize(ctx, ev)
		})
	})
}

func (m *Materializer) materialize(ctx context.Context, ev Event) error {
	user, err := m.userRepo.GetByTrainerApplicationID(ctx, ev.ApplicationID)
	if err != nil {
		return err
	}
	if user != nil {
		return m.link(ctx, ev, user.ID)
	}

	existing, err := m.userRepo.GetByEmail(ctx, ev.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		m.skipTaken(ev, existing)
		return nil
	}

	user = ev.User()
	if err := m.userRepo.Create(ctx, user); err != nil {
		if !errors.Is(err, dao.ErrDuplicateKey) {
			return fmt.Errorf("create trainer for application %d: %w", ev.ApplicationID, err)
		}
		// a concurrent delivery won; link whatever it created
		winner, lookupErr := m.userRepo.GetByTrainerApplicationID(ctx, ev.ApplicationID)
		if lookupErr != nil {
			return lookupErr
		}
		if winner == nil {
			m.logger.Warn("email registered while activation was in flight",
				zap.Uint("application_id", ev.ApplicationID),
				zap.String("email", ev.Email),
			)
			return nil
		}
		return m.link(ctx, ev, winner.ID)
	}

	m.metrics.RecordTrainerCreated(ctx)
	m.logger.Info("trainer account created",
		zap.Uint("application_id", ev.ApplicationID),
		zap.Uint("user_id", user.ID),
	)
	return m.link(ctx, ev, user.ID)
}

func (m *Materializer) link(ctx context.Context, ev Event, userID uint) error {
	if err := m.appRepo.LinkTrainer(ctx, ev.ApplicationID, userID); err != nil {
		return fmt.Errorf("link application %d to user %d: %w", ev.ApplicationID, userID, err)
	}
	return nil
}

// skipTaken handles an email that already belongs to an account not made
// from this application. The account is left alone.
func (m *Materializer) skipTaken(ev Event, existing *entity.User) {
	m.logger.Warn("account already exists for approved application email, not creating trainer",
		zap.Uint("application_id", ev.ApplicationID),
		zap.Uint("user_id", existing.ID),
		zap.String("role", string(existing.Role)),
	)
}
