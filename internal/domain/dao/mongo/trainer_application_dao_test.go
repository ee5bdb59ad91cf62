package mongo

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fithub/fithub-onboarding/internal/domain/dao"
	"github.com/fithub/fithub-onboarding/internal/domain/entity"
	"github.com/fithub/fithub-onboarding/internal/testutil"
)

func setupMongo(t *testing.T) (*mongo.Database, *IDCounter) {
	testutil.SkipIfShort(t)
	_, db := testutil.NewTestMongoDB(t, testutil.DefaultTestConfig())
	require.NoError(t, EnsureIndexes(context.Background(), db))
	return db, NewIDCounter(db)
}

func pendingApplication(email string) *entity.TrainerApplication {
	return &entity.TrainerApplication{
		Email:     email,
		FirstName: "Asha",
		Status:    entity.ApplicationPending,
		AppliedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestMongoTrainerApplicationDAO_Transition(t *testing.T) {
	db, counter := setupMongo(t)
	appDAO := NewTrainerApplicationDAO(db, counter)
	ctx := context.Background()

	app := pendingApplication("asha@example.com")
	require.NoError(t, appDAO.Create(ctx, app))

	review := entity.Review{
		Status:     entity.ApplicationApproved,
		ReviewedBy: "admin@fithub.test",
		ReviewedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	var (
		wg      sync.WaitGroup
		winners int32
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, applied, err := appDAO.TransitionFromPending(ctx, app.ID, review)
			assert.NoError(t, err)
			if applied {
				atomic.AddInt32(&winners, 1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), winners)

	current, applied, err := appDAO.TransitionFromPending(ctx, app.ID, review)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, entity.ApplicationApproved, current.Status)

	missing, applied, err := appDAO.TransitionFromPending(ctx, 999, review)
	assert.NoError(t, err)
	assert.False(t, applied)
	assert.Nil(t, missing)
}

func TestMongoTrainerApplicationDAO_Outbox(t *testing.T) {
	db, counter := setupMongo(t)
	appDAO := NewTrainerApplicationDAO(db, counter)
	ctx := context.Background()

	app := pendingApplication("outbox@example.com")
	require.NoError(t, appDAO.Create(ctx, app))
	_, _, err := appDAO.TransitionFromPending(ctx, app.ID, entity.Review{
		Status:     entity.ApplicationApproved,
		ReviewedBy: "admin",
		ReviewedAt: time.Now(),
	})
	require.NoError(t, err)

	awaiting, err := appDAO.FindAwaitingActivation(ctx, 10)
	require.NoError(t, err)
	require.Len(t, awaiting, 1)

	marked, err := appDAO.MarkActivationDispatched(ctx, app.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, marked)

	marked, err = appDAO.MarkActivationDispatched(ctx, app.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, marked)

	counts, err := appDAO.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[entity.ApplicationApproved])
	assert.Equal(t, int64(0), counts[entity.ApplicationPending])
}

func TestMongoUserDAO_UniqueConstraints(t *testing.T) {
	db, counter := setupMongo(t)
	userDAO := NewUserDAO(db, counter)
	ctx := context.Background()

	appID := uint(4)
	trainer := &entity.User{Email: "t@example.com", Role: entity.RoleTrainer, TrainerApplicationID: &appID}
	require.NoError(t, userDAO.Create(ctx, trainer))

	dup := &entity.User{Email: "t2@example.com", Role: entity.RoleTrainer, TrainerApplicationID: &appID}
	assert.ErrorIs(t, userDAO.Create(ctx, dup), dao.ErrDuplicateKey)

	assert.ErrorIs(t, userDAO.Create(ctx, &entity.User{Email: "t@example.com"}), dao.ErrDuplicateKey)

	require.NoError(t, userDAO.Create(ctx, &entity.User{Email: "u1@example.com", Role: entity.RoleUser}))
	require.NoError(t, userDAO.Create(ctx, &entity.User{Email: "u2@example.com", Role: entity.RoleUser}))

	found, err := userDAO.FindByTrainerApplicationID(ctx, appID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, trainer.ID, found.ID)
}
