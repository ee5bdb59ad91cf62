package gorm

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fithub/fithub-onboarding/internal/domain/dao"
	"github.com/fithub/fithub-onboarding/internal/domain/entity"
)

func newTestApplication(email string, appliedAt time.Time) *entity.TrainerApplication {
	return &entity.TrainerApplication{
		Email:           email,
		PasswordHash:    "hash",
		FirstName:       "Ravi",
		LastName:        "Iyer",
		Phone:           "9876543210",
		Experience:      "Ten years coaching strength and conditioning at city gyms.",
		Certifications:  "NASM-CPT",
		Specializations: "Strength",
		Bio:             "Strength coach who loves teaching beginners.",
		Motivation:      "Reach more people",
		Status:          entity.ApplicationPending,
		AppliedAt:       appliedAt,
	}
}

func approval(by string) entity.Review {
	return entity.Review{
		Status:     entity.ApplicationApproved,
		ReviewedBy: by,
		ReviewedAt: time.Now().UTC().Truncate(time.Second),
		AdminNotes: "looks good",
	}
}

func rejection(by, reason string) entity.Review {
	return entity.Review{
		Status:          entity.ApplicationRejected,
		ReviewedBy:      by,
		ReviewedAt:      time.Now().UTC().Truncate(time.Second),
		RejectionReason: reason,
	}
}

func TestTrainerApplicationDAO_CreateAndFind(t *testing.T) {
	appDAO := NewTrainerApplicationDAO(setupTestDB(t))
	ctx := context.Background()

	app := newTestApplication("ravi@example.com", time.Now())
	require.NoError(t, appDAO.Create(ctx, app))
	assert.NotZero(t, app.ID)

	found, err := appDAO.FindByID(ctx, app.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, entity.ApplicationPending, found.Status)
	assert.Nil(t, found.ReviewedAt)

	missing, err := appDAO.FindByID(ctx, 404)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTrainerApplicationDAO_TransitionFromPending(t *testing.T) {
	appDAO := NewTrainerApplicationDAO(setupTestDB(t))
	ctx := context.Background()

	app := newTestApplication("ravi@example.com", time.Now())
	require.NoError(t, appDAO.Create(ctx, app))

	current, applied, err := appDAO.TransitionFromPending(ctx, app.ID, approval("admin@fithub.test"))
	require.NoError(t, err)
	assert.True(t, applied)
	require.NotNil(t, current)
	assert.Equal(t, entity.ApplicationApproved, current.Status)
	assert.Equal(t, "admin@fithub.test", current.ReviewedBy)
	assert.Equal(t, "looks good", current.AdminNotes)
	require.NotNil(t, current.ReviewedAt)

	current, applied, err = appDAO.TransitionFromPending(ctx, app.ID, rejection("other@fithub.test", "late"))
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, entity.ApplicationApproved, current.Status, "terminal state is untouched")
	assert.Equal(t, "admin@fithub.test", current.ReviewedBy)
	assert.Empty(t, current.RejectionReason)
}

func TestTrainerApplicationDAO_TransitionMissing(t *testing.T) {
	appDAO := NewTrainerApplicationDAO(setupTestDB(t))

	current, applied, err := appDAO.TransitionFromPending(context.Background(), 99, approval("admin"))
	assert.NoError(t, err)
	assert.False(t, applied)
	assert.Nil(t, current)
}

func TestTrainerApplicationDAO_ConcurrentReviewsApplyOnce(t *testing.T) {
	appDAO := NewTrainerApplicationDAO(setupTestDB(t))
	ctx := context.Background()

	app := newTestApplication("race@example.com", time.Now())
	require.NoError(t, appDAO.Create(ctx, app))

	const reviewers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < reviewers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			review := approval("admin")
			if i%2 == 1 {
				review = rejection("admin", "race")
			}
			_, applied, err := appDAO.TransitionFromPending(ctx, app.ID, review)
			assert.NoError(t, err)
			if applied {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	final, err := appDAO.FindByID(ctx, app.ID)
	require.NoError(t, err)
	assert.True(t, final.Status.IsTerminal())
}

func TestTrainerApplicationDAO_ListOrdering(t *testing.T) {
	appDAO := NewTrainerApplicationDAO(setupTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	first := newTestApplication("first@example.com", base)
	second := newTestApplication("second@example.com", base.Add(time.Hour))
	third := newTestApplication("third@example.com", base.Add(2*time.Hour))
	for _, a := range []*entity.TrainerApplication{second, third, first} {
		require.NoError(t, appDAO.Create(ctx, a))
	}
	_, _, err := appDAO.TransitionFromPending(ctx, third.ID, rejection("admin", "no"))
	require.NoError(t, err)

	pending, total, err := appDAO.List(ctx, dao.ApplicationFilter{Status: entity.ApplicationPending, Ascending: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, pending, 2)
	assert.Equal(t, "first@example.com", pending[0].Email)
	assert.Equal(t, "second@example.com", pending[1].Email)

	all, total, err := appDAO.List(ctx, dao.ApplicationFilter{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 2)
	assert.Equal(t, "third@example.com", all[0].Email)
	assert.Equal(t, "second@example.com", all[1].Email)
}

func TestTrainerApplicationDAO_EmailLookups(t *testing.T) {
	appDAO := NewTrainerApplicationDAO(setupTestDB(t))
	ctx := context.Background()

	old := newTestApplication("same@example.com", time.Now().Add(-48*time.Hour))
	require.NoError(t, appDAO.Create(ctx, old))
	_, _, err := appDAO.TransitionFromPending(ctx, old.ID, rejection("admin", "Missing or invalid certifications"))
	require.NoError(t, err)

	pending, err := appDAO.ExistsPendingByEmail(ctx, "same@example.com")
	require.NoError(t, err)
	assert.False(t, pending)

	latest := newTestApplication("same@example.com", time.Now())
	require.NoError(t, appDAO.Create(ctx, latest))

	pending, err = appDAO.ExistsPendingByEmail(ctx, "same@example.com")
	require.NoError(t, err)
	assert.True(t, pending)

	found, err := appDAO.FindLatestByEmail(ctx, "same@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, latest.ID, found.ID)

	none, err := appDAO.FindLatestByEmail(ctx, "ghost@example.com")
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestTrainerApplicationDAO_ActivationOutbox(t *testing.T) {
	appDAO := NewTrainerApplicationDAO(setupTestDB(t))
	ctx := context.Background()

	approved := newTestApplication("approved@example.com", time.Now())
	pending := newTestApplication("pending@example.com", time.Now())
	require.NoError(t, appDAO.Create(ctx, approved))
	require.NoError(t, appDAO.Create(ctx, pending))
	_, _, err := appDAO.TransitionFromPending(ctx, approved.ID, approval("admin"))
	require.NoError(t, err)

	awaiting, err := appDAO.FindAwaitingActivation(ctx, 10)
	require.NoError(t, err)
	require.Len(t, awaiting, 1)
	assert.Equal(t, approved.ID, awaiting[0].ID)

	marked, err := appDAO.MarkActivationDispatched(ctx, approved.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, marked)

	marked, err = appDAO.MarkActivationDispatched(ctx, approved.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, marked, "second mark is a no-op")

	marked, err = appDAO.MarkActivationDispatched(ctx, pending.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, marked, "pending applications are not in the outbox")

	awaiting, err = appDAO.FindAwaitingActivation(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, awaiting)

	require.NoError(t, appDAO.SetTrainerUserID(ctx, approved.ID, 55))
	found, err := appDAO.FindByID(ctx, approved.ID)
	require.NoError(t, err)
	require.NotNil(t, found.TrainerUserID)
	assert.Equal(t, uint(55), *found.TrainerUserID)
}

func TestTrainerApplicationDAO_CountByStatus(t *testing.T) {
	appDAO := NewTrainerApplicationDAO(setupTestDB(t))
	ctx := context.Background()

	for i, email := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		app := newTestApplication(email, time.Now())
		require.NoError(t, appDAO.Create(ctx, app))
		if i == 0 {
			_, _, err := appDAO.TransitionFromPending(ctx, app.ID, approval("admin"))
			require.NoError(t, err)
		}
	}

	counts, err := appDAO.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[entity.ApplicationPending])
	assert.Equal(t, int64(1), counts[entity.ApplicationApproved])
	assert.Equal(t, int64(0), counts[entity.ApplicationRejected])
}
