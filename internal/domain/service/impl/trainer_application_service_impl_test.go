package impl

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fithub/fithub-onboarding/internal/domain/entity"
	"github.com/fithub/fithub-onboarding/internal/domain/service"
	"github.com/fithub/fithub-onboarding/internal/testutil/mocks"
	apperrors "github.com/fithub/fithub-onboarding/pkg/errors"
)

var admin = service.Reviewer{UserID: 1, Email: "admin@fithub.test"}

func TestTrainerApplicationService_Submit(t *testing.T) {
	repo := mocks.NewMockTrainerApplicationRepository()
	svc := newTestApplicationService(t, repo, nil)

	app, err := svc.Submit(context.Background(), trainerRegistration(t, "  Coach@Example.COM "), "bcrypt-hash")
	require.NoError(t, err)
	assert.NotZero(t, app.ID)
	assert.Equal(t, entity.ApplicationPending, app.Status)
	assert.Equal(t, "coach@example.com", app.Email)
	assert.Equal(t, "bcrypt-hash", app.PasswordHash)
	assert.Equal(t, fixedNow, app.AppliedAt)
	assert.Nil(t, app.ReviewedAt)
	assert.Equal(t, "Yoga, mobility", app.Specializations)
}

func TestTrainerApplicationService_Submit_StoreError(t *testing.T) {
	repo := mocks.NewMockTrainerApplicationRepository()
	repo.CreateErr = errors.New("db down")
	svc := newTestApplicationService(t, repo, nil)

	_, err := svc.Submit(context.Background(), trainerRegistration(t, "coach@example.com"), "hash")
	assert.ErrorIs(t, err, repo.CreateErr)
}

func TestTrainerApplicationService_Approve(t *testing.T) {
	repo := mocks.NewMockTrainerApplicationRepository()
	dispatcher := &recordingDispatcher{}
	svc := newTestApplicationService(t, repo, dispatcher)
	app := pendingApplication(repo, "coach@example.com")

	approved, err := svc.Approve(context.Background(), app.ID, admin, "  great profile ")
	require.NoError(t, err)
	assert.Equal(t, entity.ApplicationApproved, approved.Status)
	require.NotNil(t, approved.ReviewedAt)
	assert.Equal(t, fixedNow, *approved.ReviewedAt)
	assert.Equal(t, "admin@fithub.test", approved.ReviewedBy)
	assert.Equal(t, "great profile", approved.AdminNotes)
	assert.Equal(t, []uint{app.ID}, dispatcher.dispatched())

	// a second review of any kind conflicts
	_, err = svc.Approve(context.Background(), app.ID, admin, "")
	var conflict *apperrors.ApplicationAlreadyReviewedError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, app.ID, conflict.ApplicationID)
	assert.Equal(t, "approved", conflict.Status)

	_, err = svc.Reject(context.Background(), app.ID, admin, "changed my mind")
	assert.True(t, apperrors.Is(err, apperrors.ErrApplicationAlreadyReviewed))

	assert.Len(t, dispatcher.dispatched(), 1, "conflicts never dispatch")
}

func TestTrainerApplicationService_Approve_DispatchFailureStillApproves(t *testing.T) {
	repo := mocks.NewMockTrainerApplicationRepository()
	dispatcher := &recordingDispatcher{err: errors.New("queue unavailable")}
	svc := newTestApplicationService(t, repo, dispatcher)
	app := pendingApplication(repo, "coach@example.com")

	approved, err := svc.Approve(context.Background(), app.ID, admin, "")
	require.NoError(t, err)
	assert.True(t, approved.AwaitingActivation())
}

func TestTrainerApplicationService_Reject(t *testing.T) {
	repo := mocks.NewMockTrainerApplicationRepository()
	svc := newTestApplicationService(t, repo, nil)
	app := pendingApplication(repo, "coach@example.com")

	rejected, err := svc.Reject(context.Background(), app.ID, admin, "  Missing or invalid certifications  ")
	require.NoError(t, err)
	assert.Equal(t, entity.ApplicationRejected, rejected.Status)
	assert.Equal(t, "Missing or invalid certifications", rejected.RejectionReason)
	assert.Empty(t, rejected.AdminNotes)

	_, err = svc.Approve(context.Background(), app.ID, admin, "")
	var conflict *apperrors.ApplicationAlreadyReviewedError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "rejected", conflict.Status)
}

func TestTrainerApplicationService_Reject_EmptyReason(t *testing.T) {
	for _, reason := range []string{"", "   ", "\t\n"} {
		repo := mocks.NewMockTrainerApplicationRepository()
		svc := newTestApplicationService(t, repo, nil)
		app := pendingApplication(repo, "coach@example.com")

		_, err := svc.Reject(context.Background(), app.ID, admin, reason)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidTransitionInput), "reason %q", reason)
		assert.Equal(t, 0, repo.TransitionCalls)

		stored, _ := repo.GetByID(context.Background(), app.ID)
		assert.Equal(t, entity.ApplicationPending, stored.Status)
	}
}

func TestTrainerApplicationService_ReviewErrors(t *testing.T) {
	repo := mocks.NewMockTrainerApplicationRepository()
	svc := newTestApplicationService(t, repo, nil)
	app := pendingApplication(repo, "coach@example.com")
	ctx := context.Background()

	_, err := svc.Approve(ctx, 999, admin, "")
	assert.True(t, apperrors.Is(err, apperrors.ErrApplicationNotFound))

	_, err = svc.Approve(ctx, app.ID, service.Reviewer{}, "")
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidTransitionInput))

	repo.TransitionErr = errors.New("deadlock")
	_, err = svc.Approve(ctx, app.ID, admin, "")
	assert.ErrorIs(t, err, repo.TransitionErr)
}

func TestTrainerApplicationService_ConcurrentReviews(t *testing.T) {
	repo := mocks.NewMockTrainerApplicationRepository()
	dispatcher := &recordingDispatcher{}
	svc := newTestApplicationService(t, repo, dispatcher)
	app := pendingApplication(repo, "coach@example.com")

	const reviewers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < reviewers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				_, err = svc.Approve(context.Background(), app.ID, admin, "")
			} else {
				_, err = svc.Reject(context.Background(), app.ID, admin, "Does not meet our platform requirements")
			}
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case apperrors.Is(err, apperrors.ErrApplicationAlreadyReviewed):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, reviewers-1, conflicts)
	assert.LessOrEqual(t, len(dispatcher.dispatched()), 1)
}

func TestTrainerApplicationService_Reads(t *testing.T) {
	repo := mocks.NewMockTrainerApplicationRepository()
	svc := newTestApplicationService(t, repo, nil)
	ctx := context.Background()

	older := pendingApplication(repo, "a@example.com")
	newer := &entity.TrainerApplication{Email: "b@example.com", Status: entity.ApplicationPending, AppliedAt: fixedNow}
	repo.Put(newer)
	rejected := &entity.TrainerApplication{Email: "a@example.com", Status: entity.ApplicationRejected, AppliedAt: fixedNow.Add(-48 * time.Hour)}
	repo.Put(rejected)

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, older.ID, pending[0].ID, "oldest first")

	all, total, err := svc.List(ctx, "", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID, "newest first")

	_, _, err = svc.List(ctx, "archived", 1, 20)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	latest, err := svc.StatusByEmail(ctx, " A@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, older.ID, latest.ID)

	_, err = svc.StatusByEmail(ctx, "nobody@example.com")
	assert.True(t, apperrors.Is(err, apperrors.ErrApplicationNotFound))

	got, err := svc.Get(ctx, rejected.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ApplicationRejected, got.Status)

	counts, err := svc.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[entity.ApplicationPending])
	assert.Equal(t, int64(1), counts[entity.ApplicationRejected])
	assert.Equal(t, int64(0), counts[entity.ApplicationApproved])
}

func TestTrainerApplicationService_RejectionReasons(t *testing.T) {
	svc := newTestApplicationService(t, mocks.NewMockTrainerApplicationRepository(), nil)
	reasons := svc.RejectionReasons()
	assert.Len(t, reasons, 4)

	reasons[0] = "mutated"
	assert.NotEqual(t, "mutated", svc.RejectionReasons()[0])
}
