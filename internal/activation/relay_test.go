package activation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fithub/fithub-onboarding/internal/domain/entity"
	"github.com/fithub/fithub-onboarding/internal/testutil/mocks"
)

func TestRelay_SweepPublishesEachApprovalOnce(t *testing.T) {
	repo := mocks.NewMockTrainerApplicationRepository()
	first := approvedApplication(repo, "one@example.com")
	second := approvedApplication(repo, "two@example.com")
	repo.Put(&entity.TrainerApplication{Email: "pending@example.com", Status: entity.ApplicationPending})
	repo.Put(&entity.TrainerApplication{Email: "rejected@example.com", Status: entity.ApplicationRejected})

	pub := &recordingPublisher{}
	relay := newTestRelay(t, repo, pub, 10)

	n, err := relay.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []uint{first.ID, second.ID}, pub.applicationIDs())

	n, err = relay.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, pub.applicationIDs(), 2)

	stored, _ := repo.GetByID(context.Background(), first.ID)
	require.NotNil(t, stored.ActivationDispatchedAt)
}

func TestRelay_SweepRespectsBatchSize(t *testing.T) {
	repo := mocks.NewMockTrainerApplicationRepository()
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		approvedApplication(repo, email)
	}
	pub := &recordingPublisher{}
	relay := newTestRelay(t, repo, pub, 2)

	n, err := relay.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = relay.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRelay_FailedPublishIsRetriedNextSweep(t *testing.T) {
	repo := mocks.NewMockTrainerApplicationRepository()
	app := approvedApplication(repo, "one@example.com")
	pub := &recordingPublisher{}
	pub.failWith(errors.New("sink down"))
	relay := newTestRelay(t, repo, pub, 10)

	n, err := relay.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	stored, _ := repo.GetByID(context.Background(), app.ID)
	assert.Nil(t, stored.ActivationDispatchedAt)

	pub.failWith(nil)
	n, err = relay.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []uint{app.ID}, pub.applicationIDs())
}

func TestRelay_SweepListError(t *testing.T) {
	repo := mocks.NewMockTrainerApplicationRepository()
	repo.ListErr = mocks.ErrMockUnavailable
	relay := newTestRelay(t, repo, &recordingPublisher{}, 10)

	_, err := relay.Sweep(context.Background())
	assert.ErrorIs(t, err, mocks.ErrMockUnavailable)
}

func TestRelay_MarkErrorKeepsApplicationQueued(t *testing.T) {
	repo := mocks.NewMockTrainerApplicationRepository()
	app := approvedApplication(repo, "one@example.com")
	repo.MarkDispatchedErr = mocks.ErrMockUnavailable
	pub := &recordingPublisher{}
	relay := newTestRelay(t, repo, pub, 10)

	n, err := relay.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	repo.MarkDispatchedErr = nil
	n, err = relay.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	// published twice, stamped once; the consumer deduplicates
	assert.Equal(t, []uint{app.ID, app.ID}, pub.applicationIDs())
}

func TestRelay_Dispatch(t *testing.T) {
	repo := mocks.NewMockTrainerApplicationRepository()
	app := approvedApplication(repo, "one@example.com")
	pub := &recordingPublisher{}
	relay := newTestRelay(t, repo, pub, 10)

	require.NoError(t, relay.Dispatch(context.Background(), app))
	assert.Equal(t, []uint{app.ID}, pub.applicationIDs())

	n, err := relay.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	pending := &entity.TrainerApplication{ID: 99, Status: entity.ApplicationPending}
	require.NoError(t, relay.Dispatch(context.Background(), pending))
	assert.Len(t, pub.applicationIDs(), 1)
}

func TestRelay_DispatchFailureSurfaces(t *testing.T) {
	repo := mocks.NewMockTrainerApplicationRepository()
	app := approvedApplication(repo, "one@example.com")
	pub := &recordingPublisher{}
	pub.failWith(mocks.ErrMockUnavailable)
	relay := newTestRelay(t, repo, pub, 10)

	assert.ErrorIs(t, relay.Dispatch(context.Background(), app), mocks.ErrMockUnavailable)
}
