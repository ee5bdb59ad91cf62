package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fithub/fithub-onboarding/internal/jobs"
	"github.com/fithub/fithub-onboarding/internal/jobs/queue"
	"github.com/fithub/fithub-onboarding/internal/testutil"
)

func sweepJob() ScheduledJob {
	return ScheduledJob{
		Name:     "activation-sweep",
		Schedule: "@every 30s",
		JobType:  "activation.sweep",
		Payload:  struct{}{},
		Priority: jobs.PriorityHigh,
	}
}

func TestDefaultConfig(t *testing.T) {
	assert.Equal(t, 30*time.Second, DefaultConfig().LeaderLockTTL)
}

func TestScheduler_RegisterJob(t *testing.T) {
	s := NewScheduler(nil, nil, testutil.NewNopLogger(), Config{})

	require.NoError(t, s.RegisterJob(sweepJob()))
	assert.Error(t, s.RegisterJob(sweepJob()), "duplicate name")

	tests := []struct {
		name string
		job  ScheduledJob
	}{
		{"bad schedule", ScheduledJob{Name: "x", JobType: "t", Schedule: "every now and then"}},
		{"six fields", ScheduledJob{Name: "y", JobType: "t", Schedule: "0 * * * * *"}},
		{"missing type", ScheduledJob{Name: "z", Schedule: "@hourly"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, s.RegisterJob(tt.job))
		})
	}

	infos := s.ListJobs()
	require.Len(t, infos, 1)
	assert.Equal(t, "activation-sweep", infos[0].Name)
	assert.Equal(t, "high", infos[0].Priority)
	assert.False(t, infos[0].NextRun.IsZero())
}

func TestScheduler_FireRequiresLeadership(t *testing.T) {
	client := testutil.NewTestRedisClient(t, testutil.DefaultTestConfig())
	q := queue.NewRedisQueue(client)
	ctx := context.Background()

	s := NewScheduler(client, q, testutil.NewTestLogger(t), Config{LeaderLockTTL: 3 * time.Second})
	require.NoError(t, s.RegisterJob(sweepJob()))

	s.Fire(ctx, "activation-sweep")
	stats, err := q.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Pending, "a follower must not enqueue")

	require.NoError(t, s.Start(ctx))
	defer s.Stop(ctx)
	require.True(t, s.IsLeader())

	s.Fire(ctx, "activation-sweep")
	s.Fire(ctx, "activation-sweep")
	stats, err = q.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Pending, "overlapping runs collapse into one")

	job, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "activation.sweep", job.Type)
	require.NoError(t, q.Complete(ctx, job.ID))

	s.Fire(ctx, "activation-sweep")
	stats, err = q.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Pending)
}

func TestScheduler_SingleLeader(t *testing.T) {
	client := testutil.NewTestRedisClient(t, testutil.DefaultTestConfig())
	ctx := context.Background()
	cfg := Config{LeaderLockTTL: 3 * time.Second}

	a := NewScheduler(client, nil, testutil.NewNopLogger(), cfg)
	b := NewScheduler(client, nil, testutil.NewNopLogger(), cfg)

	require.NoError(t, a.Start(ctx))
	require.NoError(t, b.Start(ctx))
	defer b.Stop(ctx)

	assert.True(t, a.IsLeader())
	assert.False(t, b.IsLeader())

	// once a resigns, b takes over on its next campaign
	require.NoError(t, a.Stop(ctx))
	assert.Eventually(t, b.IsLeader, 3*time.Second, 50*time.Millisecond)
}
