package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fithub/fithub-onboarding/internal/testutil"
)

func setupTestLockManager(t *testing.T) (*LockManager, context.Context) {
	client := testutil.NewTestRedisClient(t, testutil.DefaultTestConfig())
	cfg := DefaultConfig()
	cfg.LockTTL = 2 * time.Second
	cfg.HeartbeatRate = 200 * time.Millisecond
	return NewLockManager(client, cfg), context.Background()
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5*time.Minute, cfg.LockTTL)
	assert.Equal(t, 30*time.Second, cfg.HeartbeatRate)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
}

func TestLockManager_AcquireRelease(t *testing.T) {
	lm, ctx := setupTestLockManager(t)

	l, err := lm.AcquireLock(ctx, "job-1")
	require.NoError(t, err)
	assert.True(t, l.IsHeld())

	_, err = lm.AcquireLock(ctx, "job-1")
	assert.ErrorIs(t, err, ErrLockNotAcquired)

	require.NoError(t, lm.ReleaseLock(ctx, "job-1", l))
	assert.False(t, l.IsHeld())

	again, err := lm.AcquireLock(ctx, "job-1")
	require.NoError(t, err)
	require.NoError(t, lm.ReleaseLock(ctx, "job-1", again))
}

func TestLockManager_OneWinnerAcrossWorkers(t *testing.T) {
	client := testutil.NewTestRedisClient(t, testutil.DefaultTestConfig())
	ctx := context.Background()

	const workers = 6
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lm := NewLockManager(client, DefaultConfig())
			if _, err := lm.AcquireLock(ctx, "shared-job"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestLockManager_HeartbeatKeepsLock(t *testing.T) {
	lm, ctx := setupTestLockManager(t)

	l, err := lm.AcquireLock(ctx, "long-job")
	require.NoError(t, err)
	defer lm.ReleaseLock(ctx, "long-job", l)

	// outlive the TTL; the heartbeat must have extended it
	time.Sleep(3 * time.Second)
	assert.True(t, l.IsHeld())

	_, err = lm.AcquireLock(ctx, "long-job")
	assert.ErrorIs(t, err, ErrLockNotAcquired)
}

func TestLockManager_ReleaseAll(t *testing.T) {
	lm, ctx := setupTestLockManager(t)

	a, err := lm.AcquireLock(ctx, "a")
	require.NoError(t, err)
	b, err := lm.AcquireLock(ctx, "b")
	require.NoError(t, err)

	lm.ReleaseAll(ctx)
	assert.False(t, a.IsHeld())
	assert.False(t, b.IsHeld())
}

func TestLockManager_Idempotency(t *testing.T) {
	lm, ctx := setupTestLockManager(t)

	done, err := lm.Completed(ctx, "trainer-activation:5")
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, lm.MarkCompleted(ctx, "trainer-activation:5", "job-5"))

	done, err = lm.Completed(ctx, "trainer-activation:5")
	require.NoError(t, err)
	assert.True(t, done)

	done, err = lm.Completed(ctx, "")
	require.NoError(t, err)
	assert.False(t, done)
}
