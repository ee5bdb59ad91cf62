// Package lock provides Redis locks that keep one worker on a job at a time
// and remember which unique keys have already completed.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fithub/fithub-onboarding/internal/jobs"
)

const (
	keyJobLock     = jobs.KeyPrefix + "lock:"
	keyIdempotency = jobs.KeyPrefix + "done:"
)

var ErrLockNotAcquired = errors.New("failed to acquire job lock")

var (
	releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

	extendScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("pexpire", KEYS[1], ARGV[2])
end
return 0`)
)

// Config holds lock manager settings
type Config struct {
	LockTTL        time.Duration
	HeartbeatRate  time.Duration
	IdempotencyTTL time.Duration
}

// DefaultConfig returns default lock settings
func DefaultConfig() Config {
	return Config{
		LockTTL:        5 * time.Minute,
		HeartbeatRate:  30 * time.Second,
		IdempotencyTTL: 24 * time.Hour,
	}
}

// JobLock is an exclusive lock on one job, kept alive by a heartbeat
type JobLock struct {
	key    string
	token  string
	cancel context.CancelFunc

	mu   sync.Mutex
	held bool
}

// IsHeld reports whether the heartbeat still owns the lock
func (l *JobLock) IsHeld() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}

// LockManager hands out job locks for one worker process
type LockManager struct {
	redis    *redis.Client
	workerID string
	config   Config

	mu     sync.Mutex
	active map[string]*JobLock
}

// NewLockManager creates a lock manager with a fresh worker ID
func NewLockManager(client *redis.Client, config Config) *LockManager {
	return &LockManager{
		redis:    client,
		workerID: uuid.NewString(),
		config:   config,
		active:   make(map[string]*JobLock),
	}
}

// WorkerID identifies this process in lock values
func (lm *LockManager) WorkerID() string {
	return lm.workerID
}

// AcquireLock takes the lock for jobID or returns ErrLockNotAcquired
func (lm *LockManager) AcquireLock(ctx context.Context, jobID string) (*JobLock, error) {
	key := keyJobLock + jobID
	token := lm.workerID + ":" + uuid.NewString()

	ok, err := lm.redis.SetNX(ctx, key, token, lm.config.LockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}

	hbCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	l := &JobLock{key: key, token: token, cancel: cancel, held: true}
	go lm.heartbeat(hbCtx, l)

	lm.mu.Lock()
	lm.active[jobID] = l
	lm.mu.Unlock()
	return l, nil
}

func (lm *LockManager) heartbeat(ctx context.Context, l *JobLock) {
	ticker := time.NewTicker(lm.config.HeartbeatRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := extendScript.Run(ctx, lm.redis, []string{l.key}, l.token, lm.config.LockTTL.Milliseconds()).Int()
			if err != nil || n == 0 {
				l.mu.Lock()
				l.held = false
				l.mu.Unlock()
				return
			}
		}
	}
}

// ReleaseLock deletes the lock if this worker still owns it
func (lm *LockManager) ReleaseLock(ctx context.Context, jobID string, l *JobLock) error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	wasHeld := l.held
	l.held = false
	l.mu.Unlock()
	l.cancel()

	lm.mu.Lock()
	delete(lm.active, jobID)
	lm.mu.Unlock()

	if !wasHeld {
		return nil
	}
	if err := releaseScript.Run(ctx, lm.redis, []string{l.key}, l.token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

// ReleaseAll releases every lock this worker holds
func (lm *LockManager) ReleaseAll(ctx context.Context) {
	lm.mu.Lock()
	held := make(map[string]*JobLock, len(lm.active))
	for id, l := range lm.active {
		held[id] = l
	}
	lm.mu.Unlock()

	for id, l := range held {
		_ = lm.ReleaseLock(ctx, id, l)
	}
}

// Completed reports whether a job with this unique key already finished
func (lm *LockManager) Completed(ctx context.Context, uniqueKey string) (bool, error) {
	if uniqueKey == "" {
		return false, nil
	}
	n, err := lm.redis.Exists(ctx, keyIdempotency+uniqueKey).Result()
	if err != nil {
		return false, fmt.Errorf("check idempotency: %w", err)
	}
	return n > 0, nil
}

// MarkCompleted remembers that the job with this unique key finished
func (lm *LockManager) MarkCompleted(ctx context.Context, uniqueKey, jobID string) error {
	if uniqueKey == "" {
		return nil
	}
	if err := lm.redis.Set(ctx, keyIdempotency+uniqueKey, jobID, lm.config.IdempotencyTTL).Err(); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}
