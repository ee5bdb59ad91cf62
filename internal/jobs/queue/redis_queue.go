package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fithub/fithub-onboarding/internal/jobs"
)

const (
	keyJob       = jobs.KeyPrefix + "job:"
	keyScheduled = jobs.KeyPrefix + "scheduled"
	keyUnique    = jobs.KeyPrefix + "unique:"
	keyDead      = jobs.KeyPrefix + "dead"
	keyStats     = jobs.KeyPrefix + "stats"

	jobTTL = 7 * 24 * time.Hour
)

// RedisQueue implements jobs.Queue on Redis lists and a sorted set of
// delayed jobs
type RedisQueue struct {
	client *redis.Client
	now    func() time.Time
}

var _ jobs.Queue = (*RedisQueue)(nil)

// NewRedisQueue creates a new Redis queue
func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client, now: time.Now}
}

// Enqueue stores the job and pushes it onto its priority list, or onto the
// scheduled set when it is delayed. The unique key is claimed with SETNX so
// two producers racing on the same key cannot both enqueue.
func (q *RedisQueue) Enqueue(ctx context.Context, job *jobs.JobPayload) error {
	if job.UniqueKey != "" {
		claimed, err := q.client.SetNX(ctx, keyUnique+job.UniqueKey, job.ID, jobTTL).Result()
		if err != nil {
			return fmt.Errorf("claim unique key: %w", err)
		}
		if !claimed {
			return jobs.ErrDuplicateJob
		}
	}

	if err := q.save(ctx, job); err != nil {
		q.releaseUnique(ctx, job)
		return err
	}
	if err := q.push(ctx, job); err != nil {
		q.releaseUnique(ctx, job)
		return fmt.Errorf("queue job: %w", err)
	}

	q.client.HIncrBy(ctx, keyStats, "enqueued_total", 1)
	return nil
}

func (q *RedisQueue) push(ctx context.Context, job *jobs.JobPayload) error {
	if job.ScheduledAt != nil && job.ScheduledAt.After(q.now()) {
		return q.client.ZAdd(ctx, keyScheduled, redis.Z{
			Score:  float64(job.ScheduledAt.UnixMilli()),
			Member: job.ID,
		}).Err()
	}
	return q.client.LPush(ctx, job.Priority.QueueName(), job.ID).Err()
}

// Dequeue pops the oldest job from the highest non-empty priority list
func (q *RedisQueue) Dequeue(ctx context.Context, priorities ...jobs.Priority) (*jobs.JobPayload, error) {
	if len(priorities) == 0 {
		priorities = jobs.Priorities
	}

	for _, priority := range priorities {
		jobID, err := q.client.RPop(ctx, priority.QueueName()).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("dequeue: %w", err)
		}

		job, err := q.GetJob(ctx, jobID)
		if errors.Is(err, jobs.ErrJobNotFound) {
			// expired or deleted while queued
			continue
		}
		if err != nil {
			return nil, err
		}

		now := q.now()
		job.Status = jobs.JobStatusRunning
		job.StartedAt = &now
		job.Attempts++
		if err := q.save(ctx, job); err != nil {
			return nil, err
		}
		return job, nil
	}

	return nil, jobs.ErrQueueEmpty
}

// GetJob loads a job by ID
func (q *RedisQueue) GetJob(ctx context.Context, jobID string) (*jobs.JobPayload, error) {
	data, err := q.client.Get(ctx, keyJob+jobID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, jobs.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	var job jobs.JobPayload
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	return &job, nil
}

func (q *RedisQueue) save(ctx context.Context, job *jobs.JobPayload) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	if err := q.client.Set(ctx, keyJob+job.ID, data, jobTTL).Err(); err != nil {
		return fmt.Errorf("store job: %w", err)
	}
	return nil
}

func (q *RedisQueue) releaseUnique(ctx context.Context, job *jobs.JobPayload) {
	if job.UniqueKey != "" {
		q.client.Del(ctx, keyUnique+job.UniqueKey)
	}
}

// Complete marks a job as completed and frees its unique key
func (q *RedisQueue) Complete(ctx context.Context, jobID string) error {
	job, err := q.GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	now := q.now()
	job.Status = jobs.JobStatusCompleted
	job.CompletedAt = &now
	if err := q.save(ctx, job); err != nil {
		return err
	}

	q.releaseUnique(ctx, job)
	q.client.HIncrBy(ctx, keyStats, "completed_total", 1)
	return nil
}

// Fail schedules a retry with backoff, or moves the job to the dead list
// once its retries are spent
func (q *RedisQueue) Fail(ctx context.Context, jobID string, jobErr error) (bool, error) {
	job, err := q.GetJob(ctx, jobID)
	if err != nil {
		return false, err
	}

	job.LastError = jobErr.Error()
	q.client.HIncrBy(ctx, keyStats, "failed_total", 1)

	if job.CanRetry() {
		at := q.now().Add(job.RetryPolicy.Delay(job.Attempts))
		job.Status = jobs.JobStatusRetrying
		job.ScheduledAt = &at
		if err := q.save(ctx, job); err != nil {
			return false, err
		}
		if err := q.client.ZAdd(ctx, keyScheduled, redis.Z{
			Score:  float64(at.UnixMilli()),
			Member: job.ID,
		}).Err(); err != nil {
			return false, fmt.Errorf("schedule retry: %w", err)
		}
		return true, nil
	}

	job.Status = jobs.JobStatusDead
	if err := q.save(ctx, job); err != nil {
		return false, err
	}
	if err := q.client.LPush(ctx, keyDead, job.ID).Err(); err != nil {
		return false, fmt.Errorf("move to dead list: %w", err)
	}
	q.releaseUnique(ctx, job)
	return false, nil
}

// Requeue puts a dequeued job back on its list without counting the attempt
func (q *RedisQueue) Requeue(ctx context.Context, job *jobs.JobPayload) error {
	job.Status = jobs.JobStatusPending
	job.StartedAt = nil
	if job.Attempts > 0 {
		job.Attempts--
	}
	if err := q.save(ctx, job); err != nil {
		return err
	}
	return q.client.LPush(ctx, job.Priority.QueueName(), job.ID).Err()
}

// ProcessScheduled moves due delayed jobs onto their priority lists. ZREM
// decides ownership so concurrent callers never move a job twice.
func (q *RedisQueue) ProcessScheduled(ctx context.Context) (int, error) {
	due, err := q.client.ZRangeByScore(ctx, keyScheduled, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(q.now().UnixMilli(), 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("read scheduled jobs: %w", err)
	}

	moved := 0
	for _, jobID := range due {
		removed, err := q.client.ZRem(ctx, keyScheduled, jobID).Result()
		if err != nil || removed == 0 {
			continue
		}

		job, err := q.GetJob(ctx, jobID)
		if err != nil {
			continue
		}
		job.ScheduledAt = nil
		job.Status = jobs.JobStatusPending
		if err := q.save(ctx, job); err != nil {
			continue
		}
		if err := q.client.LPush(ctx, job.Priority.QueueName(), job.ID).Err(); err != nil {
			continue
		}
		moved++
	}
	return moved, nil
}

// DeadJobs lists jobs in the dead letter list, newest first
func (q *RedisQueue) DeadJobs(ctx context.Context, limit int64) ([]*jobs.JobPayload, error) {
	ids, err := q.client.LRange(ctx, keyDead, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read dead jobs: %w", err)
	}

	out := make([]*jobs.JobPayload, 0, len(ids))
	for _, id := range ids {
		job, err := q.GetJob(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, job)
	}
	return out, nil
}

// RetryDead re-enqueues a dead job under a fresh ID with its attempts reset
func (q *RedisQueue) RetryDead(ctx context.Context, jobID string) error {
	job, err := q.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	removed, err := q.client.LRem(ctx, keyDead, 1, jobID).Result()
	if err != nil {
		return fmt.Errorf("remove from dead list: %w", err)
	}
	if removed == 0 {
		return jobs.ErrJobNotFound
	}

	job.ID = uuid.NewString()
	job.Status = jobs.JobStatusPending
	job.Attempts = 0
	job.LastError = ""
	job.ScheduledAt = nil
	job.StartedAt = nil
	return q.Enqueue(ctx, job)
}

// Stats returns queue depths and lifetime counters
func (q *RedisQueue) Stats(ctx context.Context) (jobs.QueueStats, error) {
	counters, err := q.client.HGetAll(ctx, keyStats).Result()
	if err != nil {
		return jobs.QueueStats{}, fmt.Errorf("read stats: %w", err)
	}

	stats := jobs.QueueStats{QueueSizes: make(map[string]int64, len(jobs.Priorities))}
	stats.Completed, _ = strconv.ParseInt(counters["completed_total"], 10, 64)
	stats.Failed, _ = strconv.ParseInt(counters["failed_total"], 10, 64)

	for _, p := range jobs.Priorities {
		size, err := q.client.LLen(ctx, p.QueueName()).Result()
		if err != nil {
			return jobs.QueueStats{}, fmt.Errorf("read queue size: %w", err)
		}
		stats.QueueSizes[p.String()] = size
		stats.Pending += size
	}
	if stats.Scheduled, err = q.client.ZCard(ctx, keyScheduled).Result(); err != nil {
		return jobs.QueueStats{}, fmt.Errorf("read scheduled size: %w", err)
	}
	if stats.Dead, err = q.client.LLen(ctx, keyDead).Result(); err != nil {
		return jobs.QueueStats{}, fmt.Errorf("read dead size: %w", err)
	}
	return stats, nil
}
