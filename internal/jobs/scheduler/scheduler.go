// Package scheduler enqueues recurring jobs on cron schedules. Only the
// instance holding the Redis leader key fires, so running several worker
// processes does not multiply the jobs.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/jobs"
)

const leaderKey = jobs.KeyPrefix + "scheduler:leader"

// acquire or renew leadership in one round trip
var leaderScript = redis.NewScript(`
local cur = redis.call("get", KEYS[1])
if not cur then
	redis.call("set", KEYS[1], ARGV[1], "PX", ARGV[2])
	return 1
end
if cur == ARGV[1] then
	redis.call("pexpire", KEYS[1], ARGV[2])
	return 1
end
return 0`)

var resignScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

// Config holds scheduler settings
type Config struct {
	LeaderLockTTL time.Duration
}

// DefaultConfig returns scheduler defaults
func DefaultConfig() Config {
	return Config{LeaderLockTTL: 30 * time.Second}
}

// ScheduledJob is a job type enqueued on a cron schedule. Schedule accepts
// five-field cron expressions and descriptors such as "@every 30s".
type ScheduledJob struct {
	Name     string
	Schedule string
	JobType  string
	Payload  any
	Priority jobs.Priority
	Timeout  time.Duration
}

// uniqueKey keeps at most one instance of the job queued or running
func (j ScheduledJob) uniqueKey() string {
	return "cron:" + j.Name
}

// JobInfo describes a registered job
type JobInfo struct {
	Name     string    `json:"name"`
	Schedule string    `json:"schedule"`
	JobType  string    `json:"job_type"`
	Priority string    `json:"priority"`
	NextRun  time.Time `json:"next_run"`
}

// Scheduler manages cron-based job scheduling with leader election
type Scheduler struct {
	redis      *redis.Client
	queue      jobs.Queue
	logger     *zap.Logger
	config     Config
	instanceID string

	cron      *cron.Cron
	mu        sync.RWMutex
	scheduled map[string]ScheduledJob
	entries   map[string]cron.EntryID

	leader   bool
	leaderMu sync.RWMutex

	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler
func NewScheduler(client *redis.Client, q jobs.Queue, logger *zap.Logger, config Config) *Scheduler {
	if config.LeaderLockTTL <= 0 {
		config.LeaderLockTTL = DefaultConfig().LeaderLockTTL
	}
	return &Scheduler{
		redis:      client,
		queue:      q,
		logger:     logger,
		config:     config,
		instanceID: uuid.NewString(),
		cron:       cron.New(),
		scheduled:  make(map[string]ScheduledJob),
		entries:    make(map[string]cron.EntryID),
	}
}

// RegisterJob validates the schedule and adds the job
func (s *Scheduler) RegisterJob(job ScheduledJob) error {
	if job.Name == "" || job.JobType == "" {
		return errors.New("scheduled job needs a name and a job type")
	}
	if _, err := cron.ParseStandard(job.Schedule); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", job.Schedule, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.scheduled[job.Name]; exists {
		return fmt.Errorf("job %s already registered", job.Name)
	}
	id, err := s.cron.AddFunc(job.Schedule, func() {
		s.Fire(context.Background(), job.Name)
	})
	if err != nil {
		return fmt.Errorf("add cron entry: %w", err)
	}

	s.scheduled[job.Name] = job
	s.entries[job.Name] = id
	s.logger.Info("Registered scheduled job",
		zap.String("name", job.Name),
		zap.String("schedule", job.Schedule),
		zap.String("job_type", job.JobType),
	)
	return nil
}

// Start begins leader election and the cron loop
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.mu.Unlock()

	s.logger.Info("Starting scheduler", zap.String("instance_id", s.instanceID))

	s.campaign(runCtx)
	s.wg.Add(1)
	go s.electionLoop(runCtx)
	s.cron.Start()
	return nil
}

// Stop halts the cron loop and gives up leadership
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Stopping scheduler")
	cronDone := s.cron.Stop()
	select {
	case <-cronDone.Done():
	case <-ctx.Done():
	}

	s.cancel()
	s.wg.Wait()
	s.resign(context.WithoutCancel(ctx))
	return nil
}

// Fire enqueues one run of the named job if this instance leads. A run that
// is still queued or executing makes the new one a no-op.
func (s *Scheduler) Fire(ctx context.Context, name string) {
	s.mu.RLock()
	job, ok := s.scheduled[name]
	s.mu.RUnlock()
	if !ok {
		return
	}

	if !s.IsLeader() {
		s.logger.Debug("Not leader, skipping scheduled job", zap.String("name", name))
		return
	}

	opts := []jobs.JobOption{
		jobs.WithPriority(job.Priority),
		jobs.WithUniqueKey(job.uniqueKey()),
		// a missed run is picked up by the next tick
		jobs.WithRetryPolicy(jobs.RetryPolicy{MaxRetries: 0}),
	}
	if job.Timeout > 0 {
		opts = append(opts, jobs.WithTimeout(job.Timeout))
	}

	payload, err := jobs.NewJobPayload(job.JobType, job.Payload, opts...)
	if err != nil {
		s.logger.Error("Failed to build scheduled job", zap.String("name", name), zap.Error(err))
		return
	}

	if err := s.queue.Enqueue(ctx, payload); err != nil {
		if errors.Is(err, jobs.ErrDuplicateJob) {
			s.logger.Debug("Previous run still pending", zap.String("name", name))
			return
		}
		s.logger.Error("Failed to enqueue scheduled job", zap.String("name", name), zap.Error(err))
		return
	}
	s.logger.Debug("Scheduled job enqueued",
		zap.String("name", name),
		zap.String("job_id", payload.ID),
	)
}

func (s *Scheduler) electionLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.LeaderLockTTL / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.campaign(ctx)
		}
	}
}

// campaign acquires or renews the leader key
func (s *Scheduler) campaign(ctx context.Context) {
	won, err := leaderScript.Run(ctx, s.redis, []string{leaderKey},
		s.instanceID, s.config.LeaderLockTTL.Milliseconds()).Int()
	if err != nil && ctx.Err() == nil {
		s.logger.Error("Leader election failed", zap.Error(err))
	}
	s.setLeader(err == nil && won == 1)
}

func (s *Scheduler) resign(ctx context.Context) {
	if !s.IsLeader() {
		return
	}
	if err := resignScript.Run(ctx, s.redis, []string{leaderKey}, s.instanceID).Err(); err != nil && !errors.Is(err, redis.Nil) {
		s.logger.Warn("Failed to release leadership", zap.Error(err))
	}
	s.setLeader(false)
	s.logger.Info("Released scheduler leadership", zap.String("instance_id", s.instanceID))
}

func (s *Scheduler) setLeader(leader bool) {
	s.leaderMu.Lock()
	defer s.leaderMu.Unlock()
	if leader != s.leader {
		if leader {
			s.logger.Info("Acquired scheduler leadership", zap.String("instance_id", s.instanceID))
		} else {
			s.logger.Info("Lost scheduler leadership", zap.String("instance_id", s.instanceID))
		}
	}
	s.leader = leader
}

// IsLeader reports whether this instance currently fires jobs
func (s *Scheduler) IsLeader() bool {
	s.leaderMu.RLock()
	defer s.leaderMu.RUnlock()
	return s.leader
}

// ListJobs returns the registered jobs sorted by name
func (s *Scheduler) ListJobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobInfo, 0, len(s.scheduled))
	for name, job := range s.scheduled {
		info := JobInfo{
			Name:     name,
			Schedule: job.Schedule,
			JobType:  job.JobType,
			Priority: job.Priority.String(),
		}
		if sched, err := cron.ParseStandard(job.Schedule); err == nil {
			info.NextRun = sched.Next(time.Now())
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
