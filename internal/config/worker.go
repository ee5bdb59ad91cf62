package config

import (
	"time"

	"github.com/spf13/viper"
)

// WorkerConfig controls the job pool. Enabled also runs the pool inside the
// API server; the worker binary always runs it.
type WorkerConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Concurrency     int           `mapstructure:"concurrency"`
	PollInterval    time.Duration `mapstructure:"poll_interval"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// StatusAddr serves health and metrics from the worker binary
	StatusAddr string `mapstructure:"status_addr"`
}

// SchedulerConfig controls the cron that enqueues activation sweeps. Only
// the replica holding the leader lock enqueues.
type SchedulerConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	LeaderLockTTL time.Duration `mapstructure:"leader_lock_ttl"`
}

const defaultWorkerConcurrency = 4

func setJobDefaults(v *viper.Viper) {
	v.SetDefault("worker.enabled", true)
	v.SetDefault("worker.concurrency", defaultWorkerConcurrency)
	v.SetDefault("worker.poll_interval", 200*time.Millisecond)
	v.SetDefault("worker.shutdown_timeout", 30*time.Second)
	v.SetDefault("worker.status_addr", ":9100")

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.leader_lock_ttl", 30*time.Second)
}
