package jobs

import "time"

// Job outcomes reported to Metrics
const (
	OutcomeCompleted = "completed"
	OutcomeRetried   = "retried"
	OutcomeDead      = "dead"
	OutcomeSkipped   = "skipped"
)

// Metrics receives job execution measurements
type Metrics interface {
	RecordJob(jobType, outcome string, duration time.Duration)
}

// NopMetrics discards measurements
type NopMetrics struct{}

func (NopMetrics) RecordJob(string, string, time.Duration) {}
