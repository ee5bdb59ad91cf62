// Package handler registers typed job handlers on the worker pool.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/jobs/worker"
)

// HandlerFunc handles a decoded payload
type HandlerFunc[T any] func(ctx context.Context, payload T) error

// Registry tracks which job types have handlers
type Registry struct {
	pool   *worker.WorkerPool
	logger *zap.Logger

	mu    sync.RWMutex
	types map[string]string
}

// NewRegistry creates a registry over pool
func NewRegistry(pool *worker.WorkerPool, logger *zap.Logger) *Registry {
	return &Registry{
		pool:   pool,
		logger: logger,
		types:  make(map[string]string),
	}
}

// Register decodes the JSON payload into T before calling handler
func Register[T any](r *Registry, jobType string, handler HandlerFunc[T]) {
	var zero T
	typeName := fmt.Sprintf("%T", zero)

	r.mu.Lock()
	r.types[jobType] = typeName
	r.mu.Unlock()

	r.pool.RegisterHandler(jobType, func(ctx context.Context, data []byte) error {
		var payload T
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("decode %s payload: %w", jobType, err)
		}
		return handler(ctx, payload)
	})
	r.logger.Debug("Registered typed job handler",
		zap.String("job_type", jobType),
		zap.String("payload_type", typeName),
	)
}

// JobTypes lists registered job types in order
func (r *Registry) JobTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.types))
	for k := range r.types {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
