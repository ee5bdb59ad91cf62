package resilience

import (
	"sync"

	"go.uber.org/zap"
)

// CircuitBreakerRegistry hands out named circuit breakers
type CircuitBreakerRegistry struct {
	logger *zap.Logger

	// OnStateChange is installed on every breaker the registry creates
	OnStateChange func(name string, from, to State)

	mu       sync.RWMutex
	breakers map[string]*CircuitBreaker
	configs  map[string]CircuitBreakerConfig
}

// NewCircuitBreakerRegistry creates an empty registry
func NewCircuitBreakerRegistry(logger *zap.Logger) *CircuitBreakerRegistry {
	return &CircuitBreakerRegistry{
		logger:   logger,
		breakers: make(map[string]*CircuitBreaker),
		configs:  make(map[string]CircuitBreakerConfig),
	}
}

// RegisterConfig sets the configuration used when the named breaker is
// first requested
func (r *CircuitBreakerRegistry) RegisterConfig(config CircuitBreakerConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[config.Name] = config
}

// Get returns the named breaker, creating it on first use
func (r *CircuitBreakerRegistry) Get(name string) *CircuitBreaker {
	r.mu.RLock()
	cb, ok := r.breakers[name]
	r.mu.RUnlock()
	if ok {
		return cb
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cb, ok := r.breakers[name]; ok {
		return cb
	}

	config, ok := r.configs[name]
	if !ok {
		config = DefaultCircuitBreakerConfig(name)
	}
	cb = NewCircuitBreaker(config, r.logger)
	cb.OnStateChange = r.OnStateChange
	r.breakers[name] = cb
	return cb
}

// Snapshot returns the metrics of every breaker
func (r *CircuitBreakerRegistry) Snapshot() map[string]CircuitBreakerMetrics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]CircuitBreakerMetrics, len(r.breakers))
	for name, cb := range r.breakers {
		out[name] = cb.Metrics()
	}
	return out
}

// AnyOpen reports whether some breaker is currently rejecting calls
func (r *CircuitBreakerRegistry) AnyOpen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cb := range r.breakers {
		if cb.State() == StateOpen {
			return true
		}
	}
	return false
}
