package resilience

import (
	"sync"
	"time"
)

// RateLimiterConfig holds token bucket settings
type RateLimiterConfig struct {
	Rate   int           `mapstructure:"rate"`
	Period time.Duration `mapstructure:"period"`
	Burst  int           `mapstructure:"burst"`
}

// DefaultRateLimiterConfig allows 30 requests a minute with bursts of 10
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Rate:   30,
		Period: time.Minute,
		Burst:  10,
	}
}

type bucket struct {
	tokens float64
	last   time.Time
}

// KeyedLimiter keeps one token bucket per key, such as a client IP
type KeyedLimiter struct {
	max        float64
	refillRate float64 // tokens per nanosecond
	idleTTL    time.Duration
	now        func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
	sweptAt time.Time
}

// NewKeyedLimiter creates a limiter; zero fields fall back to defaults
func NewKeyedLimiter(config RateLimiterConfig) *KeyedLimiter {
	def := DefaultRateLimiterConfig()
	if config.Rate <= 0 {
		config.Rate = def.Rate
	}
	if config.Period <= 0 {
		config.Period = def.Period
	}
	if config.Burst <= 0 {
		config.Burst = def.Burst
	}
	rate := float64(config.Rate) / float64(config.Period.Nanoseconds())
	// an idle bucket is full again after this long, so dropping it is safe
	idle := time.Duration(float64(config.Burst) / rate)
	return &KeyedLimiter{
		max:        float64(config.Burst),
		refillRate: rate,
		idleTTL:    idle,
		now:        time.Now,
		buckets:    make(map[string]*bucket),
	}
}

// Allow takes one token from key's bucket
func (l *KeyedLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.max, last: now}
		l.buckets[key] = b
	}

	b.tokens += float64(now.Sub(b.last).Nanoseconds()) * l.refillRate
	if b.tokens > l.max {
		b.tokens = l.max
	}
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep drops buckets that have refilled completely
func (l *KeyedLimiter) sweep(now time.Time) {
	if now.Sub(l.sweptAt) < l.idleTTL {
		return
	}
	for k, b := range l.buckets {
		if now.Sub(b.last) >= l.idleTTL {
			delete(l.buckets, k)
		}
	}
	l.sweptAt = now
}

// Len returns the number of tracked keys
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
