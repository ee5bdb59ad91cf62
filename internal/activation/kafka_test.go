package activation

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fithub/fithub-onboarding/internal/resilience"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	failures int
	calls    int
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.failures > 0 {
		w.failures--
		return errors.New("broker not available")
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func newTestKafkaPublisher(t *testing.T, w *fakeWriter, threshold int) (*KafkaPublisher, *resilience.CircuitBreaker) {
	t.Helper()
	cfg := resilience.DefaultCircuitBreakerConfig(KafkaBreaker)
	cfg.FailureThreshold = threshold
	breaker := resilience.NewCircuitBreaker(cfg, zaptest.NewLogger(t))
	return newKafkaPublisher(w, breaker, fastRetry(), zaptest.NewLogger(t)), breaker
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	pub, _ := newTestKafkaPublisher(t, w, 5)
	ev := Event{EventID: "evt-1", ApplicationID: 7, Email: "meera@example.com"}

	require.NoError(t, pub.Publish(context.Background(), ev))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, "trainer-activation:7", string(msg.Key))
	assert.Equal(t, []kafka.Header{
		{Key: "event-type", Value: []byte(JobTypeActivate)},
		{Key: "event-id", Value: []byte("evt-1")},
	}, msg.Headers)

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, ev.Email, decoded.Email)

	require.NoError(t, pub.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_RetriesTransientFailure(t *testing.T) {
	w := &fakeWriter{failures: 2}
	pub, _ := newTestKafkaPublisher(t, w, 5)

	require.NoError(t, pub.Publish(context.Background(), Event{ApplicationID: 1}))
	assert.Equal(t, 3, w.calls)
	assert.Len(t, w.messages, 1)
}

func TestKafkaPublisher_OpenCircuitStopsWrites(t *testing.T) {
	w := &fakeWriter{failures: 100}
	pub, breaker := newTestKafkaPublisher(t, w, 2)

	err := pub.Publish(context.Background(), Event{ApplicationID: 1})
	require.Error(t, err)
	assert.Equal(t, resilience.StateOpen, breaker.State())

	calls := w.calls
	err = pub.Publish(context.Background(), Event{ApplicationID: 1})
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, calls, w.calls)
}
