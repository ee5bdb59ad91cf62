package activation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fithub/fithub-onboarding/internal/config"
	"github.com/fithub/fithub-onboarding/internal/resilience"
)

// KafkaBreaker names the circuit breaker around the activation topic
const KafkaBreaker = "kafka-activation"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to the activation topic, keyed by
// application ID so every event of one application lands on one partition
type KafkaPublisher struct {
	writer  messageWriter
	breaker *resilience.CircuitBreaker
	retry   resilience.RetryConfig
	logger  *zap.Logger
}

// NewKafkaPublisher creates a publisher with its own writer
func NewKafkaPublisher(cfg config.KafkaConfig, breakers *resilience.CircuitBreakerRegistry, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		BatchTimeout:           cfg.BatchTimeout,
		WriteTimeout:           cfg.WriteTimeout,
		AllowAutoTopicCreation: true,
		Transport:              &kafka.Transport{ClientID: cfg.ClientID},
	}
	return newKafkaPublisher(writer, breakers.Get(KafkaBreaker), resilience.DefaultRetryConfig(), logger)
}

func newKafkaPublisher(w messageWriter, breaker *resilience.CircuitBreaker, retry resilience.RetryConfig, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer:  w,
		breaker: breaker,
		retry:   retry,
		logger:  logger.Named("activation.kafka"),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode activation event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.Key()),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(JobTypeActivate)},
			{Key: "event-id", Value: []byte(ev.EventID)},
		},
	}

	err = resilience.Retry(ctx, p.retry, func(ctx context.Context) error {
		return p.breaker.Execute(ctx, func(ctx context.Context) error {
			return p.writer.WriteMessages(ctx, msg)
		})
	})
	if err != nil {
		p.logger.Warn("failed to write activation event",
			zap.Uint("application_id", ev.ApplicationID),
			zap.Error(err),
		)
		return err
	}
	p.logger.Debug("activation event written", zap.Uint("application_id", ev.ApplicationID))
	return nil
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
