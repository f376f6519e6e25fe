package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/taskflow/eventcore/internal/event"
)

// RetryBackoff is the fixed publish retry schedule: one initial attempt
// plus up to 3 retries, waiting 100ms/400ms/1.6s before each retry.
var RetryBackoff = []time.Duration{100 * time.Millisecond, 400 * time.Millisecond, 1600 * time.Millisecond}

// KafkaPublisher publishes CloudEvents-wrapped payloads to Kafka topics.
// One kafka.Writer is created per topic on first use and cached — a
// long-lived value owned by the process root rather than a writer per
// publish call.
type KafkaPublisher struct {
	brokers []string
	source  string
	logger  *zap.Logger

	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

func NewKafkaPublisher(brokers []string, source string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		brokers: brokers,
		source:  source,
		logger:  logger,
		writers: make(map[string]*kafka.Writer),
	}
}

func (p *KafkaPublisher) writerFor(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(p.brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // keyed delivery: same entity id -> same partition
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	p.writers[topic] = w
	return w
}

// Publish wraps payload in a CloudEvents envelope and writes it to topic,
// keyed by payload.Key() for per-entity ordering. Retries up to 3 times
// with the backoff schedule in RetryBackoff; on final failure it
// logs and returns the error without panicking or blocking the caller's
// transaction — callers MUST treat publish as best-effort.
func (p *KafkaPublisher) Publish(ctx context.Context, topic string, payload event.Payload, metadata map[string]string) error {
	envelope, err := event.Wrap(p.source, payload)
	if err != nil {
		return fmt.Errorf("wrap event: %w", err)
	}
	for k, v := range metadata {
		if err := envelope.SetExtension(k, v); err != nil {
			p.logger.Warn("failed to set event metadata", zap.String("key", k), zap.Error(err))
		}
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(payload.Key()),
		Value: body,
	}

	var lastErr error
	writer := p.writerFor(topic)
	for attempt := 0; attempt <= len(RetryBackoff); attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(RetryBackoff[attempt-1]):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := writer.WriteMessages(ctx, msg); err != nil {
			lastErr = err
			p.logger.Warn("publish attempt failed",
				zap.String("topic", topic),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			continue
		}
		return nil
	}

	p.logger.Error("publish exhausted retries",
		zap.String("topic", topic),
		zap.String("event_type", payload.EventType()),
		zap.Error(lastErr),
	)
	return fmt.Errorf("publish to %s after %d attempts: %w", topic, len(RetryBackoff)+1, lastErr)
}

func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close writer for %s: %w", topic, err)
		}
	}
	return firstErr
}
