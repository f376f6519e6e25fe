package pubsub

import (
	"context"

	"github.com/taskflow/eventcore/internal/event"
)

// Subscription describes one route the broker should drive, surfaced by
// each worker's GET /dapr/subscribe endpoint.
type Subscription struct {
	PubsubName string `json:"pubsubname"`
	Topic      string `json:"topic"`
	Route      string `json:"route"`
}

// Publisher wraps payload in a CloudEvents envelope and delivers it to a
// named topic on the named pub/sub component. Publish returns only once the
// broker has accepted the message (an "acks=all" guarantee); on final retry
// failure it returns a non-nil error and the caller MUST NOT roll back the
// mutation that triggered it.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload event.Payload, metadata map[string]string) error
	Close() error
}
