package pubsub

import (
	"context"
	"sync"

	"github.com/taskflow/eventcore/internal/event"
)

// Published records one call to FakePublisher.Publish for test assertions.
type Published struct {
	Topic    string
	Payload  event.Payload
	Metadata map[string]string
}

// FakePublisher is a hand-written, in-memory Publisher used in unit tests —
// no mocking framework needed for a single-method interface.
type FakePublisher struct {
	mu        sync.Mutex
	published []Published

	// FailTopics, if set, makes Publish return PublishErr for matching topics.
	FailTopics map[string]bool
	PublishErr error
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{FailTopics: map[string]bool{}}
}

func (f *FakePublisher) Publish(_ context.Context, topic string, payload event.Payload, metadata map[string]string) error {
	if f.FailTopics[topic] {
		if f.PublishErr != nil {
			return f.PublishErr
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, Published{Topic: topic, Payload: payload, Metadata: metadata})
	return nil
}

func (f *FakePublisher) Close() error { return nil }

func (f *FakePublisher) Published() []Published {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Published, len(f.published))
	copy(out, f.published)
	return out
}

func (f *FakePublisher) CountForTopic(topic string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.published {
		if p.Topic == topic {
			n++
		}
	}
	return n
}
