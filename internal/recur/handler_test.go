package recur_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/taskflow/eventcore/internal/consumer"
	"github.com/taskflow/eventcore/internal/domain"
	"github.com/taskflow/eventcore/internal/event"
	"github.com/taskflow/eventcore/internal/publisher"
	"github.com/taskflow/eventcore/internal/recur"
	"github.com/taskflow/eventcore/internal/statestore"
)

func newHandler(t *testing.T) (*recur.Handler, *recur.MemoryStore, *publisher.Queue) {
	t.Helper()
	store := recur.NewMemoryStore()
	state := statestore.NewMemoryStore()
	q := publisher.NewQueue(10, 10)
	pub := publisher.NewTaskPublisher(q, true, zap.NewNop())
	return recur.NewHandler(store, state, pub, zap.NewNop()), store, q
}

func completedEvent(taskID string) event.TaskEvent {
	return event.TaskEvent{
		Type:   event.TaskCompleted,
		TaskID: taskID,
		TaskData: event.TaskSnapshot{
			ID:       taskID,
			UserID:   "u1",
			Title:    "Standup",
			Priority: domain.PriorityMedium,
		},
		UserID:    "u1",
		Timestamp: time.Now().UTC(),
	}
}

// TestHandler_SpawnsNextOccurrence covers scenario S1: a weekly recurring
// task completion spawns exactly one new task and enqueues one task.created.
func TestHandler_SpawnsNextOccurrence(t *testing.T) {
	h, store, q := newHandler(t)
	base := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
	store.SeedRule(domain.RecurrenceRule{
		ID: "rule-1", TaskID: "T", Frequency: domain.FrequencyWeekly, Interval: 1,
		NextDueAt: base, IsActive: true,
	})

	outcome := h.Handle(context.Background(), completedEvent("T"))
	if outcome != consumer.Ack {
		t.Fatalf("expected Ack, got %s", outcome)
	}

	spawned := store.SpawnedTasks()
	if len(spawned) != 1 {
		t.Fatalf("expected exactly one spawned task, got %d", len(spawned))
	}
	if spawned[0].Title != "Standup" || spawned[0].UserID != "u1" || spawned[0].IsComplete {
		t.Fatalf("unexpected spawned task: %+v", spawned[0])
	}

	high, normal := q.Depths()
	if high+normal != 1 {
		t.Fatalf("expected exactly one task.created enqueued, got high=%d normal=%d", high, normal)
	}
}

// TestHandler_DedupByTaskID covers property 2: redelivery of the *same*
// underlying completion (same task id, already marked completed) must not
// spawn a second task.
func TestHandler_DedupByTaskID(t *testing.T) {
	h, store, _ := newHandler(t)
	store.SeedRule(domain.RecurrenceRule{
		ID: "rule-1", TaskID: "T", Frequency: domain.FrequencyDaily, Interval: 1,
		NextDueAt: time.Now().UTC(), IsActive: true,
	})

	first := h.Handle(context.Background(), completedEvent("T"))
	second := h.Handle(context.Background(), completedEvent("T"))

	if first != consumer.Ack || second != consumer.Ack {
		t.Fatalf("expected both deliveries to ack, got %s and %s", first, second)
	}
	if got := len(store.SpawnedTasks()); got != 1 {
		t.Fatalf("expected exactly one spawned task across redelivery, got %d", got)
	}
}

func TestHandler_NoActiveRule_AcksWithoutSpawning(t *testing.T) {
	h, store, _ := newHandler(t)
	// No rule seeded at all.
	outcome := h.Handle(context.Background(), completedEvent("T"))
	if outcome != consumer.Ack {
		t.Fatalf("expected Ack, got %s", outcome)
	}
	if got := len(store.SpawnedTasks()); got != 0 {
		t.Fatalf("expected no spawned tasks, got %d", got)
	}
}

func TestHandler_InactiveRule_AcksWithoutSpawning(t *testing.T) {
	h, store, _ := newHandler(t)
	store.SeedRule(domain.RecurrenceRule{
		ID: "rule-1", TaskID: "T", Frequency: domain.FrequencyDaily, Interval: 1,
		NextDueAt: time.Now().UTC(), IsActive: false,
	})
	outcome := h.Handle(context.Background(), completedEvent("T"))
	if outcome != consumer.Ack {
		t.Fatalf("expected Ack, got %s", outcome)
	}
	if got := len(store.SpawnedTasks()); got != 0 {
		t.Fatalf("expected no spawned tasks for an inactive rule, got %d", got)
	}
}

func TestHandler_IgnoresNonCompletedEvents(t *testing.T) {
	h, store, _ := newHandler(t)
	ev := completedEvent("T")
	ev.Type = event.TaskUpdated

	outcome := h.Handle(context.Background(), ev)
	if outcome != consumer.Ack {
		t.Fatalf("expected Ack for a filtered-out event type, got %s", outcome)
	}
	if got := len(store.SpawnedTasks()); got != 0 {
		t.Fatalf("expected no spawned tasks, got %d", got)
	}
}

func TestHandler_SpawnFailure_ReturnsNackForRedelivery(t *testing.T) {
	store := recur.NewMemoryStore()
	state := statestore.NewMemoryStore()
	q := publisher.NewQueue(10, 10)
	pub := publisher.NewTaskPublisher(q, true, zap.NewNop())
	h := recur.NewHandler(store, state, pub, zap.NewNop())

	store.SeedRule(domain.RecurrenceRule{
		ID: "rule-1", TaskID: "T", Frequency: domain.FrequencyDaily, Interval: 1,
		NextDueAt: time.Now().UTC(), IsActive: true,
	})
	store.SpawnErr = errTransient

	outcome := h.Handle(context.Background(), completedEvent("T"))
	if outcome != consumer.Nack {
		t.Fatalf("expected Nack on transient spawn failure, got %s", outcome)
	}
}

var errTransient = &transientErr{}

type transientErr struct{}

func (e *transientErr) Error() string { return "transient store failure" }
