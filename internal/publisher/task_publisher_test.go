package publisher_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/taskflow/eventcore/internal/domain"
	"github.com/taskflow/eventcore/internal/event"
	"github.com/taskflow/eventcore/internal/publisher"
)

func drain(t *testing.T, q *publisher.Queue, ctx context.Context, n int) []publisher.Job {
	t.Helper()
	jobs := make([]publisher.Job, 0, n)
	for i := 0; i < n; i++ {
		j, ok := q.Dequeue(ctx)
		if !ok {
			t.Fatalf("expected %d jobs, only drained %d", n, i)
		}
		jobs = append(jobs, j)
	}
	return jobs
}

func TestTaskPublisher_Create_EmitsTaskCreated(t *testing.T) {
	q := publisher.NewQueue(10, 10)
	p := publisher.NewTaskPublisher(q, true, zap.NewNop())

	task := &domain.Task{ID: "t1", UserID: "u1", Title: "Standup"}
	p.PublishMutation(context.Background(), nil, task)

	jobs := drain(t, q, context.Background(), 1)
	ev := jobs[0].Payload.(event.TaskEvent)
	if ev.Type != event.TaskCreated {
		t.Fatalf("expected task.created, got %s", ev.Type)
	}
}

func TestTaskPublisher_CompletionTransition_EmitsUpdatedThenCompleted(t *testing.T) {
	q := publisher.NewQueue(10, 10)
	p := publisher.NewTaskPublisher(q, true, zap.NewNop())

	old := &domain.Task{ID: "t1", UserID: "u1", Title: "Standup", IsComplete: false}
	updated := &domain.Task{ID: "t1", UserID: "u1", Title: "Standup", IsComplete: true}
	p.PublishMutation(context.Background(), old, updated)

	jobs := drain(t, q, context.Background(), 2)
	first := jobs[0].Payload.(event.TaskEvent)
	second := jobs[1].Payload.(event.TaskEvent)
	if first.Type != event.TaskUpdated {
		t.Fatalf("expected task.updated first, got %s", first.Type)
	}
	if second.Type != event.TaskCompleted {
		t.Fatalf("expected task.completed second, got %s", second.Type)
	}
}

func TestTaskPublisher_FieldChange_EmitsTaskUpdatedOnly(t *testing.T) {
	q := publisher.NewQueue(10, 10)
	p := publisher.NewTaskPublisher(q, true, zap.NewNop())

	old := &domain.Task{ID: "t1", UserID: "u1", Title: "Standup"}
	updated := &domain.Task{ID: "t1", UserID: "u1", Title: "Daily standup"}
	p.PublishMutation(context.Background(), old, updated)

	jobs := drain(t, q, context.Background(), 1)
	ev := jobs[0].Payload.(event.TaskEvent)
	if ev.Type != event.TaskUpdated {
		t.Fatalf("expected task.updated, got %s", ev.Type)
	}
}

func TestTaskPublisher_Deletion_EmitsTaskDeleted(t *testing.T) {
	q := publisher.NewQueue(10, 10)
	p := publisher.NewTaskPublisher(q, true, zap.NewNop())

	task := &domain.Task{ID: "t1", UserID: "u1", Title: "Standup"}
	p.PublishDeletion(context.Background(), task)

	jobs := drain(t, q, context.Background(), 1)
	ev := jobs[0].Payload.(event.TaskEvent)
	if ev.Type != event.TaskDeleted {
		t.Fatalf("expected task.deleted, got %s", ev.Type)
	}
}

func TestTaskPublisher_Disabled_IsNoOp(t *testing.T) {
	q := publisher.NewQueue(10, 10)
	p := publisher.NewTaskPublisher(q, false, zap.NewNop())

	p.PublishMutation(context.Background(), nil, &domain.Task{ID: "t1"})
	p.PublishDeletion(context.Background(), &domain.Task{ID: "t1"})

	high, normal := q.Depths()
	if high != 0 || normal != 0 {
		t.Fatalf("expected no jobs enqueued when disabled, got high=%d normal=%d", high, normal)
	}
}

func TestTaskPublisher_QueueFull_DoesNotPanicOrError(t *testing.T) {
	q := publisher.NewQueue(1, 1)
	p := publisher.NewTaskPublisher(q, true, zap.NewNop())

	task := &domain.Task{ID: "t1", UserID: "u1"}
	start := time.Now()
	p.PublishDeletion(context.Background(), task) // fills the single normal slot
	p.PublishDeletion(context.Background(), task) // must be dropped silently, not panic or block
	if time.Since(start) > time.Second {
		t.Fatal("PublishDeletion must not block")
	}

	_, normal := q.Depths()
	if normal != 1 {
		t.Fatalf("expected exactly one retained job, got normal=%d", normal)
	}
}
