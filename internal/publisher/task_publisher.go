package publisher

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taskflow/eventcore/internal/domain"
	"github.com/taskflow/eventcore/internal/event"
)

// TaskEventsTopic is the single topic task events publish to: types
// task.created, task.updated, task.completed, task.deleted, partitioned by
// task_id.
const TaskEventsTopic = "task-events"

// TaskPublisher derives task-lifecycle events from a before/after pair and
// enqueues them for background publish — the API path enqueues and returns
// immediately, a background worker queue drains to the broker.
type TaskPublisher struct {
	q       *Queue
	enabled bool
	logger  *zap.Logger
}

// NewTaskPublisher builds a TaskPublisher. When enabled is false (the
// EVENT_PUBLISHING_ENABLED=false case) every method becomes a no-op.
func NewTaskPublisher(q *Queue, enabled bool, logger *zap.Logger) *TaskPublisher {
	return &TaskPublisher{q: q, enabled: enabled, logger: logger}
}

// PublishMutation derives the task-events to emit for a create or update:
//
//	old == nil                        -> task.created
//	is_complete transitions false->true -> task.updated THEN task.completed
//	any other field change             -> task.updated
//
// It never returns an error: enqueue failures (the queue is saturated) are
// logged and dropped. A publish failure must never roll back the mutation
// that triggered it.
func (p *TaskPublisher) PublishMutation(ctx context.Context, old, new *domain.Task) {
	if !p.enabled || new == nil {
		return
	}

	now := time.Now().UTC()
	switch {
	case old == nil:
		p.enqueue(ctx, event.TaskCreated, new, now, PriorityNormal)
	case !old.IsComplete && new.IsComplete:
		// Both events of the pair go to the high tier so the FIFO channel
		// keeps task.updated ahead of task.completed.
		p.enqueue(ctx, event.TaskUpdated, new, now, PriorityHigh)
		p.enqueue(ctx, event.TaskCompleted, new, now, PriorityHigh)
	default:
		p.enqueue(ctx, event.TaskUpdated, new, now, PriorityNormal)
	}
}

// PublishDeletion emits task.deleted for a task that has just been removed.
func (p *TaskPublisher) PublishDeletion(ctx context.Context, deleted *domain.Task) {
	if !p.enabled || deleted == nil {
		return
	}
	p.enqueue(ctx, event.TaskDeleted, deleted, time.Now().UTC(), PriorityNormal)
}

func (p *TaskPublisher) enqueue(ctx context.Context, eventType string, task *domain.Task, ts time.Time, priority Priority) {
	payload := event.TaskEvent{
		Type:      eventType,
		TaskID:    task.ID,
		TaskData:  event.SnapshotFromTask(task),
		UserID:    task.UserID,
		Timestamp: ts,
	}

	job := Job{
		Topic:    TaskEventsTopic,
		Payload:  payload,
		Priority: priority,
	}

	if err := p.q.Enqueue(job); err != nil {
		p.logger.Warn("dropping task event, publish queue is full",
			zap.String("event_type", eventType),
			zap.String("task_id", task.ID),
			zap.Error(err),
		)
	}
}
