package derived

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taskflow/eventcore/internal/consumer"
	"github.com/taskflow/eventcore/internal/event"
	"github.com/taskflow/eventcore/internal/pubsub"
	"github.com/taskflow/eventcore/internal/statestore"
)

// AuditLogsTopic is where Handler mirrors every mutation.
const AuditLogsTopic = "audit-logs"

// TaskCacheTTL / CompletedCacheTTL bound how long the derived-state cache
// entries live.
const (
	TaskCacheTTL      = time.Hour
	CompletedCacheTTL = 24 * time.Hour
)

// completedMarker is the value written at task:completed:<id>.
type completedMarker struct {
	CompletedAt time.Time `json:"completed_at"`
	UserID      string    `json:"user_id"`
}

// Handler keeps the task:<id> read-through cache in sync with task-events
// and mirrors every mutation onto audit-logs.
type Handler struct {
	state  statestore.Store
	pub    pubsub.Publisher
	logger *zap.Logger
	now    func() time.Time
}

func NewHandler(state statestore.Store, pub pubsub.Publisher, logger *zap.Logger) *Handler {
	return &Handler{state: state, pub: pub, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Handle updates the derived-state cache for ev and always mirrors it onto
// audit-logs. Cache writes are best-effort: a failure there still emits the
// audit entry and acks, since readers must tolerate a cache miss and the
// audit trail is the durable record of what happened.
func (h *Handler) Handle(ctx context.Context, ev event.TaskEvent) consumer.Outcome {
	log := h.logger.With(zap.String("task_id", ev.TaskID), zap.String("event_type", ev.Type))

	if err := h.updateCache(ctx, ev); err != nil {
		log.Error("derived cache update failed", zap.Error(err))
	}

	action := auditAction(ev.Type)
	entry := event.NewAuditEntry("task", ev.TaskID, ev.UserID, action)
	entry.Timestamp = h.now()
	if err := h.pub.Publish(ctx, AuditLogsTopic, entry, nil); err != nil {
		log.Error("failed to publish audit entry, requesting redelivery", zap.Error(err))
		return consumer.Nack
	}
	return consumer.Ack
}

func (h *Handler) updateCache(ctx context.Context, ev event.TaskEvent) error {
	taskKey := statestore.TaskKey(ev.TaskID)
	completedKey := statestore.TaskCompletedKey(ev.TaskID)

	switch ev.Type {
	case event.TaskCreated, event.TaskUpdated:
		return h.state.Set(ctx, taskKey, ev.TaskData, TaskCacheTTL)
	case event.TaskCompleted:
		if err := h.state.Set(ctx, taskKey, ev.TaskData, TaskCacheTTL); err != nil {
			return err
		}
		return h.state.Set(ctx, completedKey, completedMarker{CompletedAt: h.now(), UserID: ev.UserID}, CompletedCacheTTL)
	case event.TaskDeleted:
		if err := h.state.Delete(ctx, taskKey); err != nil {
			return err
		}
		return h.state.Delete(ctx, completedKey)
	default:
		return nil
	}
}

func auditAction(eventType string) string {
	switch eventType {
	case event.TaskCreated:
		return "created"
	case event.TaskUpdated:
		return "updated"
	case event.TaskCompleted:
		return "completed"
	case event.TaskDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}
