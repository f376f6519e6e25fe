package recur

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskflow/eventcore/internal/consumer"
	"github.com/taskflow/eventcore/internal/domain"
	"github.com/taskflow/eventcore/internal/event"
	"github.com/taskflow/eventcore/internal/metrics"
	"github.com/taskflow/eventcore/internal/publisher"
	"github.com/taskflow/eventcore/internal/recurrence"
	"github.com/taskflow/eventcore/internal/statestore"
)

// ProcessingTTL is how long the dedup marker survives — long enough to
// absorb broker redelivery storms, short enough not to wedge a task that
// legitimately completes again after a failed attempt ages out.
const ProcessingTTL = time.Hour

// Handler spawns the next occurrence of a recurring task when its current
// instance is completed.
type Handler struct {
	store     Store
	state     statestore.Store
	publisher *publisher.TaskPublisher
	logger    *zap.Logger
	now       func() time.Time
	metrics   *metrics.Metrics
}

func NewHandler(store Store, state statestore.Store, pub *publisher.TaskPublisher, logger *zap.Logger) *Handler {
	return &Handler{store: store, state: state, publisher: pub, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// SetMetrics attaches the shared Prometheus instruments. Unset, spawned
// occurrences are simply not counted.
func (h *Handler) SetMetrics(m *metrics.Metrics) {
	h.metrics = m
}

// Handle processes one task.completed event. The task-events route delivers
// every task event type; Handle acks the non-completed ones without doing
// anything.
func (h *Handler) Handle(ctx context.Context, ev event.TaskEvent) consumer.Outcome {
	if ev.Type != event.TaskCompleted {
		return consumer.Ack
	}
	log := h.logger.With(zap.String("task_id", ev.TaskID))

	// Step 1: dedup against a prior successful processing of this task id.
	var prior domain.RecurringProcessingState
	if err := h.state.Get(ctx, statestore.RecurringProcessingKey(ev.TaskID), &prior); err == nil {
		if prior.Status == domain.RecurringCompleted {
			log.Info("recurring completion already processed, acking duplicate")
			return consumer.Ack
		}
	} else if !errors.Is(err, statestore.ErrNotFound) {
		log.Error("dedup lookup failed", zap.Error(err))
		return consumer.Nack
	}

	// Step 2: mark processing.
	if err := h.markState(ctx, ev.TaskID, domain.RecurringProcessing, nil, nil); err != nil {
		log.Error("failed to write processing marker", zap.Error(err))
		return consumer.Nack
	}

	// Step 3: load the active rule.
	rule, err := h.store.GetActiveRule(ctx, ev.TaskID)
	if errors.Is(err, domain.ErrNotFound) {
		log.Info("task has no active recurrence rule, nothing to spawn")
		if err := h.markState(ctx, ev.TaskID, domain.RecurringCompleted, nil, nil); err != nil {
			log.Error("failed to write completed marker", zap.Error(err))
			return consumer.Nack
		}
		return consumer.Ack
	}
	if err != nil {
		log.Error("rule lookup failed", zap.Error(err))
		h.markFailed(ctx, ev.TaskID, err, log)
		return consumer.Nack
	}

	// Step 4: compute the next occurrence.
	nextDueAt, err := recurrence.Next(*rule, h.now())
	if err != nil {
		log.Error("failed to compute next occurrence", zap.Error(err))
		h.markFailed(ctx, ev.TaskID, err, log)
		return consumer.AckBadEvent
	}

	// Steps 5-6: atomically spawn the new task row and advance the rule.
	newTask := &domain.Task{
		ID:          uuid.NewString(),
		UserID:      ev.TaskData.UserID,
		Title:       ev.TaskData.Title,
		Description: ev.TaskData.Description,
		IsComplete:  false,
		Priority:    ev.TaskData.Priority,
		CategoryID:  ev.TaskData.CategoryID,
		CreatedAt:   h.now(),
		UpdatedAt:   h.now(),
	}
	if err := h.store.SpawnNext(ctx, *rule, newTask, nextDueAt); err != nil {
		log.Error("failed to spawn next occurrence", zap.Error(err))
		h.markFailed(ctx, ev.TaskID, err, log)
		return consumer.Nack
	}

	// Step 7: publish task.created for the spawned task.
	h.publisher.PublishMutation(ctx, nil, newTask)

	// Step 8: mark completed with the spawned task id.
	if err := h.markState(ctx, ev.TaskID, domain.RecurringCompleted, &newTask.ID, nil); err != nil {
		log.Error("failed to write completed marker", zap.Error(err))
		return consumer.Nack
	}

	if h.metrics != nil {
		h.metrics.RecurringSpawned.Inc()
	}

	log.Info("spawned next recurring task instance",
		zap.String("new_task_id", newTask.ID),
		zap.Time("next_due_at", nextDueAt),
	)
	return consumer.Ack
}

func (h *Handler) markState(ctx context.Context, taskID string, status domain.RecurringProcessingStatus, nextTaskID *string, errMsg *string) error {
	return h.state.Set(ctx, statestore.RecurringProcessingKey(taskID), domain.RecurringProcessingState{
		TaskID:       taskID,
		Status:       status,
		NextTaskID:   nextTaskID,
		UpdatedAt:    h.now(),
		ErrorMessage: errMsg,
	}, ProcessingTTL)
}

func (h *Handler) markFailed(ctx context.Context, taskID string, cause error, log *zap.Logger) {
	msg := cause.Error()
	if err := h.markState(ctx, taskID, domain.RecurringFailed, nil, &msg); err != nil {
		log.Error("failed to write failed marker", zap.Error(err))
	}
}
