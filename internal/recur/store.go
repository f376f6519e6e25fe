package recur

import (
	"context"
	"time"

	"github.com/taskflow/eventcore/internal/domain"
)

// Store is the persistence surface the recurring-task handler needs:
// reading the active recurrence rule for a completed task, and atomically
// spawning the next task instance while advancing the rule.
type Store interface {
	// GetActiveRule returns the active RecurrenceRule for taskID, or
	// domain.ErrNotFound if none exists or it has been deactivated.
	GetActiveRule(ctx context.Context, taskID string) (*domain.RecurrenceRule, error)

	// SpawnNext inserts newTask and updates rule's next_due_at in one
	// transaction: the rule must never advance without its successor task
	// existing, and vice versa.
	SpawnNext(ctx context.Context, rule domain.RecurrenceRule, newTask *domain.Task, nextDueAt time.Time) error
}
