package repository

import (
	"context"
	"time"

	"github.com/taskflow/eventcore/internal/domain"
)

// TaskFilter narrows List to one user's tasks, optionally by category or
// completion state.
type TaskFilter struct {
	UserID     string
	CategoryID *string
	IsComplete *bool
	Page       int
	Limit      int
}

// TaskRepository defines the persistence operations cmd/api needs for task
// CRUD. It is separate from internal/recur.Store, which only needs
// GetActiveRule/SpawnNext for the recurring-task worker.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	Get(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, int, error)
	Update(ctx context.Context, t *domain.Task) error
	Complete(ctx context.Context, id string, completedAt time.Time) (*domain.Task, error)
	Delete(ctx context.Context, id string) (*domain.Task, error)
}

// CategoryRepository defines the persistence operations cmd/api needs for
// task-category CRUD.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.TaskCategory) error
	ListByUser(ctx context.Context, userID string) ([]*domain.TaskCategory, error)
	Delete(ctx context.Context, id, userID string) error
}

// RecurrenceRepository defines the persistence operations cmd/api needs to
// create and inspect recurrence rules. internal/recur.Store covers the
// narrower spawn-next path the recurring-task worker drives off the same
// table.
type RecurrenceRepository interface {
	Create(ctx context.Context, r *domain.RecurrenceRule) error
	GetByTaskID(ctx context.Context, taskID string) (*domain.RecurrenceRule, error)
}
