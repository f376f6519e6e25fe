package recur

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskflow/eventcore/internal/domain"
)

// PGStore implements Store against pgx/v5: one struct wrapping a pool, one
// method per operation.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) GetActiveRule(ctx context.Context, taskID string) (*domain.RecurrenceRule, error) {
	var rule domain.RecurrenceRule
	err := s.pool.QueryRow(ctx,
		`SELECT id, task_id, frequency, interval, cron_expression, next_due_at, is_active, created_at, updated_at
		 FROM recurrence_rules WHERE task_id = $1 AND is_active`,
		taskID,
	).Scan(&rule.ID, &rule.TaskID, &rule.Frequency, &rule.Interval, &rule.CronExpression,
		&rule.NextDueAt, &rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get active rule for task %s: %w", taskID, err)
	}
	return &rule, nil
}

func (s *PGStore) SpawnNext(ctx context.Context, rule domain.RecurrenceRule, newTask *domain.Task, nextDueAt time.Time) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin spawn tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op once Commit succeeds

	_, err = tx.Exec(ctx,
		`INSERT INTO tasks (id, user_id, title, description, is_complete, priority, due_date, category_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, false, $5, $6, $7, $8, $8)`,
		newTask.ID, newTask.UserID, newTask.Title, newTask.Description, newTask.Priority,
		newTask.DueDate, newTask.CategoryID, newTask.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert spawned task: %w", err)
	}

	now := time.Now().UTC()
	tag, err := tx.Exec(ctx,
		`UPDATE recurrence_rules SET next_due_at = $1, updated_at = $2 WHERE id = $3 AND is_active`,
		nextDueAt, now, rule.ID,
	)
	if err != nil {
		return fmt.Errorf("advance recurrence rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("recurrence rule %s was deactivated concurrently: %w", rule.ID, domain.ErrConflict)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit spawn tx: %w", err)
	}
	return nil
}
