package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskflow/eventcore/internal/domain"
)

type pgRecurrenceRepository struct {
	pool *pgxpool.Pool
}

func NewPgRecurrenceRepository(pool *pgxpool.Pool) RecurrenceRepository {
	return &pgRecurrenceRepository{pool: pool}
}

func (r *pgRecurrenceRepository) Create(ctx context.Context, rule *domain.RecurrenceRule) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO recurrence_rules
			(id, task_id, frequency, interval, cron_expression, next_due_at,
			 is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		rule.ID, rule.TaskID, rule.Frequency, rule.Interval, rule.CronExpression,
		rule.NextDueAt, rule.IsActive, rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert recurrence rule: %w", err)
	}
	return nil
}

func (r *pgRecurrenceRepository) GetByTaskID(ctx context.Context, taskID string) (*domain.RecurrenceRule, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, task_id, frequency, interval, cron_expression, next_due_at,
		       is_active, created_at, updated_at
		FROM recurrence_rules WHERE task_id = $1 AND is_active`, taskID)

	var rule domain.RecurrenceRule
	err := row.Scan(&rule.ID, &rule.TaskID, &rule.Frequency, &rule.Interval, &rule.CronExpression,
		&rule.NextDueAt, &rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get recurrence rule: %w", err)
	}
	return &rule, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
