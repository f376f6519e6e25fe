package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskflow/eventcore/internal/domain"
)

// PGRepository implements Repository against pgx/v5, following the
// teacher's internal/repository/pg_notification_repo.go: a thin struct
// wrapping a *pgxpool.Pool, one method per query, domain.ErrNotFound on
// pgx.ErrNoRows.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) Create(ctx context.Context, rem *domain.Reminder) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO reminders (id, task_id, remind_at, notification_type, is_sent, created_at)
		 VALUES ($1, $2, $3, $4, false, $5)`,
		rem.ID, rem.TaskID, rem.RemindAt, rem.NotificationType, rem.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert reminder: %w", err)
	}
	return nil
}

func (r *PGRepository) Get(ctx context.Context, id string) (*domain.Reminder, error) {
	var rem domain.Reminder
	err := r.pool.QueryRow(ctx,
		`SELECT id, task_id, remind_at, notification_type, is_sent, sent_at, created_at
		 FROM reminders WHERE id = $1`,
		id,
	).Scan(&rem.ID, &rem.TaskID, &rem.RemindAt, &rem.NotificationType, &rem.IsSent, &rem.SentAt, &rem.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get reminder %s: %w", id, err)
	}
	return &rem, nil
}

func (r *PGRepository) ListByTask(ctx context.Context, taskID string) ([]domain.Reminder, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, task_id, remind_at, notification_type, is_sent, sent_at, created_at
		 FROM reminders WHERE task_id = $1 ORDER BY remind_at`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reminders for task %s: %w", taskID, err)
	}
	defer rows.Close()

	var out []domain.Reminder
	for rows.Next() {
		var rem domain.Reminder
		if err := rows.Scan(&rem.ID, &rem.TaskID, &rem.RemindAt, &rem.NotificationType, &rem.IsSent, &rem.SentAt, &rem.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		out = append(out, rem)
	}
	return out, rows.Err()
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reminder %s: %w", id, err)
	}
	return nil
}

func (r *PGRepository) SweepDue(ctx context.Context, now time.Time, limit int, handle func(ctx context.Context, r domain.Reminder) bool) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin sweep tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op once Commit succeeds

	rows, err := tx.Query(ctx,
		`SELECT id, task_id, remind_at, notification_type, is_sent, sent_at, created_at
		 FROM reminders
		 WHERE remind_at <= $1 AND NOT is_sent
		 ORDER BY remind_at
		 FOR UPDATE SKIP LOCKED
		 LIMIT $2`,
		now, limit,
	)
	if err != nil {
		return 0, fmt.Errorf("select due reminders: %w", err)
	}

	var due []domain.Reminder
	for rows.Next() {
		var rem domain.Reminder
		if err := rows.Scan(&rem.ID, &rem.TaskID, &rem.RemindAt, &rem.NotificationType, &rem.IsSent, &rem.SentAt, &rem.CreatedAt); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan due reminder: %w", err)
		}
		due = append(due, rem)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate due reminders: %w", err)
	}

	sent := 0
	for _, rem := range due {
		if !handle(ctx, rem) {
			continue
		}
		tag, err := tx.Exec(ctx,
			`UPDATE reminders SET is_sent = true, sent_at = now() WHERE id = $1 AND NOT is_sent`,
			rem.ID,
		)
		if err != nil {
			return sent, fmt.Errorf("mark reminder %s sent: %w", rem.ID, err)
		}
		if tag.RowsAffected() > 0 {
			sent++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit sweep tx: %w", err)
	}
	return sent, nil
}
