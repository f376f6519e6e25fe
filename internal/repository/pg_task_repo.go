package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskflow/eventcore/internal/domain"
)

type pgTaskRepository struct {
	pool *pgxpool.Pool
}

func NewPgTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &pgTaskRepository{pool: pool}
}

func (r *pgTaskRepository) Create(ctx context.Context, t *domain.Task) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tasks
			(id, user_id, title, description, is_complete, priority, due_date,
			 category_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		t.ID, t.UserID, t.Title, t.Description, t.IsComplete, t.Priority, t.DueDate,
		t.CategoryID, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *pgTaskRepository) Get(ctx context.Context, id string) (*domain.Task, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, title, description, is_complete, priority, due_date,
		       category_id, created_at, updated_at
		FROM tasks WHERE id = $1`, id)

	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return t, err
}

func (r *pgTaskRepository) List(ctx context.Context, f TaskFilter) ([]*domain.Task, int, error) {
	where := "WHERE user_id = $1"
	args := []any{f.UserID}

	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		where += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if f.IsComplete != nil {
		args = append(args, *f.IsComplete)
		where += fmt.Sprintf(" AND is_complete = $%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM tasks "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(`
		SELECT id, user_id, title, description, is_complete, priority, due_date,
		       category_id, created_at, updated_at
		FROM tasks %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTaskRows(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, t)
	}
	return tasks, total, rows.Err()
}

func (r *pgTaskRepository) Update(ctx context.Context, t *domain.Task) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE tasks SET title=$1, description=$2, priority=$3, due_date=$4,
		       category_id=$5, updated_at=$6
		WHERE id=$7 AND user_id=$8`,
		t.Title, t.Description, t.Priority, t.DueDate, t.CategoryID, t.UpdatedAt, t.ID, t.UserID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *pgTaskRepository) Complete(ctx context.Context, id string, completedAt time.Time) (*domain.Task, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE tasks SET is_complete=true, updated_at=$1
		WHERE id=$2 AND NOT is_complete
		RETURNING id, user_id, title, description, is_complete, priority, due_date,
		          category_id, created_at, updated_at`, completedAt, id)

	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the task doesn't exist or it was already complete; a plain
		// Get distinguishes the two for the caller.
		existing, getErr := r.Get(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		return existing, domain.ErrConflict
	}
	return t, err
}

func (r *pgTaskRepository) Delete(ctx context.Context, id string) (*domain.Task, error) {
	row := r.pool.QueryRow(ctx, `
		DELETE FROM tasks WHERE id=$1
		RETURNING id, user_id, title, description, is_complete, priority, due_date,
		          category_id, created_at, updated_at`, id)

	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return t, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	return scanTaskRows(row)
}

func scanTaskRows(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var desc, categoryID *string
	var dueDate *time.Time
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &desc, &t.IsComplete, &t.Priority, &dueDate,
		&categoryID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Description = desc
	t.DueDate = dueDate
	t.CategoryID = categoryID
	return &t, nil
}
