package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskflow/eventcore/internal/domain"
)

type pgCategoryRepository struct {
	pool *pgxpool.Pool
}

func NewPgCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &pgCategoryRepository{pool: pool}
}

func (r *pgCategoryRepository) Create(ctx context.Context, c *domain.TaskCategory) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO task_categories (id, user_id, name, color, created_at)
		VALUES ($1,$2,$3,$4,$5)`,
		c.ID, c.UserID, c.Name, c.Color, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *pgCategoryRepository) ListByUser(ctx context.Context, userID string) ([]*domain.TaskCategory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, color, created_at
		FROM task_categories WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.TaskCategory
	for rows.Next() {
		var c domain.TaskCategory
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (r *pgCategoryRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM task_categories WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
