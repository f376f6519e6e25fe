package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow/eventcore/internal/domain"
	"github.com/taskflow/eventcore/internal/repository"
)

// CategoryService owns task-category CRUD.
type CategoryService struct {
	repo repository.CategoryRepository
	now  func() time.Time
}

func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *CategoryService) Create(ctx context.Context, userID string, req domain.CreateCategoryRequest) (*domain.TaskCategory, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := &domain.TaskCategory{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      req.Name,
		Color:     req.Color,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("persist category: %w", err)
	}
	return c, nil
}

func (s *CategoryService) List(ctx context.Context, userID string) ([]*domain.TaskCategory, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *CategoryService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, id, userID)
}
