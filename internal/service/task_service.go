package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskflow/eventcore/internal/domain"
	"github.com/taskflow/eventcore/internal/publisher"
	"github.com/taskflow/eventcore/internal/repository"
)

// TaskService owns task CRUD and publishes a lifecycle event after every
// committed mutation. It coordinates a repository and a queue/publisher but
// never calls the broker directly (see internal/publisher.TaskPublisher).
type TaskService struct {
	repo   repository.TaskRepository
	pub    *publisher.TaskPublisher
	logger *zap.Logger
	now    func() time.Time
}

func NewTaskService(repo repository.TaskRepository, pub *publisher.TaskPublisher, logger *zap.Logger) *TaskService {
	return &TaskService{repo: repo, pub: pub, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

func (s *TaskService) Create(ctx context.Context, userID string, req domain.CreateTaskRequest) (*domain.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	t := &domain.Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		IsComplete:  false,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("persist task: %w", err)
	}

	s.pub.PublishMutation(ctx, nil, t)
	return t, nil
}

func (s *TaskService) Get(ctx context.Context, userID, id string) (*domain.Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return t, nil
}

func (s *TaskService) List(ctx context.Context, filter repository.TaskFilter) ([]*domain.Task, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *TaskService) Update(ctx context.Context, userID, id string, req domain.UpdateTaskRequest) (*domain.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Title = req.Title
	updated.Description = req.Description
	updated.Priority = req.Priority
	updated.DueDate = req.DueDate
	updated.CategoryID = req.CategoryID
	updated.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.pub.PublishMutation(ctx, existing, &updated)
	return &updated, nil
}

func (s *TaskService) Complete(ctx context.Context, userID, id string) (*domain.Task, error) {
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	completed, err := s.repo.Complete(ctx, id, s.now())
	if err != nil {
		return completed, err
	}

	s.pub.PublishMutation(ctx, existing, completed)
	return completed, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	s.pub.PublishDeletion(ctx, deleted)
	return nil
}
