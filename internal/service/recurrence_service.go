package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow/eventcore/internal/domain"
	"github.com/taskflow/eventcore/internal/recurrence"
	"github.com/taskflow/eventcore/internal/repository"
)

// RecurrenceService lets the task-ownership API attach and inspect a
// recurrence rule; internal/recur.Store drives the narrower spawn-next path
// off the same recurrence_rules table.
type RecurrenceService struct {
	rules repository.RecurrenceRepository
	tasks repository.TaskRepository
	now   func() time.Time
}

func NewRecurrenceService(rules repository.RecurrenceRepository, tasks repository.TaskRepository) *RecurrenceService {
	return &RecurrenceService{rules: rules, tasks: tasks, now: func() time.Time { return time.Now().UTC() }}
}

func (s *RecurrenceService) Create(ctx context.Context, userID, taskID string, req domain.CreateRecurrenceRequest) (*domain.RecurrenceRule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, domain.ErrForbidden
	}

	now := s.now()
	draft := domain.RecurrenceRule{
		Frequency:      req.Frequency,
		Interval:       req.Interval,
		CronExpression: req.CronExpression,
	}
	nextDue, err := recurrence.Next(draft, now)
	if err != nil {
		return nil, err
	}

	rule := &domain.RecurrenceRule{
		ID:             uuid.NewString(),
		TaskID:         taskID,
		Frequency:      req.Frequency,
		Interval:       req.Interval,
		CronExpression: req.CronExpression,
		NextDueAt:      nextDue,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("persist recurrence rule: %w", err)
	}
	return rule, nil
}

func (s *RecurrenceService) Get(ctx context.Context, userID, taskID string) (*domain.RecurrenceRule, error) {
	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return s.rules.GetByTaskID(ctx, taskID)
}
