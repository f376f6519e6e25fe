package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow/eventcore/internal/domain"
)

// TaskLookup is the thin read-only collaborator the reminder service needs
// from the task CRUD surface.
type TaskLookup interface {
	Get(ctx context.Context, taskID string) (*domain.Task, error)
}

// Service owns reminder scheduling: ownership check, then a future-time
// validation, then persist.
type Service struct {
	repo   Repository
	lookup TaskLookup
	now    func() time.Time
}

func NewService(repo Repository, lookup TaskLookup) *Service {
	return &Service{repo: repo, lookup: lookup, now: func() time.Time { return time.Now().UTC() }}
}

// Schedule creates a reminder for taskID, owned by userID, firing at
// remindAt. Returns domain.ErrForbidden if userID does not own the task,
// domain.ErrReminderInPast if remindAt is not strictly in the future, and
// domain.ErrInvalidNotifyType for an unrecognized kind.
func (s *Service) Schedule(ctx context.Context, userID, taskID string, remindAt time.Time, kind domain.NotificationType) (*domain.Reminder, error) {
	task, err := s.lookup.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if !remindAt.After(s.now()) {
		return nil, domain.ErrReminderInPast
	}
	if !kind.IsValid() {
		return nil, domain.ErrInvalidNotifyType
	}

	r := &domain.Reminder{
		ID:               uuid.NewString(),
		TaskID:           taskID,
		RemindAt:         remindAt,
		NotificationType: kind,
		CreatedAt:        s.now(),
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create reminder: %w", err)
	}
	return r, nil
}

// Cancel removes a pending reminder, verifying ownership through its task.
func (s *Service) Cancel(ctx context.Context, userID, reminderID string) error {
	r, err := s.repo.Get(ctx, reminderID)
	if err != nil {
		return err
	}
	task, err := s.lookup.Get(ctx, r.TaskID)
	if err != nil {
		return err
	}
	if task.UserID != userID {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, reminderID)
}

// List returns every reminder for a task the caller owns.
func (s *Service) List(ctx context.Context, userID, taskID string) ([]domain.Reminder, error) {
	task, err := s.lookup.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListByTask(ctx, taskID)
}
