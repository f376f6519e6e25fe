package reminder

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/taskflow/eventcore/internal/domain"
	"github.com/taskflow/eventcore/internal/event"
	"github.com/taskflow/eventcore/internal/metrics"
	"github.com/taskflow/eventcore/internal/pubsub"
)

// RemindersTopic is where Sweeper publishes.
const RemindersTopic = "reminders"

// SweepBatchSize bounds how many reminders a single Tick claims.
const SweepBatchSize = 100

// Sweeper periodically claims due reminders and publishes reminder.due for
// each one whose task still exists.
type Sweeper struct {
	repo    Repository
	lookup  TaskLookup
	pub     pubsub.Publisher
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewSweeper(repo Repository, lookup TaskLookup, pub pubsub.Publisher, logger *zap.Logger) *Sweeper {
	return &Sweeper{repo: repo, lookup: lookup, pub: pub, logger: logger}
}

// SetMetrics attaches the shared Prometheus instruments. Unset, swept
// reminders are simply not counted.
func (s *Sweeper) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// Run ticks every interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("reminder sweeper started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder sweeper stopping")
			return
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				s.logger.Error("reminder sweep tick failed", zap.Error(err))
			}
		}
	}
}

// Tick claims up to SweepBatchSize due, unsent reminders and, for each one,
// publishes reminder.due (if its task still exists) or marks it sent
// without publishing (if the task was deleted).
func (s *Sweeper) Tick(ctx context.Context) error {
	now := time.Now().UTC()
	sent, err := s.repo.SweepDue(ctx, now, SweepBatchSize, func(ctx context.Context, r domain.Reminder) bool {
		return s.deliver(ctx, r, now)
	})
	if err != nil {
		return err
	}
	if sent > 0 {
		s.logger.Info("reminder sweep processed due reminders", zap.Int("count", sent))
		if s.metrics != nil {
			s.metrics.RemindersSwept.Add(float64(sent))
		}
	}
	return nil
}

// deliver returns true if the reminder should be marked sent: either the
// publish succeeded, or the task backing it is gone.
func (s *Sweeper) deliver(ctx context.Context, r domain.Reminder, now time.Time) bool {
	log := s.logger.With(zap.String("reminder_id", r.ID), zap.String("task_id", r.TaskID))

	task, err := s.lookup.Get(ctx, r.TaskID)
	if errors.Is(err, domain.ErrNotFound) {
		log.Info("task deleted before reminder fired, marking sent without publish")
		return true
	}
	if err != nil {
		log.Error("task lookup failed during sweep, will retry next tick", zap.Error(err))
		return false
	}

	payload := event.ReminderEvent{
		ReminderID:       r.ID,
		TaskID:           r.TaskID,
		TaskTitle:        task.Title,
		UserID:           task.UserID,
		RemindAt:         r.RemindAt,
		NotificationType: r.NotificationType,
		Timestamp:        now,
	}
	if err := s.pub.Publish(ctx, RemindersTopic, payload, nil); err != nil {
		log.Error("failed to publish reminder.due, will retry next tick", zap.Error(err))
		return false
	}
	return true
}
