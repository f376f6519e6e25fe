package reminder

import (
	"context"
	"time"

	"github.com/taskflow/eventcore/internal/domain"
)

// Repository is the reminder persistence surface. SweepDue is the one
// non-trivial method: it locks and returns the batch of due, unsent
// reminders inside a single transaction, lets the caller decide (per
// reminder) whether the send succeeded, then conditionally marks each one
// sent before committing — giving the Sweeper row-lock / CAS safety without
// leaking transaction plumbing into it.
type Repository interface {
	Create(ctx context.Context, r *domain.Reminder) error
	Get(ctx context.Context, id string) (*domain.Reminder, error)
	ListByTask(ctx context.Context, taskID string) ([]domain.Reminder, error)
	Delete(ctx context.Context, id string) error

	// SweepDue selects up to limit reminders with remind_at <= now and
	// !is_sent, locking each with FOR UPDATE SKIP LOCKED so concurrent
	// sweepers never process the same row twice. handle is invoked once per
	// locked reminder, inside the transaction; a true return marks that
	// reminder is_sent=true (subject to the WHERE NOT is_sent guard).
	// Returns the number of reminders marked sent.
	SweepDue(ctx context.Context, now time.Time, limit int, handle func(ctx context.Context, r domain.Reminder) bool) (int, error)
}
