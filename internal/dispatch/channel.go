package dispatch

import (
	"context"

	"github.com/taskflow/eventcore/internal/event"
)

// Channel delivers one reminder.due event through a specific notification
// type. email and push are backed by an HTTP provider (internal/provider);
// in_app is backed directly by the state store, so it has no Channel
// implementation here — Dispatcher special-cases it.
type Channel interface {
	Send(ctx context.Context, ev event.ReminderEvent) error
}
