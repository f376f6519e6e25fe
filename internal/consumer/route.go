package consumer

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskflow/eventcore/internal/event"
	"github.com/taskflow/eventcore/internal/pubsub"
)

// TaskHandler processes one task-events delivery. internal/recur.Handler and
// internal/derived.Handler both satisfy this.
type TaskHandler interface {
	Handle(ctx context.Context, ev event.TaskEvent) Outcome
}

// ReminderHandler processes one reminders delivery. internal/dispatch.Dispatcher
// satisfies this.
type ReminderHandler interface {
	Handle(ctx context.Context, ev event.ReminderEvent) Outcome
}

// Route binds a broker subscription to an HTTP path and a decode+dispatch
// function, letting NewTaskRoute/NewReminderRoute carry the event.Kind so
// Server itself never needs a type switch over payload kinds.
type Route struct {
	Subscription pubsub.Subscription
	Handle       func(ctx context.Context, body []byte) Outcome
}

// NewTaskRoute builds a Route bound to the task-events wire contract.
func NewTaskRoute(pubsubName, topic, httpRoute string, h TaskHandler, logger *zap.Logger) Route {
	return Route{
		Subscription: pubsub.Subscription{PubsubName: pubsubName, Topic: topic, Route: httpRoute},
		Handle: func(ctx context.Context, body []byte) Outcome {
			payload, wasBare, err := event.Unwrap(body, event.KindTask)
			if err != nil {
				return AckBadEvent
			}
			if wasBare {
				logger.Warn("accepted bare task-events payload without a CloudEvents envelope", zap.String("route", httpRoute))
			}
			ev, ok := payload.(event.TaskEvent)
			if !ok {
				return AckBadEvent
			}
			return h.Handle(ctx, ev)
		},
	}
}

// NewReminderRoute builds a Route bound to the reminders wire contract.
func NewReminderRoute(pubsubName, topic, httpRoute string, h ReminderHandler, logger *zap.Logger) Route {
	return Route{
		Subscription: pubsub.Subscription{PubsubName: pubsubName, Topic: topic, Route: httpRoute},
		Handle: func(ctx context.Context, body []byte) Outcome {
			payload, wasBare, err := event.Unwrap(body, event.KindReminder)
			if err != nil {
				return AckBadEvent
			}
			if wasBare {
				logger.Warn("accepted bare reminders payload without a CloudEvents envelope", zap.String("route", httpRoute))
			}
			ev, ok := payload.(event.ReminderEvent)
			if !ok {
				return AckBadEvent
			}
			return h.Handle(ctx, ev)
		},
	}
}
