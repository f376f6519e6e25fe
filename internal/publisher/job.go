package publisher

import "github.com/taskflow/eventcore/internal/event"

// Job is the minimal data placed on the publish queue. The worker re-wraps
// Payload into a CloudEvents envelope at send time (internal/pubsub); the
// queue itself stays transport-agnostic.
type Job struct {
	Topic    string
	Payload  event.Payload
	Metadata map[string]string
	Priority Priority
}

// Priority tiers publish urgency rather than notification channel: a
// task.completed event gates recurrence spawning, so it (together with the
// task.updated published alongside it) jumps the queue ahead of routine
// task.updated/task.deleted traffic.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)
