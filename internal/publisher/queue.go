package publisher

import (
	"context"

	"github.com/taskflow/eventcore/internal/domain"
)

// Queue dispatches jobs to one of two buffered channels based on priority.
// Two tiers cover the one real urgency distinction here: completed unblocks
// recurrence spawning, everything else does not.
type Queue struct {
	high   chan Job
	normal chan Job
}

// NewQueue creates a queue with the given per-tier buffer capacity.
func NewQueue(highCap, normalCap int) *Queue {
	return &Queue{
		high:   make(chan Job, highCap),
		normal: make(chan Job, normalCap),
	}
}

// Enqueue is non-blocking: if the target channel is full, ErrQueueFull is
// returned immediately rather than blocking the API request goroutine.
func (q *Queue) Enqueue(job Job) error {
	switch job.Priority {
	case PriorityHigh:
		select {
		case q.high <- job:
			return nil
		default:
			return domain.ErrQueueFull
		}
	default:
		select {
		case q.normal <- job:
			return nil
		default:
			return domain.ErrQueueFull
		}
	}
}

// Dequeue blocks until a job is available or ctx is cancelled. It drains
// high first via a non-blocking check, then falls back to a fair blocking
// select across both tiers plus ctx.Done — a double-select pattern that
// avoids high-priority starvation without busy-waiting.
func (q *Queue) Dequeue(ctx context.Context) (Job, bool) {
	select {
	case job := <-q.high:
		return job, true
	default:
	}

	select {
	case job := <-q.high:
		return job, true
	case job := <-q.normal:
		return job, true
	case <-ctx.Done():
		return Job{}, false
	}
}

// Depths returns the current number of jobs waiting in each tier, for the
// metrics queue-depth gauges and the JSON /api/metrics snapshot.
func (q *Queue) Depths() (high, normal int) {
	return len(q.high), len(q.normal)
}
