package domain

import "time"

// Priority controls display/triage ordering for a task. It is unrelated to
// the publish-queue priority used by internal/publisher.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task is the core entity owned exclusively by its user. Request
// validation lives in CreateTaskRequest/UpdateTaskRequest (requests.go);
// the event envelope, the recurrence engine, and the derived-state cache
// all share this shape for task snapshots.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	IsComplete  bool       `json:"is_complete"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CategoryID  *string    `json:"category_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskCategory is a user-scoped label for organizing tasks.
type TaskCategory struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// Frequency is the recurrence cadence for a RecurrenceRule.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyCustom  Frequency = "custom"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyCustom:
		return true
	}
	return false
}

// RecurrenceRule describes how a task repeats. At most one active rule
// exists per task (unique task_id, invariant 1 in spec §3).
type RecurrenceRule struct {
	ID             string    `json:"id"`
	TaskID         string    `json:"task_id"`
	Frequency      Frequency `json:"frequency"`
	Interval       int       `json:"interval"`
	CronExpression *string   `json:"cron_expression,omitempty"`
	NextDueAt      time.Time `json:"next_due_at"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NotificationType is the delivery channel for a Reminder.
type NotificationType string

const (
	NotificationEmail NotificationType = "email"
	NotificationPush  NotificationType = "push"
	NotificationInApp NotificationType = "in_app"
)

func (n NotificationType) IsValid() bool {
	switch n {
	case NotificationEmail, NotificationPush, NotificationInApp:
		return true
	}
	return false
}

// Reminder is a durable, one-shot timer attached to a task. It transitions
// pending -> sent exactly once and is never resurrected (spec §3).
type Reminder struct {
	ID               string           `json:"id"`
	TaskID           string           `json:"task_id"`
	RemindAt         time.Time        `json:"remind_at"`
	NotificationType NotificationType `json:"notification_type"`
	IsSent           bool             `json:"is_sent"`
	SentAt           *time.Time       `json:"sent_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}
