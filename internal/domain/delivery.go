package domain

import "time"

// DeliveryStatus tracks the lifecycle of a single channel-delivery attempt.
// The notification dispatcher writes sent and failed; pending is defined
// but not written by it.
type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
)

// NotificationDeliveryState is the per-reminder idempotency and retry
// record the notification dispatcher keeps in the state store.
// status=="sent" implies at least one channel call succeeded;
// status=="failed" implies at least one failed attempt and no success.
type NotificationDeliveryState struct {
	ReminderID   string         `json:"reminder_id"`
	Status       DeliveryStatus `json:"status"`
	Attempts     int            `json:"attempts"`
	LastAttempt  time.Time      `json:"last_attempt"`
	ErrorMessage *string        `json:"error_message,omitempty"`
}

// InAppNotification is the in-app inbox entry written for the in_app
// channel, TTL 7 days.
type InAppNotification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	TaskID    string    `json:"task_id"`
	CreatedAt time.Time `json:"created_at"`
	IsRead    bool      `json:"is_read"`
}

// RecurringProcessingStatus tracks the recurring-task handler's per-event
// dedup marker.
type RecurringProcessingStatus string

const (
	RecurringProcessing RecurringProcessingStatus = "processing"
	RecurringCompleted  RecurringProcessingStatus = "completed"
	RecurringFailed     RecurringProcessingStatus = "failed"
)

// RecurringProcessingState is the state-store record written per completed
// task id to make redelivery idempotent (TTL 1h).
type RecurringProcessingState struct {
	TaskID       string                    `json:"task_id"`
	Status       RecurringProcessingStatus `json:"status"`
	NextTaskID   *string                   `json:"next_task_id,omitempty"`
	UpdatedAt    time.Time                 `json:"updated_at"`
	ErrorMessage *string                   `json:"error_message,omitempty"`
}
