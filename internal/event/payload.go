package event

import (
	"fmt"
	"time"

	"github.com/taskflow/eventcore/internal/domain"
)

// Payload is the tagged-union member every event type implements. Handlers
// operate on the concrete variant, never on a bare map[string]any.
type Payload interface {
	// EventType returns the CloudEvents `type` value, e.g. "task.completed".
	EventType() string
	// Key returns the broker partition key for this payload.
	Key() string
	// Validate reports a schema violation. A non-nil error means the
	// consumer runtime should ack without retrying.
	Validate() error
}

// TaskSnapshot is the full task row captured in the same transaction as the
// mutation it describes.
type TaskSnapshot struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Title       string          `json:"title"`
	Description *string         `json:"description,omitempty"`
	IsComplete  bool            `json:"is_complete"`
	Priority    domain.Priority `json:"priority"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	CategoryID  *string         `json:"category_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func SnapshotFromTask(t *domain.Task) TaskSnapshot {
	return TaskSnapshot{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		IsComplete:  t.IsComplete,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		CategoryID:  t.CategoryID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// TaskEventType enumerates the wire contract's task-events topic types.
const (
	TaskCreated   = "task.created"
	TaskUpdated   = "task.updated"
	TaskCompleted = "task.completed"
	TaskDeleted   = "task.deleted"
)

// TaskEvent is the envelope payload published on the task-events topic.
type TaskEvent struct {
	Type      string            `json:"event_type"`
	TaskID    string            `json:"task_id"`
	TaskData  TaskSnapshot      `json:"task_data"`
	UserID    string            `json:"user_id"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (e TaskEvent) EventType() string { return e.Type }
func (e TaskEvent) Key() string       { return e.TaskID }

func (e TaskEvent) Validate() error {
	switch e.Type {
	case TaskCreated, TaskUpdated, TaskCompleted, TaskDeleted:
	default:
		return fmt.Errorf("unknown task event type %q", e.Type)
	}
	if e.TaskID == "" {
		return fmt.Errorf("task_id is required")
	}
	return nil
}

// ReminderEvent is the envelope payload published on the reminders topic.
// Wire type is always "reminder.due".
type ReminderEvent struct {
	ReminderID       string                  `json:"reminder_id"`
	TaskID           string                  `json:"task_id"`
	TaskTitle        string                  `json:"task_title"`
	UserID           string                  `json:"user_id"`
	RemindAt         time.Time               `json:"remind_at"`
	NotificationType domain.NotificationType `json:"notification_type"`
	Timestamp        time.Time               `json:"timestamp"`
}

const ReminderDue = "reminder.due"

func (e ReminderEvent) EventType() string { return ReminderDue }
func (e ReminderEvent) Key() string       { return e.TaskID }

func (e ReminderEvent) Validate() error {
	if e.ReminderID == "" || e.TaskID == "" {
		return fmt.Errorf("reminder_id and task_id are required")
	}
	if !e.NotificationType.IsValid() {
		return fmt.Errorf("invalid notification_type %q", e.NotificationType)
	}
	return nil
}

// AuditEntry is the envelope payload published on the audit-logs topic.
// Wire type follows "audit.<resource_type>.<action>".
type AuditEntry struct {
	Type         string         `json:"event_type"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	UserID       string         `json:"user_id"`
	Action       string         `json:"action"`
	Timestamp    time.Time      `json:"timestamp"`
	Changes      map[string]any `json:"changes,omitempty"`
}

func NewAuditEntry(resourceType, resourceID, userID, action string) AuditEntry {
	return AuditEntry{
		Type:         fmt.Sprintf("audit.%s.%s", resourceType, action),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		UserID:       userID,
		Action:       action,
		Timestamp:    time.Now().UTC(),
	}
}

func (e AuditEntry) EventType() string { return e.Type }
func (e AuditEntry) Key() string       { return e.ResourceID }

func (e AuditEntry) Validate() error {
	if e.ResourceType == "" || e.ResourceID == "" || e.Action == "" {
		return fmt.Errorf("resource_type, resource_id, and action are required")
	}
	return nil
}
