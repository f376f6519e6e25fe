package domain

import (
	"regexp"
	"time"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// CreateTaskRequest is the inbound payload for task creation.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CategoryID  *string    `json:"category_id,omitempty"`
}

func (r *CreateTaskRequest) Validate() error {
	if r.Title == "" || len(r.Title) > 200 {
		return ErrInvalidTitle
	}
	if !r.Priority.IsValid() {
		return ErrInvalidPriority
	}
	return nil
}

// UpdateTaskRequest is the inbound payload for task edits; CategoryID and
// DueDate may be cleared by supplying an explicit null, so both are pointers
// even where Task itself already uses one.
type UpdateTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CategoryID  *string    `json:"category_id,omitempty"`
}

func (r *UpdateTaskRequest) Validate() error {
	if r.Title == "" || len(r.Title) > 200 {
		return ErrInvalidTitle
	}
	if !r.Priority.IsValid() {
		return ErrInvalidPriority
	}
	return nil
}

// CreateCategoryRequest is the inbound payload for a task category.
type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (r *CreateCategoryRequest) Validate() error {
	if r.Name == "" || len(r.Name) > 80 {
		return ErrInvalidName
	}
	if !hexColor.MatchString(r.Color) {
		return ErrInvalidColor
	}
	return nil
}

// CreateRecurrenceRequest is the inbound payload for attaching a recurrence
// rule to a task.
type CreateRecurrenceRequest struct {
	Frequency      Frequency `json:"frequency"`
	Interval       int       `json:"interval"`
	CronExpression *string   `json:"cron_expression,omitempty"`
}

func (r *CreateRecurrenceRequest) Validate() error {
	if !r.Frequency.IsValid() {
		return ErrInvalidFrequency
	}
	if r.Interval < 1 {
		return ErrInvalidInterval
	}
	if r.Frequency == FrequencyCustom && (r.CronExpression == nil || *r.CronExpression == "") {
		return ErrCronRequired
	}
	return nil
}

// CreateReminderRequest is the inbound payload for scheduling a reminder.
type CreateReminderRequest struct {
	RemindAt time.Time        `json:"remind_at"`
	Type     NotificationType `json:"notification_type"`
}
