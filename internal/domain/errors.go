package domain

import "errors"

// Sentinel errors shared across the core. Handlers translate these to HTTP
// status codes (API path) or consumer outcomes (event path) via a single
// mapping function.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("not authorized for this resource")
	ErrConflict          = errors.New("conflict with the resource's current state")
	ErrInvalidFrequency  = errors.New("invalid frequency: must be daily, weekly, monthly, or custom")
	ErrCronRequired      = errors.New("cron_expression is required for custom frequency")
	ErrInvalidCron       = errors.New("cron_expression is not a valid 5-field cron expression")
	ErrInvalidInterval   = errors.New("interval must be >= 1")
	ErrInvalidNotifyType = errors.New("invalid notification_type: must be email, push, or in_app")
	ErrReminderInPast    = errors.New("remind_at must be strictly in the future")
	ErrDuplicateDelivery = errors.New("duplicate delivery: already processed")
	ErrQueueFull         = errors.New("publish queue is at capacity, try again later")
	ErrInvalidTitle      = errors.New("title is required and must be 200 characters or fewer")
	ErrInvalidPriority   = errors.New("invalid priority: must be low, medium, high, or urgent")
	ErrInvalidColor      = errors.New("color must be a 6-digit hex code, e.g. #3b82f6")
	ErrInvalidName       = errors.New("name is required and must be 80 characters or fewer")
)
