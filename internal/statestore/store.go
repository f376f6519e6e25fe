package statestore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("state entry not found")

// Store is the typed façade over a keyed JSON state store: flat namespace,
// prefix-colon key convention, TTL as a time.Duration, best-effort
// single-writer-wins semantics except where a caller explicitly needs
// SetIfAbsent's compare-and-swap guard.
type Store interface {
	// Get unmarshals the value stored at key into dst. Returns ErrNotFound
	// if the key is absent or its TTL has elapsed.
	Get(ctx context.Context, key string, dst any) error
	// Set stores value at key with the given TTL. ttl<=0 means no expiry.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// SetIfAbsent stores value at key only if the key does not already
	// exist (or has expired), returning false if another writer won the
	// race. The reminder sweep does not use it; it relies on a DB row lock.
	SetIfAbsent(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	// Delete removes key. It is idempotent: deleting an absent key is not
	// an error.
	Delete(ctx context.Context, key string) error
	// IncrementCounter reads the counter at key, adds one, writes it back
	// with the given window as its TTL, and returns the new value.
	// Callers MUST treat it as approximate — no CAS loop is required for
	// rate limiting.
	IncrementCounter(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Key-prefix helpers, collecting the storage conventions so callers never
// hand-format a key.
func TaskKey(id string) string                 { return "task:" + id }
func TaskCompletedKey(id string) string        { return "task:completed:" + id }
func RecurringKey(taskID string) string        { return "recurring:" + taskID }
func RecurringProcessingKey(taskID string) string { return "recurring-processing:" + taskID }
func NotificationKey(reminderID string) string { return "notification:" + reminderID }
func InAppNotificationKey(userID, id string) string {
	return "in-app-notification:" + userID + ":" + id
}
func SessionKey(id string) string        { return "session:" + id }
func RateLimitKey(scope string) string   { return "rate_limit:" + scope }
