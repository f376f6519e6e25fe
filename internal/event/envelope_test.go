package event_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/taskflow/eventcore/internal/domain"
	"github.com/taskflow/eventcore/internal/event"
)

func TestWrapUnwrap_RoundTrip(t *testing.T) {
	in := event.TaskEvent{
		Type:   event.TaskCreated,
		TaskID: "task-1",
		TaskData: event.TaskSnapshot{
			ID:       "task-1",
			UserID:   "user-1",
			Title:    "Standup",
			Priority: domain.PriorityMedium,
		},
		UserID:    "user-1",
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
	}

	envelope, err := event.Wrap("/recurring-worker", in)
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if envelope.SpecVersion() != "1.0" {
		t.Fatalf("expected specversion 1.0, got %s", envelope.SpecVersion())
	}
	if envelope.Type() != event.TaskCreated {
		t.Fatalf("expected type %s, got %s", event.TaskCreated, envelope.Type())
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	out, wasBare, err := event.Unwrap(body, event.KindTask)
	if err != nil {
		t.Fatalf("unwrap: %v", err)
	}
	if wasBare {
		t.Fatal("expected wrapped envelope, got bare payload")
	}

	got, ok := out.(event.TaskEvent)
	if !ok {
		t.Fatalf("expected TaskEvent, got %T", out)
	}
	if got.TaskID != in.TaskID || got.TaskData.Title != in.TaskData.Title {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, in)
	}
}

func TestUnwrap_BarePayload(t *testing.T) {
	in := event.ReminderEvent{
		ReminderID:       "r1",
		TaskID:           "t1",
		TaskTitle:        "Pay rent",
		UserID:           "u1",
		RemindAt:         time.Now().UTC(),
		NotificationType: domain.NotificationEmail,
		Timestamp:        time.Now().UTC(),
	}
	body, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	out, wasBare, err := event.Unwrap(body, event.KindReminder)
	if err != nil {
		t.Fatalf("unwrap: %v", err)
	}
	if !wasBare {
		t.Fatal("expected bare payload to be detected")
	}
	got, ok := out.(event.ReminderEvent)
	if !ok {
		t.Fatalf("expected ReminderEvent, got %T", out)
	}
	if got.ReminderID != in.ReminderID {
		t.Fatalf("expected reminder id %s, got %s", in.ReminderID, got.ReminderID)
	}
}

func TestUnwrap_UnknownTaskEventType(t *testing.T) {
	body := []byte(`{"data":{"event_type":"task.mutated","task_id":"t1"}}`)
	_, _, err := event.Unwrap(body, event.KindTask)
	if err == nil {
		t.Fatal("expected validation error for unknown event type")
	}
}

func TestAuditEntry_EventTypeFollowsConvention(t *testing.T) {
	a := event.NewAuditEntry("task", "t1", "u1", "deleted")
	if a.EventType() != "audit.task.deleted" {
		t.Fatalf("expected audit.task.deleted, got %s", a.EventType())
	}
	if a.Key() != "t1" {
		t.Fatalf("expected partition key t1, got %s", a.Key())
	}
}
