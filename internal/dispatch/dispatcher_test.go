package dispatch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/taskflow/eventcore/internal/consumer"
	"github.com/taskflow/eventcore/internal/dispatch"
	"github.com/taskflow/eventcore/internal/domain"
	"github.com/taskflow/eventcore/internal/event"
	"github.com/taskflow/eventcore/internal/statestore"
)

type fakeChannel struct {
	err error
}

func (c *fakeChannel) Send(context.Context, event.ReminderEvent) error { return c.err }

type fakeSecrets struct {
	values map[string]string
}

func (s *fakeSecrets) Get(_ context.Context, name string) (string, error) {
	v, ok := s.values[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func reminderEvent(kind domain.NotificationType) event.ReminderEvent {
	return event.ReminderEvent{
		ReminderID:       "r1",
		TaskID:           "t1",
		TaskTitle:        "Pay rent",
		UserID:           "u1",
		RemindAt:         time.Now().UTC(),
		NotificationType: kind,
		Timestamp:        time.Now().UTC(),
	}
}

func TestDispatcher_Email_Success(t *testing.T) {
	channels := map[domain.NotificationType]dispatch.Channel{domain.NotificationEmail: &fakeChannel{}}
	secretStore := &fakeSecrets{values: map[string]string{"EMAIL_PROVIDER_CREDENTIAL": "key"}}
	state := statestore.NewMemoryStore()
	d := dispatch.NewDispatcher(channels, secretStore, state, zap.NewNop())

	outcome := d.Handle(context.Background(), reminderEvent(domain.NotificationEmail))
	if outcome != consumer.Ack {
		t.Fatalf("expected Ack, got %s", outcome)
	}

	var st domain.NotificationDeliveryState
	if err := state.Get(context.Background(), statestore.NotificationKey("r1"), &st); err != nil {
		t.Fatalf("get delivery state: %v", err)
	}
	if st.Status != domain.DeliverySent || st.Attempts != 1 {
		t.Fatalf("unexpected delivery state: %+v", st)
	}
}

func TestDispatcher_Email_MissingCredential_IsNonRetryable(t *testing.T) {
	channels := map[domain.NotificationType]dispatch.Channel{domain.NotificationEmail: &fakeChannel{}}
	secretStore := &fakeSecrets{values: map[string]string{}}
	state := statestore.NewMemoryStore()
	d := dispatch.NewDispatcher(channels, secretStore, state, zap.NewNop())

	outcome := d.Handle(context.Background(), reminderEvent(domain.NotificationEmail))
	if outcome != consumer.AckBadEvent {
		t.Fatalf("expected AckBadEvent for missing credential, got %s", outcome)
	}
}

func TestDispatcher_Email_ProviderFailure_IsRetryable(t *testing.T) {
	channels := map[domain.NotificationType]dispatch.Channel{domain.NotificationEmail: &fakeChannel{err: errors.New("5xx")}}
	secretStore := &fakeSecrets{values: map[string]string{"EMAIL_PROVIDER_CREDENTIAL": "key"}}
	state := statestore.NewMemoryStore()
	d := dispatch.NewDispatcher(channels, secretStore, state, zap.NewNop())

	outcome := d.Handle(context.Background(), reminderEvent(domain.NotificationEmail))
	if outcome != consumer.Nack {
		t.Fatalf("expected Nack for a transient provider failure, got %s", outcome)
	}
}

func TestDispatcher_InApp_WritesInboxEntry(t *testing.T) {
	state := statestore.NewMemoryStore()
	d := dispatch.NewDispatcher(nil, &fakeSecrets{}, state, zap.NewNop())

	outcome := d.Handle(context.Background(), reminderEvent(domain.NotificationInApp))
	if outcome != consumer.Ack {
		t.Fatalf("expected Ack, got %s", outcome)
	}

	var notification domain.InAppNotification
	key := statestore.InAppNotificationKey("u1", "r1")
	if err := state.Get(context.Background(), key, &notification); err != nil {
		t.Fatalf("get in-app notification: %v", err)
	}
	if notification.IsRead {
		t.Fatal("expected new in-app notification to be unread")
	}
}

func TestDispatcher_DedupsAlreadySentReminder(t *testing.T) {
	channels := map[domain.NotificationType]dispatch.Channel{domain.NotificationEmail: &fakeChannel{}}
	secretStore := &fakeSecrets{values: map[string]string{"EMAIL_PROVIDER_CREDENTIAL": "key"}}
	state := statestore.NewMemoryStore()
	d := dispatch.NewDispatcher(channels, secretStore, state, zap.NewNop())

	ev := reminderEvent(domain.NotificationEmail)
	first := d.Handle(context.Background(), ev)
	second := d.Handle(context.Background(), ev)

	if first != consumer.Ack || second != consumer.Ack {
		t.Fatalf("expected both to ack, got %s and %s", first, second)
	}

	var st domain.NotificationDeliveryState
	if err := state.Get(context.Background(), statestore.NotificationKey("r1"), &st); err != nil {
		t.Fatalf("get delivery state: %v", err)
	}
	if st.Attempts != 1 {
		t.Fatalf("expected the duplicate delivery to skip re-dispatch, attempts stayed at 1, got %d", st.Attempts)
	}
}
