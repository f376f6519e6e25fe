package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskflow/eventcore/internal/consumer"
	"github.com/taskflow/eventcore/internal/domain"
	"github.com/taskflow/eventcore/internal/event"
	"github.com/taskflow/eventcore/internal/metrics"
	"github.com/taskflow/eventcore/internal/secrets"
	"github.com/taskflow/eventcore/internal/statestore"
)

// DeliveryStateTTL is how long a NotificationDeliveryState record is kept.
const DeliveryStateTTL = 24 * time.Hour

// InAppTTL is how long an in-app inbox entry is kept.
const InAppTTL = 7 * 24 * time.Hour

// credentialNames maps a notification type to the secret store key holding
// its provider credential.
var credentialNames = map[domain.NotificationType]string{
	domain.NotificationEmail: "EMAIL_PROVIDER_CREDENTIAL",
	domain.NotificationPush:  "PUSH_PROVIDER_CREDENTIAL",
}

// Dispatcher routes a reminder.due event to the right notification channel,
// tracks delivery state for idempotency, and reports an Outcome the consumer
// runtime maps to an HTTP status.
type Dispatcher struct {
	channels map[domain.NotificationType]Channel
	secrets  secrets.Store
	state    statestore.Store
	logger   *zap.Logger
	now      func() time.Time
	metrics  *metrics.Metrics
}

func NewDispatcher(channels map[domain.NotificationType]Channel, secretStore secrets.Store, state statestore.Store, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{channels: channels, secrets: secretStore, state: state, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// SetMetrics attaches the shared Prometheus instruments. Unset, dispatch
// results are simply not counted.
func (d *Dispatcher) SetMetrics(m *metrics.Metrics) {
	d.metrics = m
}

func (d *Dispatcher) recordResult(notificationType domain.NotificationType, result string) {
	if d.metrics != nil {
		d.metrics.NotificationResults.WithLabelValues(string(notificationType), result).Inc()
	}
}

func (d *Dispatcher) Handle(ctx context.Context, ev event.ReminderEvent) consumer.Outcome {
	log := d.logger.With(zap.String("reminder_id", ev.ReminderID), zap.String("notification_type", string(ev.NotificationType)))
	key := statestore.NotificationKey(ev.ReminderID)

	var prior domain.NotificationDeliveryState
	if err := d.state.Get(ctx, key, &prior); err == nil {
		if prior.Status == domain.DeliverySent {
			log.Info("delivery already sent, acking duplicate")
			return consumer.Ack
		}
	} else if !errors.Is(err, statestore.ErrNotFound) {
		log.Error("delivery state lookup failed", zap.Error(err))
		return consumer.Nack
	}

	var sendErr error
	var retryable bool
	switch ev.NotificationType {
	case domain.NotificationEmail, domain.NotificationPush:
		sendErr, retryable = d.dispatchProvider(ctx, ev)
	case domain.NotificationInApp:
		sendErr = d.dispatchInApp(ctx, ev)
		retryable = sendErr != nil
	default:
		sendErr = errors.New("unknown notification_type")
		retryable = false
	}

	attempts := prior.Attempts + 1
	if sendErr == nil {
		if err := d.writeState(ctx, ev.ReminderID, domain.DeliverySent, attempts, nil); err != nil {
			log.Error("failed to record successful delivery", zap.Error(err))
			return consumer.Nack
		}
		log.Info("reminder delivered")
		d.recordResult(ev.NotificationType, "sent")
		return consumer.Ack
	}

	msg := sendErr.Error()
	if err := d.writeState(ctx, ev.ReminderID, domain.DeliveryFailed, attempts, &msg); err != nil {
		log.Error("failed to record failed delivery", zap.Error(err))
		return consumer.Nack
	}

	if retryable {
		log.Warn("delivery failed, requesting redelivery", zap.Error(sendErr))
		d.recordResult(ev.NotificationType, "retry")
		return consumer.Nack
	}
	log.Warn("delivery failed permanently, not retrying", zap.Error(sendErr))
	d.recordResult(ev.NotificationType, "failed")
	return consumer.AckBadEvent
}

// dispatchProvider resolves the provider credential and invokes the
// matching channel. Returns (err, retryable): a missing credential or
// unconfigured channel is non-retryable; any other send failure is.
func (d *Dispatcher) dispatchProvider(ctx context.Context, ev event.ReminderEvent) (error, bool) {
	channel, ok := d.channels[ev.NotificationType]
	if !ok {
		return errors.New("no channel configured for notification_type " + string(ev.NotificationType)), false
	}

	credName, ok := credentialNames[ev.NotificationType]
	if ok {
		if _, err := d.secrets.Get(ctx, credName); err != nil {
			return errors.New("provider credential unavailable: " + credName), false
		}
	}

	if err := channel.Send(ctx, ev); err != nil {
		return err, true
	}
	return nil, false
}

func (d *Dispatcher) dispatchInApp(ctx context.Context, ev event.ReminderEvent) error {
	notification := domain.InAppNotification{
		ID:        uuid.NewString(),
		UserID:    ev.UserID,
		Type:      "reminder",
		Title:     ev.TaskTitle,
		Message:   "Reminder: " + ev.TaskTitle + " is due",
		TaskID:    ev.TaskID,
		CreatedAt: d.now(),
		IsRead:    false,
	}
	key := statestore.InAppNotificationKey(ev.UserID, ev.ReminderID)
	return d.state.Set(ctx, key, notification, InAppTTL)
}

func (d *Dispatcher) writeState(ctx context.Context, reminderID string, status domain.DeliveryStatus, attempts int, errMsg *string) error {
	return d.state.Set(ctx, statestore.NotificationKey(reminderID), domain.NotificationDeliveryState{
		ReminderID:   reminderID,
		Status:       status,
		Attempts:     attempts,
		LastAttempt:  d.now(),
		ErrorMessage: errMsg,
	}, DeliveryStateTTL)
}
