package event

import (
	"encoding/json"
	"fmt"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// Wrap builds a CloudEvents v1.0 envelope around payload: specversion,
// type, source, id, time (UTC, trailing Z), datacontenttype
// application/json, data.
func Wrap(source string, payload Payload) (cloudevents.Event, error) {
	e := cloudevents.NewEvent()
	e.SetID(uuid.NewString())
	e.SetSource(source)
	e.SetType(payload.EventType())
	e.SetTime(time.Now().UTC())
	if err := e.SetData(cloudevents.ApplicationJSON, payload); err != nil {
		return cloudevents.Event{}, fmt.Errorf("set event data: %w", err)
	}
	return e, nil
}

// Kind identifies which payload variant a topic carries, since the
// CloudEvents envelope's `data` field is untyped JSON on the wire.
type Kind int

const (
	KindTask Kind = iota
	KindReminder
	KindAudit
)

// Unwrap parses a message body into the payload variant for kind. It
// accepts both the full CloudEvents envelope and a bare payload,
// distinguishing by the presence of a top-level "data" field. The second
// return value is true when the body was bare, so callers can log a
// compatibility warning.
func Unwrap(body []byte, kind Kind) (Payload, bool, error) {
	var probe struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, false, fmt.Errorf("parse envelope: %w", err)
	}

	raw := body
	wasBare := true
	if len(probe.Data) > 0 {
		raw = probe.Data
		wasBare = false
	}

	payload, err := decode(raw, kind)
	if err != nil {
		return nil, wasBare, err
	}
	if err := payload.Validate(); err != nil {
		return nil, wasBare, err
	}
	return payload, wasBare, nil
}

func decode(raw []byte, kind Kind) (Payload, error) {
	switch kind {
	case KindTask:
		var p TaskEvent
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode task event: %w", err)
		}
		return p, nil
	case KindReminder:
		var p ReminderEvent
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode reminder event: %w", err)
		}
		return p, nil
	case KindAudit:
		var p AuditEntry
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode audit entry: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown payload kind %d", kind)
	}
}
