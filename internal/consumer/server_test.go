package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/taskflow/eventcore/internal/consumer"
	"github.com/taskflow/eventcore/internal/event"
)

type recordingTaskHandler struct {
	outcome consumer.Outcome
	calls   int
}

func (h *recordingTaskHandler) Handle(context.Context, event.TaskEvent) consumer.Outcome {
	h.calls++
	return h.outcome
}

func wrapTask(t event.TaskEvent) []byte {
	ce, err := event.Wrap("test-source", t)
	if err != nil {
		panic(err)
	}
	body, err := json.Marshal(ce)
	if err != nil {
		panic(err)
	}
	return body
}

func TestServer_Subscribe_ListsRegisteredRoutes(t *testing.T) {
	s := consumer.NewServer(zap.NewNop(), 4)
	s.AddRoute(consumer.NewTaskRoute("kafka-pubsub", "task-events", "/events/tasks", &recordingTaskHandler{outcome: consumer.Ack}, zap.NewNop()))

	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/dapr/subscribe")
	if err != nil {
		t.Fatalf("GET /dapr/subscribe: %v", err)
	}
	defer resp.Body.Close()

	var subs []struct {
		PubsubName string `json:"pubsubname"`
		Topic      string `json:"topic"`
		Route      string `json:"route"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&subs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(subs) != 1 || subs[0].Topic != "task-events" || subs[0].Route != "/events/tasks" {
		t.Fatalf("unexpected subscriptions: %+v", subs)
	}
}

func TestServer_Route_DispatchesAndMapsOutcomeToStatus(t *testing.T) {
	cases := []struct {
		name           string
		outcome        consumer.Outcome
		expectedStatus int
	}{
		{"ack", consumer.Ack, 200},
		{"ack_bad_event", consumer.AckBadEvent, 200},
		{"nack", consumer.Nack, 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &recordingTaskHandler{outcome: tc.outcome}
			s := consumer.NewServer(zap.NewNop(), 4)
			s.AddRoute(consumer.NewTaskRoute("kafka-pubsub", "task-events", "/events/tasks", h, zap.NewNop()))

			srv := httptest.NewServer(s.Router())
			defer srv.Close()

			ev := event.TaskEvent{Type: event.TaskCreated, TaskID: "t1", UserID: "u1", Timestamp: time.Now().UTC()}
			resp, err := http.Post(srv.URL+"/events/tasks", "application/json", bytes.NewReader(wrapTask(ev)))
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.expectedStatus {
				t.Fatalf("expected status %d, got %d", tc.expectedStatus, resp.StatusCode)
			}
			if h.calls != 1 {
				t.Fatalf("expected handler to be called once, got %d", h.calls)
			}
		})
	}
}

func TestServer_Route_MalformedBody_IsAckedAsBadEvent(t *testing.T) {
	h := &recordingTaskHandler{outcome: consumer.Ack}
	s := consumer.NewServer(zap.NewNop(), 4)
	s.AddRoute(consumer.NewTaskRoute("kafka-pubsub", "task-events", "/events/tasks", h, zap.NewNop()))

	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/events/tasks", "application/json", bytes.NewReader([]byte("not json")))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 for malformed body, got %d", resp.StatusCode)
	}
	if h.calls != 0 {
		t.Fatalf("expected handler not to be called for malformed body, got %d calls", h.calls)
	}
}

func TestServer_Health_AlwaysOK(t *testing.T) {
	s := consumer.NewServer(zap.NewNop(), 4)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestServer_Ready_FailsWhenDependencyUnreachable(t *testing.T) {
	s := consumer.NewServer(zap.NewNop(), 4)
	s.AddReadinessCheck(func(context.Context) error { return errors.New("database unreachable") })

	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health/ready")
	if err != nil {
		t.Fatalf("GET /health/ready: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

func TestServer_Job_RunsRegisteredCallback(t *testing.T) {
	s := consumer.NewServer(zap.NewNop(), 4)
	ran := false
	s.AddJob("sweep-reminders", func(context.Context) error { ran = true; return nil })

	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/jobs/sweep-reminders", "application/json", nil)
	if err != nil {
		t.Fatalf("POST job: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !ran {
		t.Fatal("expected job callback to run")
	}
}

func TestServer_Job_UnknownName_Returns404(t *testing.T) {
	s := consumer.NewServer(zap.NewNop(), 4)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/jobs/does-not-exist", "application/json", nil)
	if err != nil {
		t.Fatalf("POST job: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
