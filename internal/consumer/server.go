package consumer

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	apimw "github.com/taskflow/eventcore/internal/api/middleware"
	"github.com/taskflow/eventcore/internal/metrics"
)

// ReadinessCheck reports whether a dependency (DB, broker, state store) is
// currently reachable. Returning an error marks the worker not-ready.
type ReadinessCheck func(ctx context.Context) error

// Job is a cron-bound callback entry point, e.g. the reminder sweeper's
// periodic tick, exposed as POST /api/jobs/<name> for on-demand triggers.
type Job func(ctx context.Context) error

// Server is the shared HTTP consumer runtime: it exposes the
// broker-subscription discovery endpoint, one POST route per subscription,
// health/readiness probes, and named job endpoints using the same
// chi-router-plus-middleware-stack wiring as the HTTP API.
type Server struct {
	routes    map[string]Route // keyed by HTTP route path
	jobs      map[string]Job
	readiness []ReadinessCheck
	logger    *zap.Logger
	metrics   *metrics.Metrics

	concurrency int
	sem         chan struct{}
	inFlight    sync.WaitGroup
}

func NewServer(logger *zap.Logger, concurrency int) *Server {
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Server{
		routes:      make(map[string]Route),
		jobs:        make(map[string]Job),
		logger:      logger,
		concurrency: concurrency,
		sem:         make(chan struct{}, concurrency),
	}
}

func (s *Server) AddRoute(r Route) {
	s.routes[r.Subscription.Route] = r
}

func (s *Server) AddJob(name string, j Job) {
	s.jobs[name] = j
}

func (s *Server) AddReadinessCheck(c ReadinessCheck) {
	s.readiness = append(s.readiness, c)
}

// SetMetrics attaches the shared Prometheus instruments. Unset, route
// dispatches are simply not counted.
func (s *Server) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// Router builds the http.Handler: GET /dapr/subscribe, one POST route per
// registered subscription, GET /health, GET /health/ready, and
// POST /api/jobs/{name}.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestSize(1 << 20))
	r.Use(apimw.CorrelationID)
	r.Use(apimw.RequestLogger(s.logger))

	r.Get("/dapr/subscribe", s.handleSubscribe)
	r.Get("/health", s.handleHealth)
	r.Get("/health/ready", s.handleReady)
	r.Post("/api/jobs/{name}", s.handleJob)

	for path, route := range s.routes {
		r.Post(path, s.handleRoute(route))
	}

	return r
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	subs := make([]subscriptionDTO, 0, len(s.routes))
	for _, route := range s.routes {
		subs = append(subs, subscriptionDTO{
			PubsubName: route.Subscription.PubsubName,
			Topic:      route.Subscription.Topic,
			Route:      route.Subscription.Route,
		})
	}
	writeJSON(w, http.StatusOK, subs)
}

type subscriptionDTO struct {
	PubsubName string `json:"pubsubname"`
	Topic      string `json:"topic"`
	Route      string `json:"route"`
}

// handleRoute returns an http.HandlerFunc that bounds concurrency to
// s.concurrency, decodes the CloudEvent body, dispatches to the handler
// bound at route, and maps its Outcome to an HTTP status.
func (s *Server) handleRoute(route Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			writeJSON(w, http.StatusOK, map[string]string{"status": "bad_event"})
			return
		}

		select {
		case s.sem <- struct{}{}:
		case <-r.Context().Done():
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		s.inFlight.Add(1)
		defer func() {
			<-s.sem
			s.inFlight.Done()
		}()

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		outcome := route.Handle(ctx, body)
		if outcome == AckBadEvent {
			s.logger.Warn("acked malformed event without processing", zap.String("route", route.Subscription.Route))
		}
		if s.metrics != nil {
			s.metrics.ConsumerOutcomes.WithLabelValues(route.Subscription.Route, outcome.String()).Inc()
		}
		w.WriteHeader(outcome.HTTPStatus())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	for _, check := range s.readiness {
		if err := check(ctx); err != nil {
			s.logger.Warn("readiness check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	job, ok := s.jobs[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown job " + name})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := job(ctx); err != nil {
		s.logger.Error("job failed", zap.String("job", name), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Drain blocks until every in-flight handler invocation returns or ctx is
// cancelled, giving the process shutdown sequence a bounded grace period.
func (s *Server) Drain(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.inFlight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("drain timeout exceeded, aborting remaining in-flight handlers")
	}
}
