package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/taskflow/eventcore/internal/api/handler"
	apimw "github.com/taskflow/eventcore/internal/api/middleware"
	"github.com/taskflow/eventcore/internal/publisher"
	"github.com/taskflow/eventcore/internal/reminder"
	"github.com/taskflow/eventcore/internal/service"
)

// NewRouter wires the chi router, attaches all middleware, and registers
// every route. It is the single source of truth for the HTTP surface area
// of the task-ownership API (cmd/api).
func NewRouter(
	taskSvc *service.TaskService,
	categorySvc *service.CategoryService,
	recurrenceSvc *service.RecurrenceService,
	reminderSvc *reminder.Service,
	q *publisher.Queue,
	reg prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)            // recover panics, return 500
	r.Use(chimw.RealIP)               // trust X-Forwarded-For / X-Real-IP
	r.Use(chimw.RequestSize(1 << 20)) // 1 MB max request body
	r.Use(apimw.CorrelationID)        // X-Correlation-ID inject / echo
	r.Use(apimw.UserID)               // X-User-ID task-ownership scope
	r.Use(apimw.RequestLogger(logger))

	// --- handler instances ---
	th := handler.NewTaskHandler(taskSvc, logger)
	ch := handler.NewCategoryHandler(categorySvc, logger)
	rh := handler.NewRecurrenceHandler(recurrenceSvc, logger)
	remh := handler.NewReminderHandler(reminderSvc, logger)
	mh := handler.NewMetricsHandler(q)
	hh := handler.NewHealthHandler()

	// --- routes ---
	r.Get("/health", hh.Health)

	// Raw Prometheus scrape endpoint (for Prometheus server / Grafana)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		// Tasks — note: /reminder(s)/recurring must be registered before a
		// bare /{id} route is added for the same verb so chi's literal
		// segments win over the wildcard.
		r.Post("/tasks", th.Create)
		r.Get("/tasks", th.List)
		r.Delete("/tasks/reminders/{id}", remh.Cancel)
		r.Get("/tasks/{id}", th.Get)
		r.Put("/tasks/{id}", th.Update)
		r.Patch("/tasks/{id}/complete", th.Complete)
		r.Delete("/tasks/{id}", th.Delete)

		r.Post("/tasks/{id}/reminder", remh.Create)
		r.Get("/tasks/{id}/reminders", remh.List)

		r.Post("/tasks/{id}/recurring", rh.Create)
		r.Get("/tasks/{id}/recurring", rh.Get)

		// Categories
		r.Post("/categories", ch.Create)
		r.Get("/categories", ch.List)
		r.Delete("/categories/{id}", ch.Delete)

		// JSON metrics snapshot
		r.Get("/metrics", mh.GetMetrics)
	})

	return r
}
