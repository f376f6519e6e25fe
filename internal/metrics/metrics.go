package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups all Prometheus instruments used across the five binaries.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	EventsPublished     *prometheus.CounterVec
	EventsPublishFailed *prometheus.CounterVec
	ConsumerOutcomes    *prometheus.CounterVec
	NotificationResults *prometheus.CounterVec
	RemindersSwept      prometheus.Counter
	RecurringSpawned    prometheus.Counter
	QueueDepthHigh      prometheus.Gauge
	QueueDepthNormal    prometheus.Gauge
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events successfully published to the broker.",
		}, []string{"topic"}),

		EventsPublishFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "events_publish_failed_total",
			Help: "Total number of events the broker rejected after all publish retries.",
		}, []string{"topic"}),

		ConsumerOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "consumer_outcomes_total",
			Help: "Total number of consumer route dispatches, by outcome.",
		}, []string{"route", "outcome"}),

		NotificationResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_dispatch_results_total",
			Help: "Total number of notification dispatch attempts, by channel and result.",
		}, []string{"channel", "result"}),

		RemindersSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reminders_swept_total",
			Help: "Total number of due reminders claimed by the sweep.",
		}),

		RecurringSpawned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recurring_tasks_spawned_total",
			Help: "Total number of next-occurrence tasks spawned by the recurring-task worker.",
		}),

		QueueDepthHigh: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "publish_queue_depth_high",
			Help: "Current number of items in the high-priority publish queue.",
		}),
		QueueDepthNormal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "publish_queue_depth_normal",
			Help: "Current number of items in the normal-priority publish queue.",
		}),
	}

	reg.MustRegister(
		m.EventsPublished,
		m.EventsPublishFailed,
		m.ConsumerOutcomes,
		m.NotificationResults,
		m.RemindersSwept,
		m.RecurringSpawned,
		m.QueueDepthHigh,
		m.QueueDepthNormal,
	)

	return m
}
