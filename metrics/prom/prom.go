// Package prom exposes auth client workflow and notification events as
// Prometheus metrics.
package prom

import (
	"net/http"
	"time"

	authclient "github.com/goliatone/go-auth-client"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "auth_client"

var _ authclient.Metrics = &Collector{}

// Collector implements authclient.Metrics.
type Collector struct {
	workflows        *prometheus.CounterVec
	workflowDuration *prometheus.HistogramVec
	enqueued         *prometheus.CounterVec
	dismissed        *prometheus.CounterVec
	removed          prometheus.Counter
	active           prometheus.Gauge
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		workflows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflows_total",
			Help:      "Settled workflow runs by workflow and final state.",
		}, []string{"workflow", "state"}),
		workflowDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "workflow_duration_seconds",
			Help:      "Time from start to settle of a workflow run.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"workflow"}),
		enqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_enqueued_total",
			Help:      "Notifications added to the queue by severity.",
		}, []string{"severity"}),
		dismissed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_dismissed_total",
			Help:      "Notifications that started fading by reason.",
		}, []string{"reason"}),
		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_removed_total",
			Help:      "Notifications removed from the queue.",
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "notifications_active",
			Help:      "Notifications currently in the queue, fading ones included.",
		}),
	}

	reg.MustRegister(
		c.workflows,
		c.workflowDuration,
		c.enqueued,
		c.dismissed,
		c.removed,
		c.active,
	)

	return c
}

// WorkflowSettled records a settled run. Rejected runs never started, so
// they carry no duration.
func (c *Collector) WorkflowSettled(workflow authclient.Workflow, state authclient.WorkflowState, elapsed time.Duration) {
	c.workflows.WithLabelValues(string(workflow), string(state)).Inc()
	if state == authclient.StateRejected {
		return
	}
	c.workflowDuration.WithLabelValues(string(workflow)).Observe(elapsed.Seconds())
}

// NotificationEnqueued records a new notification.
func (c *Collector) NotificationEnqueued(severity authclient.Severity) {
	c.enqueued.WithLabelValues(string(severity)).Inc()
	c.active.Inc()
}

// NotificationDismissed records a notification that started fading.
func (c *Collector) NotificationDismissed(reason authclient.DismissReason) {
	c.dismissed.WithLabelValues(string(reason)).Inc()
}

// NotificationRemoved records a removal.
func (c *Collector) NotificationRemoved() {
	c.removed.Inc()
	c.active.Dec()
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
