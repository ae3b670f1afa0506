package authclient

import "time"

// Metrics receives workflow and notification events. Implementations must
// be safe for concurrent use; the prom package provides a Prometheus backed one.
type Metrics interface {
	WorkflowSettled(workflow Workflow, state WorkflowState, elapsed time.Duration)
	NotificationEnqueued(severity Severity)
	NotificationDismissed(reason DismissReason)
	NotificationRemoved()
}

type noopMetrics struct{}

func (noopMetrics) WorkflowSettled(Workflow, WorkflowState, time.Duration) {}
func (noopMetrics) NotificationEnqueued(Severity)                          {}
func (noopMetrics) NotificationDismissed(DismissReason)                    {}
func (noopMetrics) NotificationRemoved()                                   {}

func normalizeMetrics(m Metrics) Metrics {
	if m == nil {
		return noopMetrics{}
	}
	return m
}
