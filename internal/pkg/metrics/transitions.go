// Package metrics exposes prometheus instruments for the order lifecycle.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// TransitionMetrics records lifecycle transitions and notification fan-out.
// A nil *TransitionMetrics is a valid no-op recorder.
type TransitionMetrics struct {
	transitions   *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	notifications *prometheus.CounterVec
	auditFailures prometheus.Counter
	spoolDepth    *prometheus.GaugeVec
}

// NewTransitionMetrics registers the instruments on reg. A nil reg yields a no-op recorder.
func NewTransitionMetrics(reg prometheus.Registerer) *TransitionMetrics {
	if reg == nil {
		return &TransitionMetrics{}
	}
	m := &TransitionMetrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fieldservice_transitions_total",
			Help: "Order lifecycle transitions by operation, outcome and error kind.",
		}, []string{"operation", "outcome", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fieldservice_transition_duration_seconds",
			Help:    "Duration of order lifecycle transitions.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fieldservice_notifications_total",
			Help: "Notification rows produced by fan-out, by type and result.",
		}, []string{"type", "result"}),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fieldservice_audit_write_failures_total",
			Help: "Audit records that could not be written inside their transition.",
		}),
		spoolDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fieldservice_redelivery_spool_depth",
			Help: "Rows waiting in the in-memory redelivery spools.",
		}, []string{"spool"}),
	}
	reg.MustRegister(m.transitions, m.duration, m.notifications, m.auditFailures, m.spoolDepth)
	return m
}

// ObserveTransition records one transition attempt.
func (m *TransitionMetrics) ObserveTransition(operation, kind string, elapsed time.Duration) {
	if m == nil || m.transitions == nil {
		return
	}
	outcome := OutcomeSuccess
	if kind != "" {
		outcome = OutcomeFailure
	}
	op := normalizeLabel(operation)
	m.transitions.WithLabelValues(op, outcome, kind).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// AddNotifications records delivered and failed rows for a notification type.
func (m *TransitionMetrics) AddNotifications(notificationType string, delivered, failed int) {
	if m == nil || m.notifications == nil {
		return
	}
	t := normalizeLabel(notificationType)
	m.notifications.WithLabelValues(t, OutcomeSuccess).Add(float64(delivered))
	m.notifications.WithLabelValues(t, OutcomeFailure).Add(float64(failed))
}

// IncAuditFailure records an audit write that was downgraded to a warning.
func (m *TransitionMetrics) IncAuditFailure() {
	if m == nil || m.auditFailures == nil {
		return
	}
	m.auditFailures.Inc()
}

// SetSpoolDepth publishes how many rows wait in the named redelivery spool.
func (m *TransitionMetrics) SetSpoolDepth(spool string, depth int) {
	if m == nil || m.spoolDepth == nil {
		return
	}
	m.spoolDepth.WithLabelValues(normalizeLabel(spool)).Set(float64(depth))
}

func normalizeLabel(value string) string {
	label := strings.TrimSpace(strings.ToLower(value))
	if label == "" {
		return "unknown"
	}
	return strings.ReplaceAll(label, " ", "_")
}
