// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// importing this package is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "contactform_active_sessions",
			Help: "Number of visitor form states currently held in memory.",
		})

	SessionEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "contactform_session_evict_total",
			Help: "Cumulative number of visitor form states evicted.",
		})

	FieldChangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contactform_field_changes_total",
			Help: "Cumulative number of applied field changes, by field.",
		}, []string{"field"})

	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contactform_submissions_total",
			Help: "Cumulative number of submit attempts, by result (accepted, blocked).",
		}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		ActiveSessions,
		SessionEvictTotal,
		FieldChangesTotal,
		SubmissionsTotal,
	)
}
