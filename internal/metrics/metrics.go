// Package metrics holds Prometheus instruments that are used across the
// forms server.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "form_active_sessions",
			Help: "Number of visitor sessions currently held in memory.",
		})

	SessionCreateTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "form_session_create_total",
			Help: "Cumulative number of sessions created.",
		})

	SessionEvictTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_session_evict_total",
			Help: "Cumulative number of sessions evicted, by reason (idle, capacity).",
		}, []string{"reason"})

	ActionsDispatchedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_actions_dispatched_total",
			Help: "Store actions dispatched, by reducer name.",
		}, []string{"reducer"})

	ValidationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_validation_failures_total",
			Help: "Field changes that produced an error, by form.",
		}, []string{"form"})

	SubmitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submits_total",
			Help: "Form submissions, by form and outcome (ok, invalid, rejected, error).",
		}, []string{"form", "outcome"})

	CSRFRejectTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "form_csrf_reject_total",
			Help: "POST requests refused for a missing or invalid CSRF token.",
		})
)

func init() {
	prometheus.MustRegister(
		ActiveSessions,
		SessionCreateTotal,
		SessionEvictTotal,
		ActionsDispatchedTotal,
		ValidationFailuresTotal,
		SubmitsTotal,
		CSRFRejectTotal,
	)
}
