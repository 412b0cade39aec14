// Package observer holds the prometheus instruments of the service.
package observer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess          = "success"
	OutcomeFailure          = "failure"
	OutcomeUnreachable      = "unreachable"
	OutcomeRefused          = "refused"
	OutcomeFailedButRemoved = "failed_but_removed"
	OutcomeInvalid          = "invalid"
)

var (
	upstreamLabels = []string{"service", "op", "outcome"}
	actionLabels   = []string{"action", "outcome"}
	intakeLabels   = []string{"outcome"}
)

// Metrics groups the counters and histograms recorded by the clients and services.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamDurationSeconds *prometheus.HistogramVec
	LeadActionsTotal        *prometheus.CounterVec
	IntakeSubmissionsTotal  *prometheus.CounterVec
	SourceFallbacksTotal    prometheus.Counter
}

// New registers the instruments on reg. Pass prometheus.DefaultRegisterer in
// production and prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UpstreamRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisory_upstream_requests_total",
				Help: "Calls to the record store and the workflow webhook, by outcome.",
			},
			upstreamLabels,
		),
		UpstreamDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "advisory_upstream_request_duration_seconds",
				Help:    "Latency of calls to the record store and the workflow webhook.",
				Buckets: prometheus.ExponentialBuckets(0.025, 2, 10), // 25ms to ~13s
			},
			[]string{"service", "op"},
		),
		LeadActionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisory_lead_actions_total",
				Help: "Operator actions on leads, by action and outcome.",
			},
			actionLabels,
		),
		IntakeSubmissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisory_intake_submissions_total",
				Help: "Intake form submissions, by outcome.",
			},
			intakeLabels,
		),
		SourceFallbacksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "advisory_source_fallbacks_total",
			Help: "Reads served from demo data because the primary source failed or is unconfigured.",
		}),
	}
}

// ObserveUpstream records one upstream call.
func (m *Metrics) ObserveUpstream(service, op, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.UpstreamRequestsTotal.WithLabelValues(service, op, outcome).Inc()
	m.UpstreamDurationSeconds.WithLabelValues(service, op).Observe(time.Since(started).Seconds())
}

// ObserveAction records one operator action outcome.
func (m *Metrics) ObserveAction(action, outcome string) {
	if m == nil {
		return
	}
	m.LeadActionsTotal.WithLabelValues(action, outcome).Inc()
}

// ObserveIntake records one intake submission outcome.
func (m *Metrics) ObserveIntake(outcome string) {
	if m == nil {
		return
	}
	m.IntakeSubmissionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveFallback records a read served from demo data.
func (m *Metrics) ObserveFallback() {
	if m == nil {
		return
	}
	m.SourceFallbacksTotal.Inc()
}
