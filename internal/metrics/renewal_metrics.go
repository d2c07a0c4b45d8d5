package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RenewalMetrics records what the subscription renewal job does.
type RenewalMetrics interface {
	ObserveRun(trigger string, duration time.Duration, err error)
	IncOutcome(outcome string)
	ObserveDue(n int)
}

type renewalMetrics struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
	due      prometheus.Gauge
}

// NewRenewalMetrics registers the renewal collectors on registry.
func NewRenewalMetrics(registry *prometheus.Registry) RenewalMetrics {
	return &renewalMetrics{
		runs: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "grocer_renewal_runs_total",
				Help: "Renewal runs by trigger and result",
			},
			[]string{"trigger", "result"},
		),
		duration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "grocer_renewal_run_duration_seconds",
				Help:    "Wall time of a renewal run",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"trigger"},
		),
		outcomes: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "grocer_renewal_subscriptions_total",
				Help: "Subscriptions processed by outcome (renewed, cancelled, failed)",
			},
			[]string{"outcome"},
		),
		due: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "grocer_renewal_due_subscriptions",
				Help: "Subscriptions found due by the last run",
			},
		),
	}
}

func (m *renewalMetrics) ObserveRun(trigger string, duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.runs.WithLabelValues(trigger, result).Inc()
	m.duration.WithLabelValues(trigger).Observe(duration.Seconds())
}

func (m *renewalMetrics) IncOutcome(outcome string) {
	m.outcomes.WithLabelValues(outcome).Inc()
}

func (m *renewalMetrics) ObserveDue(n int) {
	m.due.Set(float64(n))
}

// Nop returns RenewalMetrics that records nothing.
func Nop() RenewalMetrics { return nopRenewal{} }

type nopRenewal struct{}

func (nopRenewal) ObserveRun(string, time.Duration, error) {}
func (nopRenewal) IncOutcome(string)                       {}
func (nopRenewal) ObserveDue(int)                          {}
