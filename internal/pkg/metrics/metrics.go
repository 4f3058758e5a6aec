package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the membership counters. A nil *Metrics is a no-op.
type Metrics struct {
	verifications *prometheus.CounterVec
	subscriptions *prometheus.CounterVec
	sweepExpired  prometheus.Counter
	sweepNotified prometheus.Counter
	sweepFailures prometheus.Counter
	sweepDuration prometheus.Histogram
}

// New creates the metrics and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		verifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "membership_qr_verifications_total",
				Help: "QR verifications by result and rejection reason",
			},
			[]string{"result", "reason"},
		),
		subscriptions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "membership_subscriptions_total",
				Help: "Created memberships by initial status",
			},
			[]string{"status"},
		),
		sweepExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "membership_sweep_expired_total",
			Help: "Memberships transitioned to expired by the sweeper",
		}),
		sweepNotified: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "membership_sweep_notified_total",
			Help: "Expiry notifications created by the sweeper",
		}),
		sweepFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "membership_sweep_notify_failures_total",
			Help: "Expiry notifications that failed and will be retried",
		}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "membership_sweep_duration_seconds",
			Help:    "Duration of expiration sweeps",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.verifications,
		m.subscriptions,
		m.sweepExpired,
		m.sweepNotified,
		m.sweepFailures,
		m.sweepDuration,
	)
	return m
}

// ObserveVerification records one verification; an empty reason means accepted
func (m *Metrics) ObserveVerification(reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		m.verifications.WithLabelValues("valid", "").Inc()
		return
	}
	m.verifications.WithLabelValues("invalid", reason).Inc()
}

// ObserveSubscription records a created membership
func (m *Metrics) ObserveSubscription(status string) {
	if m == nil {
		return
	}
	m.subscriptions.WithLabelValues(status).Inc()
}

// ObserveSweep records the outcome of one sweep
func (m *Metrics) ObserveSweep(expired, notified, failed int, took time.Duration) {
	if m == nil {
		return
	}
	m.sweepExpired.Add(float64(expired))
	m.sweepNotified.Add(float64(notified))
	m.sweepFailures.Add(float64(failed))
	m.sweepDuration.Observe(took.Seconds())
}
