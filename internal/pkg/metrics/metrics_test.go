package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveVerification("")
	m.ObserveVerification("mismatch")
	m.ObserveVerification("mismatch")
	m.ObserveSubscription("active")
	m.ObserveSweep(3, 2, 1, 50*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifications.WithLabelValues("valid", "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.verifications.WithLabelValues("invalid", "mismatch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.subscriptions.WithLabelValues("active")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sweepExpired))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sweepNotified))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sweepFailures))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveVerification("expired")
		m.ObserveSubscription("pending")
		m.ObserveSweep(1, 1, 0, time.Second)
	})
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
