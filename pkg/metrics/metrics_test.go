package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_DomainCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry("shareit", reg)

	m.BookingCreated()
	m.BookingCreated()
	m.BookingDecided("approved")
	m.BookingDecided("rejected")
	m.BookingDecided("approved")
	m.BookingConflict()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingsCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingDecisions.WithLabelValues("approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingDecisions.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingConflicts))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.BookingCreated()
		m.BookingDecided("approved")
		m.BookingConflict()
	})
}

func TestMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewWithRegistry("shareit", reg)

	assert.Panics(t, func() {
		NewWithRegistry("shareit", reg)
	})
}
