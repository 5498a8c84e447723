package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBOpenConnections prometheus.Gauge
	DBInUse           prometheus.Gauge
	DBIdle            prometheus.Gauge

	BookingsCreated  prometheus.Counter
	BookingDecisions *prometheus.CounterVec
	BookingConflicts prometheus.Counter
}

// New создает метрики и регистрирует их в глобальном реестре
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests.",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency.",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries.",
			ConstLabels: labels,
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections.",
			ConstLabels: labels,
		}),
		DBInUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use.",
			ConstLabels: labels,
		}),
		DBIdle: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections.",
			ConstLabels: labels,
		}),
		BookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Total number of created bookings.",
			ConstLabels: labels,
		}),
		BookingDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_decisions_total",
			Help:        "Owner decisions on bookings.",
			ConstLabels: labels,
		}, []string{"decision"}),
		BookingConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "booking_conflicts_total",
			Help:        "Approvals rejected because the booking changed concurrently.",
			ConstLabels: labels,
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.BookingsCreated,
		m.BookingDecisions,
		m.BookingConflicts,
	)

	return m
}

// BookingCreated увеличивает счетчик созданных бронирований
// Безопасен для nil (метрики выключены)
func (m *Metrics) BookingCreated() {
	if m == nil {
		return
	}
	m.BookingsCreated.Inc()
}

// BookingDecided учитывает решение владельца (approved/rejected)
func (m *Metrics) BookingDecided(decision string) {
	if m == nil {
		return
	}
	m.BookingDecisions.WithLabelValues(decision).Inc()
}

// BookingConflict учитывает конфликт параллельного подтверждения
func (m *Metrics) BookingConflict() {
	if m == nil {
		return
	}
	m.BookingConflicts.Inc()
}
