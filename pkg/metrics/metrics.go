package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Результаты операций со слотами
const (
	ReservationReserved         = "reserved"
	ReservationCapacityExceeded = "capacity_exceeded"
	ReservationReleased         = "released"
	ReservationReleaseNoop      = "release_noop"
	ReservationNotFound         = "not_found"
)

// Metrics набор prometheus-метрик сервиса.
// Все методы безопасны для nil-получателя, поэтому отключённые метрики передаются как nil.
type Metrics struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	dbQueries      *prometheus.HistogramVec
	dbConnections  *prometheus.GaugeVec
	reservations   *prometheus.CounterVec
	generationRuns *prometheus.CounterVec
	generatedSlots *prometheus.CounterVec
}

// New регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в reg
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),
		dbQueries: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation", "status"}),
		dbConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: labels,
		}, []string{"state"}),
		reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_reservations_total",
			Help:        "Slot capacity reserve/release outcomes",
			ConstLabels: labels,
		}, []string{"result"}),
		generationRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_generation_runs_total",
			Help:        "Slot generation runs by trigger and result",
			ConstLabels: labels,
		}, []string{"trigger", "result"}),
		generatedSlots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_generation_items_total",
			Help:        "Slot generation items by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.dbQueries,
		m.dbConnections,
		m.reservations,
		m.generationRuns,
		m.generatedSlots,
	)

	return m
}

// RecordHTTPRequest записывает выполненный HTTP запрос
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDBQuery реализует dbmetrics.Recorder
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dbQueries.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// SetDBConnections реализует dbmetrics.Recorder
func (m *Metrics) SetDBConnections(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.dbConnections.WithLabelValues("open").Set(float64(open))
	m.dbConnections.WithLabelValues("in_use").Set(float64(inUse))
	m.dbConnections.WithLabelValues("idle").Set(float64(idle))
}

// IncSlotReservation считает результат reserve/release
func (m *Metrics) IncSlotReservation(result string) {
	if m == nil {
		return
	}
	m.reservations.WithLabelValues(result).Inc()
}

// RecordSlotGeneration записывает итог прогона генератора слотов
func (m *Metrics) RecordSlotGeneration(trigger string, created, existing, failed int) {
	if m == nil {
		return
	}
	result := "ok"
	if failed > 0 {
		result = "partial"
	}
	m.generationRuns.WithLabelValues(trigger, result).Inc()
	m.generatedSlots.WithLabelValues("created").Add(float64(created))
	m.generatedSlots.WithLabelValues("existing").Add(float64(existing))
	m.generatedSlots.WithLabelValues("failed").Add(float64(failed))
}

// RecordSlotGenerationError записывает прогон генератора, завершившийся ошибкой
func (m *Metrics) RecordSlotGenerationError(trigger string) {
	if m == nil {
		return
	}
	m.generationRuns.WithLabelValues(trigger, "error").Inc()
}
