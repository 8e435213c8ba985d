package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	DBQueryDuration     *prometheus.HistogramVec
	DBOpenConnections   *prometheus.GaugeVec
	ReservationsTotal   *prometheus.CounterVec
	ClaimConflictsTotal *prometheus.CounterVec
	LockWaitDuration    *prometheus.HistogramVec
}

// New создает и регистрирует метрики
// serviceName добавляется константной меткой service
func New(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Количество HTTP запросов",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "Длительность обработки HTTP запросов",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Длительность запросов к БД",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Состояние пула соединений",
			ConstLabels: labels,
		}, []string{"state"}),

		ReservationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservations_total",
			Help:        "Результаты попыток бронирования",
			ConstLabels: labels,
		}, []string{"outcome"}),

		ClaimConflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_claim_conflicts_total",
			Help:        "Количество конфликтов при захвате слота врача",
			ConstLabels: labels,
		}, []string{"department"}),

		LockWaitDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "slot_lock_wait_seconds",
			Help:        "Время ожидания блокировки слота",
			ConstLabels: labels,
			Buckets:     []float64{.001, .01, .05, .1, .5, 1, 2, 5},
		}, []string{"acquired"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.ReservationsTotal,
		m.ClaimConflictsTotal,
		m.LockWaitDuration,
	)

	return m
}

// ObserveReservation учитывает результат бронирования
func (m *Metrics) ObserveReservation(outcome string) {
	m.ReservationsTotal.WithLabelValues(outcome).Inc()
}

// ObserveClaimConflict учитывает конфликт захвата слота
func (m *Metrics) ObserveClaimConflict(department string) {
	m.ClaimConflictsTotal.WithLabelValues(department).Inc()
}

// ObserveLockWait учитывает время ожидания блокировки
func (m *Metrics) ObserveLockWait(wait time.Duration, acquired bool) {
	label := "false"
	if acquired {
		label = "true"
	}
	m.LockWaitDuration.WithLabelValues(label).Observe(wait.Seconds())
}
