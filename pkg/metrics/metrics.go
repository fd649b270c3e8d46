package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus-метрик сервиса
// Все методы безопасны для вызова на nil (метрики выключены)
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration  *prometheus.HistogramVec
	dbQueryErrors    *prometheus.CounterVec
	dbOpenConns      prometheus.Gauge
	dbInUseConns     prometheus.Gauge
	dbIdleConns      prometheus.Gauge
	dbWaitCount      prometheus.Gauge
	dbWaitDurationMs prometheus.Gauge

	admissionsTotal    *prometheus.CounterVec
	lotteryRunsTotal   *prometheus.CounterVec
	lotteryAllocations *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
}

// New создает и регистрирует метрики в стандартном реестре
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает и регистрирует метрики в указанном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		dbOpenConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}),
		dbInUseConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}),
		dbIdleConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}),
		dbWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}),
		dbWaitDurationMs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_duration_milliseconds",
			Help:        "Total time blocked waiting for a new connection",
			ConstLabels: constLabels,
		}),
		admissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservation_admissions_total",
			Help:        "Reservation admission decisions by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		lotteryRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "lottery_runs_total",
			Help:        "Lottery runs by trigger and result",
			ConstLabels: constLabels,
		}, []string{"trigger", "result"}),
		lotteryAllocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "lottery_allocations_total",
			Help:        "Reservations resolved by the lottery by new status",
			ConstLabels: constLabels,
		}, []string{"status"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_total",
			Help:        "Notifications sent by sink and result",
			ConstLabels: constLabels,
		}, []string{"sink", "result"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbOpenConns,
		m.dbInUseConns,
		m.dbIdleConns,
		m.dbWaitCount,
		m.dbWaitDurationMs,
		m.admissionsTotal,
		m.lotteryRunsTotal,
		m.lotteryAllocations,
		m.notificationsTotal,
	)

	return m
}

// ObserveHTTPRequest фиксирует HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetDBPoolStats обновляет показатели пула соединений
func (m *Metrics) SetDBPoolStats(open, inUse, idle int, waitCount int64, waitDuration time.Duration) {
	if m == nil {
		return
	}
	m.dbOpenConns.Set(float64(open))
	m.dbInUseConns.Set(float64(inUse))
	m.dbIdleConns.Set(float64(idle))
	m.dbWaitCount.Set(float64(waitCount))
	m.dbWaitDurationMs.Set(float64(waitDuration.Milliseconds()))
}

// ObserveAdmission фиксирует решение по заявке (confirmed, pending, duplicate, conflict, ...)
func (m *Metrics) ObserveAdmission(outcome string) {
	if m == nil {
		return
	}
	m.admissionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveLotteryRun фиксирует запуск лотереи
func (m *Metrics) ObserveLotteryRun(trigger, result string) {
	if m == nil {
		return
	}
	m.lotteryRunsTotal.WithLabelValues(trigger, result).Inc()
}

// ObserveLotteryAllocations фиксирует количество подтвержденных и отклоненных заявок
func (m *Metrics) ObserveLotteryAllocations(confirmed, rejected int) {
	if m == nil {
		return
	}
	m.lotteryAllocations.WithLabelValues("confirmed").Add(float64(confirmed))
	m.lotteryAllocations.WithLabelValues("rejected").Add(float64(rejected))
}

// ObserveNotification фиксирует отправку уведомления
func (m *Metrics) ObserveNotification(sink string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.notificationsTotal.WithLabelValues(sink, result).Inc()
}
