// Package metrics регистрирует метрики Prometheus сервиса.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор счётчиков и гистограмм сервиса.
type Metrics struct {
	registry          *prometheus.Registry
	subscriptions     *prometheus.CounterVec
	subscribeRejected *prometheus.CounterVec
	authAttempts      *prometheus.CounterVec
	promoChecks       *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
}

// New создаёт метрики в отдельном реестре вместе со стандартными метриками процесса и Go runtime.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		subscriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursehub",
			Name:      "subscriptions_created_total",
			Help:      "Created course subscriptions by pricing kind.",
		}, []string{"kind"}),
		subscribeRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursehub",
			Name:      "subscribe_rejected_total",
			Help:      "Rejected subscribe attempts by error kind.",
		}, []string{"reason"}),
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursehub",
			Name:      "auth_attempts_total",
			Help:      "Signup and login attempts by result.",
		}, []string{"action", "result"}),
		promoChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursehub",
			Name:      "promo_checks_total",
			Help:      "Promo code validations by outcome.",
		}, []string{"valid"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coursehub",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.subscriptions,
		m.subscribeRejected,
		m.authAttempts,
		m.promoChecks,
		m.requestDuration,
	)
	return m
}

// Handler отдаёт метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SubscriptionCreated учитывает новую подписку.
func (m *Metrics) SubscriptionCreated(free bool) {
	kind := "paid"
	if free {
		kind = "free"
	}
	m.subscriptions.WithLabelValues(kind).Inc()
}

// SubscribeRejected учитывает отказ в подписке.
func (m *Metrics) SubscribeRejected(reason string) {
	m.subscribeRejected.WithLabelValues(reason).Inc()
}

// AuthAttempt учитывает попытку регистрации или входа.
func (m *Metrics) AuthAttempt(action string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.authAttempts.WithLabelValues(action, result).Inc()
}

// PromoChecked учитывает проверку промокода.
func (m *Metrics) PromoChecked(valid bool) {
	m.promoChecks.WithLabelValues(strconv.FormatBool(valid)).Inc()
}

// Middleware измеряет длительность обработки запросов.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestDuration.WithLabelValues(r.Method, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}

// Noop реализация для тестов и запуска без метрик.
type Noop struct{}

func (Noop) SubscriptionCreated(bool) {}
func (Noop) SubscribeRejected(string) {}
func (Noop) AuthAttempt(string, bool) {}
func (Noop) PromoChecked(bool)        {}
