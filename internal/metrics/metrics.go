// metrics содержит Prometheus-метрики обработчика новостей.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics — счётчик запросов и гистограмма длительности.
// Нулевой указатель допустим: методы становятся no-op.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New создаёт метрики и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "news",
			Name:      "requests_total",
			Help:      "Number of handled news requests by method and status code.",
		}, []string{"method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "news",
			Name:      "request_duration_seconds",
			Help:      "News request handling time.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	reg.MustRegister(m.requests, m.duration)

	return m
}

// MethodOther — метка для методов вне поддерживаемого набора.
const MethodOther = "OTHER"

// methodLabel сводит метод к закрытому набору значений метки.
func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return method
	default:
		return MethodOther
	}
}

// Observe фиксирует один обработанный запрос.
// status == 0 означает внутреннюю ошибку, отданную рантайму.
// Методы вне GET/POST/PUT/DELETE/OPTIONS учитываются под меткой OTHER.
func (m *Metrics) Observe(method string, status int, dur time.Duration) {
	if m == nil {
		return
	}

	method = methodLabel(method)

	code := "error"
	if status != 0 {
		code = strconv.Itoa(status)
	}

	m.requests.WithLabelValues(method, code).Inc()
	m.duration.WithLabelValues(method).Observe(dur.Seconds())
}
