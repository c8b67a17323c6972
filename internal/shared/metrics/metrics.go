package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Rondel 轮盘服务的业务指标，实现 app/port.Metrics。
type Rondel struct {
	registry *prometheus.Registry
	messages *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

// New 使用独立 registry，避免测试之间重复注册冲突。
func New() *Rondel {
	r := &Rondel{
		registry: prometheus.NewRegistry(),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rondel",
			Name:      "messages_total",
			Help:      "Handled rondel messages by type and result code.",
		}, []string{"message", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rondel",
			Name:      "message_duration_seconds",
			Help:      "Latency of rondel message handling including persistence and publishing.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"message"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rondel",
			Name:      "move_outcomes_total",
			Help:      "Move decisions by outcome.",
		}, []string{"outcome"}),
	}
	r.registry.MustRegister(
		r.messages, r.latency, r.outcomes,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Rondel) ObserveMessage(message, code string, seconds float64) {
	r.messages.WithLabelValues(message, code).Inc()
	r.latency.WithLabelValues(message).Observe(seconds)
}

func (r *Rondel) ObserveOutcome(outcome string) {
	r.outcomes.WithLabelValues(outcome).Inc()
}

// Handler /metrics 暴露端点。
func (r *Rondel) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
