package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// 交互操作
	InteractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hearth_interactions_total",
			Help: "Total number of interaction operations by kind and result",
		},
		[]string{"kind", "result"},
	)

	// 计数回算
	RecountRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hearth_recount_runs_total",
			Help: "Total number of counter recount runs by trigger",
		},
		[]string{"trigger"},
	)

	RecountCorrectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hearth_recount_corrections_total",
			Help: "Total number of post counters corrected by recount",
		},
		[]string{"column"},
	)

	// Binlog 消费
	ConsumedMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hearth_consumed_messages_total",
			Help: "Total number of canal messages consumed by table and result",
		},
		[]string{"table", "result"},
	)

	// API
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hearth_api_requests_total",
			Help: "Total number of API requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hearth_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func init() {
	prometheus.MustRegister(InteractionsTotal)
	prometheus.MustRegister(RecountRunsTotal)
	prometheus.MustRegister(RecountCorrectionsTotal)
	prometheus.MustRegister(ConsumedMessagesTotal)
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestDuration)
}

// Result 把错误折算为 ok / error 标签
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
