package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		gatewayCallsTotal,
		gatewayCallLatency,
	)
}

var (
	// op: create|status
	gatewayCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pix_gateway_calls_total",
			Help: "Outbound PIX gateway calls by operation and success.",
		},
		[]string{"op", "success"},
	)

	gatewayCallLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pix_gateway_call_latency_ms",
			Help:    "PIX gateway call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"op"},
	)
)

func ObserveGatewayCall(op string, latencyMs int, success bool) {
	gatewayCallsTotal.WithLabelValues(norm(op), strconv.FormatBool(success)).Inc()
	gatewayCallLatency.WithLabelValues(norm(op)).Observe(float64(latencyMs))
}
