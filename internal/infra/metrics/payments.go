package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentsTotal,
		paymentsRevenueTotal,
		paymentsBackfilledTotal,
	)
}

var (
	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payment intents by status (pending/paid).",
		},
		[]string{"status"},
	)

	paymentsRevenueTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_revenue_brl_total",
			Help: "Total BRL value of confirmed payments.",
		},
	)

	paymentsBackfilledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_backfilled_total",
			Help: "Paid records created during a check because the creation-time write was lost.",
		},
	)
)

func IncPayment(status string) {
	paymentsTotal.WithLabelValues(norm(status)).Inc()
}

func AddPaymentRevenue(amountBRL float64) {
	paymentsRevenueTotal.Add(amountBRL)
}

func IncPaymentBackfilled() {
	paymentsBackfilledTotal.Inc()
}
