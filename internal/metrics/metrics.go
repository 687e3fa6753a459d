package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mystock_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mystock_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	TransactionsPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mystock_transactions_posted_total",
			Help: "Posted transactions by type.",
		},
		[]string{"type"},
	)

	PaymentsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mystock_payments_recorded_total",
			Help: "Payments recorded against transactions.",
		},
	)
)
