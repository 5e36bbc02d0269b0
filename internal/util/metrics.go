package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PurchaseAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "purchase_attempts_total",
		Help: "Total number of purchase attempts",
	})

	PurchasesSucceededTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "purchases_succeeded_total",
		Help: "Total number of purchases that produced a payin",
	})

	PurchasesFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "purchases_failed_total",
		Help: "Total number of failed purchases",
	}, []string{"reason"})

	PayinsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payins_created_total",
		Help: "Total number of payins created at the provider",
	})

	PurchaseLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "purchase_latency_seconds",
		Help:    "End-to-end latency of purchase orchestration",
		Buckets: prometheus.DefBuckets,
	})

	GatewayRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_request_duration_seconds",
		Help:    "Latency of payment gateway requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"op", "status"})

	GatewayFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_failures_total",
		Help: "Total number of failed payment gateway requests",
	}, []string{"op", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
