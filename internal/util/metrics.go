package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_sessions_created_total",
		Help: "Total number of checkout sessions opened with the gateway",
	})

	SessionsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_sessions_failed_total",
		Help: "Total number of checkout session requests that failed",
	}, []string{"reason"})

	OrdersRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_recorded_total",
		Help: "Total number of paid sessions converted into orders",
	})

	OrdersReplayedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_replayed_total",
		Help: "Total number of verifications answered from the existing order record",
	})

	VerificationsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verifications_rejected_total",
		Help: "Total number of session verifications rejected",
	}, []string{"reason"})

	LoyaltyCreditsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loyalty_credits_total",
		Help: "Total number of loyalty credits applied",
	})

	LoyaltyCreditsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loyalty_credits_failed_total",
		Help: "Total number of loyalty credits that failed and were queued for retry",
	})

	LoyaltyRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loyalty_retries_total",
		Help: "Total number of loyalty credit retries processed by the worker",
	})

	CatalogCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Total number of product lookups served from cache",
	})

	CatalogCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_misses_total",
		Help: "Total number of product lookups that fell through to the database",
	})

	GatewayRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_request_latency_seconds",
		Help:    "Latency of payment gateway calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

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
