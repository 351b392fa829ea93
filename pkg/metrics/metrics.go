// Package metrics registers the Prometheus collectors exposed on GET /metrics.
//
// HTTP metrics are labelled with the gin route template (c.FullPath()), not the raw URL.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)
)

// Domain
var (
	// BlogPostViewsTotal counts successful public reads of published posts.
	BlogPostViewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blog_post_views_total",
			Help: "Total number of published blog post views served.",
		},
	)

	// EmailSendTotal counts email attempts by template kind and result (sent, failed).
	EmailSendTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_send_total",
			Help: "Total number of transactional email send attempts, by template kind and result.",
		},
		[]string{"kind", "result"},
	)

	// AdminOTPTotal counts login flow events: issued, delivery_failed, verified, rejected, expired_session.
	AdminOTPTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_otp_total",
			Help: "Admin one-time-password login events, by event.",
		},
		[]string{"event"},
	)

	// ServiceQueriesTotal counts persisted contact submissions.
	ServiceQueriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "service_queries_total",
			Help: "Total number of service queries accepted.",
		},
	)

	// ChatbotRequestsTotal counts chatbot calls by mode (plain, stream) and result (ok, error).
	ChatbotRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_requests_total",
			Help: "Total number of chatbot requests, by mode and result.",
		},
		[]string{"mode", "result"},
	)
)
