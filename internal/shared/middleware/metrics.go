package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-backend/pkg/metrics"
)

// Metrics records http_requests_total and http_request_duration_seconds.
// Unmatched routes are labelled "<no-route>".
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "<no-route>"
		}

		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
