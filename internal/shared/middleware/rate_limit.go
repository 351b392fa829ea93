package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v10"
	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/shared/response"
	"portfolio-backend/internal/shared/utils"
)

// RateLimit throttles a route group per client IP using redis_rate (GCRA).
// Redis failures let the request through.
func RateLimit(limiter *redis_rate.Limiter, scope string, limit redis_rate.Limit) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		key := "ratelimit:" + scope + ":" + utils.ExtractClientIP(c)
		res, err := limiter.Allow(c.Request.Context(), key, limit)
		if err != nil {
			log.Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if res.Allowed == 0 {
			c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
			response.TooManyRequests(c, "Too many requests, please slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
