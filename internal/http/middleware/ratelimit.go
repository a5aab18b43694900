package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/adamn1225/adam-noahs-stuff/internal/http/response"
	"github.com/adamn1225/adam-noahs-stuff/internal/observability"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/apierr"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/ratelimit"
)

// RateLimit rejects callers over the limit with 429, keyed by client IP.
// Limiter failures let the request through.
func RateLimit(limiter ratelimit.Limiter, scope string, metrics *observability.Metrics, log *logger.Logger) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		ok, err := limiter.Allow(c.Request.Context(), scope+":"+c.ClientIP())
		if err != nil {
			if log != nil {
				log.Warn("Rate limiter unavailable", "scope", scope, "error", err)
			}
			c.Next()
			return
		}
		if !ok {
			metrics.IncRateLimited(scope)
			response.AbortAPIError(c, apierr.RateLimited())
			return
		}
		c.Next()
	}
}
