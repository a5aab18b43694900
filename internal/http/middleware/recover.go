package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/adamn1225/adam-noahs-stuff/internal/http/response"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/apierr"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/ctxutil"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
)

// Recover turns a handler panic into a 500 with the standard error body.
func Recover(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		if log != nil {
			log.Error("Panic while serving request",
				"panic", fmt.Sprint(recovered),
				"path", c.Request.URL.Path,
				"request_id", ctxutil.RequestID(c.Request.Context()),
			)
		}
		response.AbortAPIError(c, apierr.Internal("Internal server error", fmt.Errorf("panic: %v", recovered)))
	})
}
