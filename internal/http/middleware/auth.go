package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adamn1225/adam-noahs-stuff/internal/http/response"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/apierr"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/ctxutil"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
	"github.com/adamn1225/adam-noahs-stuff/internal/services"
)

// SessionCookie carries the admin JWT for browser clients.
const SessionCookie = "portfolio_session"

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// Attach resolves the session for every request. Missing or invalid tokens
// leave the request anonymous; routes that need a session add RequireAuth.
func (am *AuthMiddleware) Attach() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("Ignoring invalid session token", "error", err, "request_id", ctxutil.RequestID(c.Request.Context()))
			c.Next()
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ctxutil.IsAuthenticated(c.Request.Context()) {
			response.AbortAPIError(c, apierr.Unauthorized())
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if v, err := c.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(v)
	}
	return ""
}
