package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adamn1225/adam-noahs-stuff/internal/http/middleware"
	"github.com/adamn1225/adam-noahs-stuff/internal/http/response"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/ctxutil"
	"github.com/adamn1225/adam-noahs-stuff/internal/services"
)

type CookieConfig struct {
	Secure bool
	Domain string
}

type AuthHandler struct {
	authService services.AuthService
	cookie      CookieConfig
}

func NewAuthHandler(authService services.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// POST /auth/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	token, expiresAt, err := ah.authService.Login(c.Request.Context(), req.Password)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	maxAge := int(time.Until(expiresAt).Seconds())
	ah.setCookie(c, token, maxAge)
	response.RespondOK(c, gin.H{
		"success":    true,
		"token":      token,
		"expires_in": int(ah.authService.GetSessionTTL().Seconds()),
	})
}

// POST /auth/logout
func (ah *AuthHandler) Logout(c *gin.Context) {
	ah.setCookie(c, "", -1)
	response.RespondOK(c, gin.H{"success": true})
}

// GET /auth/session
func (ah *AuthHandler) Session(c *gin.Context) {
	out := gin.H{"authenticated": false}
	if sess := ctxutil.GetSession(c.Request.Context()); sess != nil {
		out["authenticated"] = true
		out["expires_at"] = sess.ExpiresAt.UTC().Format(time.RFC3339)
	}
	response.RespondOK(c, out)
}

func (ah *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", ah.cookie.Domain, ah.cookie.Secure, true)
}
