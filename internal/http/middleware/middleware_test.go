package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/adamn1225/adam-noahs-stuff/internal/observability"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/ctxutil"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/ratelimit"
	"github.com/adamn1225/adam-noahs-stuff/internal/services"
)

func newAuth(t *testing.T) (*AuthMiddleware, string) {
	t.Helper()
	svc := services.NewAuthService(logger.NewNop(), services.AuthConfig{Password: "pw", JWTSecret: "secret"})
	tok, _, err := svc.Login(context.Background(), "pw")
	require.NoError(t, err)
	return NewAuthMiddleware(logger.NewNop(), svc), tok
}

func TestAuthAttachAndRequire(t *testing.T) {
	gin.SetMode(gin.TestMode)
	am, tok := newAuth(t)

	r := gin.New()
	r.Use(am.Attach())
	r.GET("/open", func(c *gin.Context) {
		c.String(http.StatusOK, "%v", ctxutil.IsAuthenticated(c.Request.Context()))
	})
	r.GET("/closed", am.RequireAuth(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	cases := []struct {
		name   string
		path   string
		set    func(*http.Request)
		status int
		body   string
	}{
		{"anonymous open", "/open", func(*http.Request) {}, http.StatusOK, "false"},
		{"bearer open", "/open", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }, http.StatusOK, "true"},
		{"cookie open", "/open", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok}) }, http.StatusOK, "true"},
		{"garbage token stays anonymous", "/open", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusOK, "false"},
		{"anonymous closed", "/closed", func(*http.Request) {}, http.StatusUnauthorized, `"code":"unauthorized"`},
		{"bearer closed", "/closed", func(r *http.Request) { r.Header.Set("Authorization", "bearer "+tok) }, http.StatusNoContent, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			tc.set(req)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			require.Equal(t, tc.status, rec.Code)
			require.Contains(t, rec.Body.String(), tc.body)
		})
	}
}

type errLimiter struct{}

func (errLimiter) Allow(context.Context, string) (bool, error) { return false, errors.New("redis down") }

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := observability.NewMetrics()
	limiter := ratelimit.NewMemory(ratelimit.Rule{Limit: 1, Window: time.Hour}, nil)

	r := gin.New()
	r.POST("/login", RateLimit(limiter, "login", metrics, logger.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/open", RateLimit(errLimiter{}, "open", metrics, logger.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		return rec
	}
	require.Equal(t, http.StatusOK, do("/login").Code)
	rec := do("/login")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Contains(t, rec.Body.String(), `"code":"rate_limited"`)

	require.Equal(t, http.StatusOK, do("/open").Code, "limiter errors let requests through")
}

func TestMaxBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/echo", MaxBody(4), func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("abc")))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("abcdef")))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRecoverReturns500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recover(logger.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "boom")
}
