package http

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/adamn1225/adam-noahs-stuff/internal/http/handlers"
	httpMW "github.com/adamn1225/adam-noahs-stuff/internal/http/middleware"
	"github.com/adamn1225/adam-noahs-stuff/internal/observability"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/ratelimit"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	ServiceName string
	CORSOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware
	AuthHandler    *httpH.AuthHandler
	ProjectHandler *httpH.ProjectHandler
	AssistHandler  *httpH.AssistHandler
	UploadHandler  *httpH.UploadHandler
	ContactHandler *httpH.ContactHandler
	CoverHandler   *httpH.CoverHandler
	HealthHandler  *httpH.HealthHandler

	LoginLimiter   ratelimit.Limiter
	ContactLimiter ratelimit.Limiter

	MaxJSONBytes   int64
	MaxUploadBytes int64

	// UploadsDir is served at UploadsPrefix when uploads are kept on local disk.
	UploadsDir    string
	UploadsPrefix string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.NewNop()
	}

	r := gin.New()
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.Recover(log))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	if cfg.AuthMiddleware != nil {
		r.Use(cfg.AuthMiddleware.Attach())
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	if cfg.UploadsDir != "" {
		prefix := cfg.UploadsPrefix
		if prefix == "" {
			prefix = "/uploads"
		}
		r.Static("/"+strings.Trim(prefix, "/"), cfg.UploadsDir)
	}

	// The admin UI historically called /api/*; both trees share handlers.
	mountAPI(r.Group(""), cfg, log)
	api := mountAPI(r.Group("/api"), cfg, log)
	if cfg.AssistHandler != nil {
		api.POST("/ai", append(protected(cfg), httpMW.MaxBody(cfg.MaxJSONBytes), cfg.AssistHandler.Assist)...)
	}

	return r
}

func protected(cfg RouterConfig) []gin.HandlerFunc {
	if cfg.AuthMiddleware == nil {
		return nil
	}
	return []gin.HandlerFunc{cfg.AuthMiddleware.RequireAuth()}
}

func mountAPI(g *gin.RouterGroup, cfg RouterConfig, log *logger.Logger) *gin.RouterGroup {
	jsonLimit := httpMW.MaxBody(cfg.MaxJSONBytes)
	auth := protected(cfg)
	with := func(hs ...gin.HandlerFunc) []gin.HandlerFunc {
		out := make([]gin.HandlerFunc, 0, len(auth)+len(hs))
		out = append(out, auth...)
		return append(out, hs...)
	}

	// Projects
	if cfg.ProjectHandler != nil {
		g.GET("/projects", cfg.ProjectHandler.List)
		g.GET("/projects/:id", cfg.ProjectHandler.Get)
		g.POST("/projects", with(jsonLimit, cfg.ProjectHandler.Create)...)
		g.PUT("/projects", with(jsonLimit, cfg.ProjectHandler.Update)...)
		g.DELETE("/projects", with(cfg.ProjectHandler.Delete)...)
	}
	if cfg.CoverHandler != nil {
		g.GET("/projects/:id/cover.png", cfg.CoverHandler.Cover)
	}

	// Assist
	if cfg.AssistHandler != nil {
		g.POST("/assist", with(jsonLimit, cfg.AssistHandler.Assist)...)
		g.GET("/assist/status", with(cfg.AssistHandler.Status)...)
	}

	// Auth
	if cfg.AuthHandler != nil {
		login := []gin.HandlerFunc{jsonLimit}
		if cfg.LoginLimiter != nil {
			login = append([]gin.HandlerFunc{httpMW.RateLimit(cfg.LoginLimiter, "login", cfg.Metrics, log)}, login...)
		}
		g.POST("/auth/login", append(login, cfg.AuthHandler.Login)...)
		g.POST("/auth/logout", cfg.AuthHandler.Logout)
		g.GET("/auth/session", cfg.AuthHandler.Session)
	}

	// Uploads
	if cfg.UploadHandler != nil {
		g.POST("/upload", with(httpMW.MaxBody(multipartCap(cfg.MaxUploadBytes)), cfg.UploadHandler.Upload)...)
	}

	// Contact
	if cfg.ContactHandler != nil {
		submit := []gin.HandlerFunc{jsonLimit}
		if cfg.ContactLimiter != nil {
			submit = append([]gin.HandlerFunc{httpMW.RateLimit(cfg.ContactLimiter, "contact", cfg.Metrics, log)}, submit...)
		}
		g.POST("/contact", append(submit, cfg.ContactHandler.Submit)...)
		g.GET("/contact/messages", with(cfg.ContactHandler.ListMessages)...)
	}

	return g
}

// multipartCap leaves room for multipart framing around the file itself.
func multipartCap(fileMax int64) int64 {
	if fileMax <= 0 {
		return 0
	}
	return fileMax + 1<<20
}
