package app

import (
	apphttp "github.com/adamn1225/adam-noahs-stuff/internal/http"
	httpH "github.com/adamn1225/adam-noahs-stuff/internal/http/handlers"
	httpMW "github.com/adamn1225/adam-noahs-stuff/internal/http/middleware"
	"github.com/adamn1225/adam-noahs-stuff/internal/observability"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/objectstore"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health  *httpH.HealthHandler
	Auth    *httpH.AuthHandler
	Project *httpH.ProjectHandler
	Assist  *httpH.AssistHandler
	Upload  *httpH.UploadHandler
	Contact *httpH.ContactHandler
	Cover   *httpH.CoverHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(),
		Auth: httpH.NewAuthHandler(services.Auth, httpH.CookieConfig{
			Secure: cfg.Auth.CookieSecure || cfg.IsProduction(),
			Domain: cfg.Auth.CookieDomain,
		}),
		Project: httpH.NewProjectHandler(services.Catalog),
		Assist:  httpH.NewAssistHandler(services.Assist),
		Upload:  httpH.NewUploadHandler(services.Media),
		Contact: httpH.NewContactHandler(services.Contact),
		Cover:   httpH.NewCoverHandler(services.Cover),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouterConfig(log *logger.Logger, cfg Config, clients Clients, metrics *observability.Metrics, handlers Handlers, middleware Middleware) apphttp.RouterConfig {
	rc := apphttp.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		AuthMiddleware: middleware.Auth,
		AuthHandler:    handlers.Auth,
		ProjectHandler: handlers.Project,
		AssistHandler:  handlers.Assist,
		UploadHandler:  handlers.Upload,
		ContactHandler: handlers.Contact,
		CoverHandler:   handlers.Cover,
		HealthHandler:  handlers.Health,
		LoginLimiter:   clients.LoginLimiter,
		ContactLimiter: clients.ContactLimiter,
		MaxJSONBytes:   cfg.HTTP.MaxJSONBytes,
		MaxUploadBytes: cfg.Media.MaxBytes,
	}
	if cfg.OTel.Enabled {
		rc.ServiceName = cfg.OTel.ServiceName
	}
	if local, ok := clients.Objects.(*objectstore.Local); ok {
		rc.UploadsDir = local.Dir()
		rc.UploadsPrefix = cfg.Media.Store.PublicPrefix
	}
	return rc
}
