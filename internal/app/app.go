package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	apphttp "github.com/adamn1225/adam-noahs-stuff/internal/http"
	"github.com/adamn1225/adam-noahs-stuff/internal/observability"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Router   *gin.Engine
	Cfg      Config
	Clients  Clients
	Services Services
	Metrics  *observability.Metrics

	server       *apphttp.Server
	shutdownOTel func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}
	if gin.Mode() != gin.TestMode && cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	otelCfg := cfg.OTel
	otelCfg.Environment = cfg.Env
	shutdownOTel := observability.InitOTel(ctx, log, otelCfg)

	metrics := observability.NewMetrics()

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = shutdownOTel(ctx)
		log.Sync()
		return nil, err
	}

	serviceset, err := wireServices(log, cfg, clients, metrics)
	if err != nil {
		clients.Close()
		_ = shutdownOTel(ctx)
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, cfg, serviceset)
	middleware := wireMiddleware(log, serviceset)
	routerCfg := wireRouterConfig(log, cfg, clients, metrics, handlerset, middleware)
	server := apphttp.NewServer(routerCfg)

	return &App{
		Log:          log,
		Router:       server.Engine,
		Cfg:          cfg,
		Clients:      clients,
		Services:     serviceset,
		Metrics:      metrics,
		server:       server,
		shutdownOTel: shutdownOTel,
	}, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.server.Run(ctx, a.Cfg.HTTP.Addr, a.Cfg.HTTP.ShutdownTimeout.Duration)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.shutdownOTel != nil {
		if err := a.shutdownOTel(context.Background()); err != nil && a.Log != nil {
			a.Log.Warn("OpenTelemetry shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
