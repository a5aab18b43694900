package app

import (
	"fmt"

	"github.com/adamn1225/adam-noahs-stuff/internal/data/inbox"
	"github.com/adamn1225/adam-noahs-stuff/internal/observability"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
	"github.com/adamn1225/adam-noahs-stuff/internal/services"
)

type Services struct {
	Auth    services.AuthService
	Catalog services.CatalogService
	Assist  services.AssistService
	Media   services.MediaService
	Contact services.ContactService
	Cover   services.CoverService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	authService := services.NewAuthService(log, services.AuthConfig{
		Password:     cfg.Auth.AdminPassword,
		PasswordHash: cfg.Auth.AdminPasswordHash,
		JWTSecret:    cfg.Auth.JWTSecret,
		TTL:          cfg.Auth.SessionTTL.Duration,
	})
	if cfg.Auth.JWTSecret == "" {
		log.Warn("JWT_SECRET_KEY not set, admin login disabled")
	}

	catalogService := services.NewCatalogService(log, clients.Catalog, metrics)
	assistService := services.NewAssistService(log, clients.Assist, metrics)
	mediaService := services.NewMediaService(log, clients.Objects, services.MediaConfig{
		MaxBytes:  cfg.Media.MaxBytes,
		MaxWidth:  cfg.Media.MaxWidth,
		MaxPixels: cfg.Media.MaxPixels,
	}, metrics)
	contactService := services.NewContactService(log, clients.Mailer, inbox.NewRepo(clients.InboxDB, log), cfg.Mail.AdminEmail, metrics)

	coverService, err := services.NewCoverService(log, catalogService, cfg.Media.FontPath)
	if err != nil {
		return Services{}, fmt.Errorf("init cover service: %w", err)
	}

	return Services{
		Auth:    authService,
		Catalog: catalogService,
		Assist:  assistService,
		Media:   mediaService,
		Contact: contactService,
		Cover:   coverService,
	}, nil
}
