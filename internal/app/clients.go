package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/adamn1225/adam-noahs-stuff/internal/data/catalog"
	"github.com/adamn1225/adam-noahs-stuff/internal/data/inbox"
	"github.com/adamn1225/adam-noahs-stuff/internal/inference/router"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/mailer"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/objectstore"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/ratelimit"
)

// Clients are the process-wide resources services are built on.
type Clients struct {
	Catalog catalog.Store
	Objects objectstore.Store
	Mailer  mailer.Mailer
	InboxDB *gorm.DB
	Assist  *router.Router
	Redis   *goredis.Client

	LoginLimiter   ratelimit.Limiter
	ContactLimiter ratelimit.Limiter
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var c Clients

	c.Catalog = catalog.NewFileStore(cfg.Catalog.Path, log)

	objects, err := objectstore.New(ctx, cfg.Media.Store, log)
	if err != nil {
		return c, fmt.Errorf("init object store: %w", err)
	}
	c.Objects = objects

	m, err := mailer.New(cfg.Mail.Config, log)
	if err != nil {
		return c, fmt.Errorf("init mailer: %w", err)
	}
	c.Mailer = m

	db, err := inbox.Open(cfg.Inbox.Driver, cfg.Inbox.DSN, log)
	if err != nil {
		return c, fmt.Errorf("init inbox db: %w", err)
	}
	c.InboxDB = db

	r, err := router.New(ctx, cfg.Assist, cfg.Env, log)
	if err != nil {
		c.Close()
		return c, fmt.Errorf("init assist engine: %w", err)
	}
	c.Assist = r

	c.LoginLimiter, c.ContactLimiter = wireLimiters(ctx, log, cfg.Limits, &c)
	return c, nil
}

// wireLimiters shares one Redis connection between both scopes when REDIS_ADDR
// is set and reachable, and keeps counters in memory otherwise.
func wireLimiters(ctx context.Context, log *logger.Logger, cfg LimitsConfig, c *Clients) (login, contact ratelimit.Limiter) {
	loginRule := ratelimit.Rule{Limit: cfg.LoginLimit, Window: cfg.Window.Duration}
	contactRule := ratelimit.Rule{Limit: cfg.ContactLimit, Window: cfg.Window.Duration}

	if cfg.RedisAddr != "" {
		rdb, err := ratelimit.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err == nil {
			c.Redis = rdb
			return ratelimit.NewRedis(rdb, "login", loginRule, log), ratelimit.NewRedis(rdb, "contact", contactRule, log)
		}
		log.Warn("Redis unavailable, rate limiting in memory", "error", err)
	}
	return ratelimit.NewMemory(loginRule, nil), ratelimit.NewMemory(contactRule, nil)
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.InboxDB != nil {
		if sqlDB, err := c.InboxDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
