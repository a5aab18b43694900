package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/adamn1225/adam-noahs-stuff/internal/data/inbox"
	infcfg "github.com/adamn1225/adam-noahs-stuff/internal/inference/config"
	"github.com/adamn1225/adam-noahs-stuff/internal/observability"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/envutil"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/mailer"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/objectstore"
)

const defaultConfigPath = "config/portfolio.yaml"

type Config struct {
	Env string `yaml:"env"`

	HTTP    HTTPConfig               `yaml:"http"`
	Catalog CatalogConfig            `yaml:"catalog"`
	Auth    AuthConfig               `yaml:"auth"`
	Assist  infcfg.EngineConfig      `yaml:"assist"`
	Media   MediaConfig              `yaml:"media"`
	Mail    MailConfig               `yaml:"mail"`
	Inbox   InboxConfig              `yaml:"inbox"`
	Limits  LimitsConfig             `yaml:"rate_limit"`
	OTel    observability.OtelConfig `yaml:"otel"`
}

type HTTPConfig struct {
	Addr            string          `yaml:"addr"`
	ShutdownTimeout infcfg.Duration `yaml:"shutdown_timeout"`
	MaxJSONBytes    int64           `yaml:"max_json_bytes"`
	CORSOrigins     []string        `yaml:"cors_origins"`
}

type CatalogConfig struct {
	Path string `yaml:"path"`
}

type AuthConfig struct {
	AdminPassword     string          `yaml:"admin_password"`
	AdminPasswordHash string          `yaml:"admin_password_hash"`
	JWTSecret         string          `yaml:"jwt_secret"`
	SessionTTL        infcfg.Duration `yaml:"session_ttl"`
	CookieSecure      bool            `yaml:"cookie_secure"`
	CookieDomain      string          `yaml:"cookie_domain"`
}

type MediaConfig struct {
	Store     objectstore.Config `yaml:"store"`
	MaxBytes  int64              `yaml:"max_bytes"`
	MaxWidth  int                `yaml:"max_width"`
	MaxPixels int                `yaml:"max_pixels"`
	FontPath  string             `yaml:"cover_font"`
}

type MailConfig struct {
	mailer.Config `yaml:",inline"`
	AdminEmail    string `yaml:"admin_email"`
}

type InboxConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type LimitsConfig struct {
	RedisAddr     string          `yaml:"redis_addr"`
	RedisPassword string          `yaml:"redis_password"`
	RedisDB       int             `yaml:"redis_db"`
	LoginLimit    int             `yaml:"login_limit"`
	ContactLimit  int             `yaml:"contact_limit"`
	Window        infcfg.Duration `yaml:"window"`
}

func defaultConfig() Config {
	return Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: infcfg.Duration{Duration: 15 * time.Second},
			MaxJSONBytes:    1 << 20,
		},
		Catalog: CatalogConfig{Path: "data/projects.json"},
		Auth:    AuthConfig{SessionTTL: infcfg.Duration{Duration: 24 * time.Hour}},
		Assist:  infcfg.EngineConfig{Type: infcfg.EngineOllama},
		Media: MediaConfig{
			Store:     objectstore.Config{Mode: objectstore.ModeLocal, LocalDir: "public/uploads", PublicPrefix: "/uploads"},
			MaxBytes:  10 << 20,
			MaxWidth:  1600,
			MaxPixels: 40_000_000,
		},
		Inbox: InboxConfig{Driver: inbox.DriverNone},
		Limits: LimitsConfig{
			LoginLimit:   10,
			ContactLimit: 5,
			Window:       infcfg.Duration{Duration: 15 * time.Minute},
		},
		OTel: observability.OtelConfig{ServiceName: "portfolio-api", SampleRatio: 1},
	}
}

// LoadConfig reads the optional YAML file, applies environment overrides and
// validates the result.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()

	path := strings.TrimSpace(os.Getenv("PORTFOLIO_CONFIG"))
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, defaultConfigPath)
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		if log != nil {
			log.Info("Loaded config file", "path", path)
		}
	}

	applyEnv(&cfg, log)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, log *logger.Logger) {
	cfg.Env = envutil.String("APP_ENV", cfg.Env, log)

	cfg.HTTP.Addr = envutil.String("HTTP_ADDR", cfg.HTTP.Addr, log)
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.HTTP.Addr = ":" + port
	}
	cfg.HTTP.ShutdownTimeout.Duration = envutil.Duration("HTTP_SHUTDOWN_TIMEOUT", cfg.HTTP.ShutdownTimeout.Duration, log)
	cfg.HTTP.MaxJSONBytes = envutil.Int64("HTTP_MAX_JSON_BYTES", cfg.HTTP.MaxJSONBytes, log)
	cfg.HTTP.CORSOrigins = envutil.CSV("CORS_ORIGINS", cfg.HTTP.CORSOrigins, log)

	cfg.Catalog.Path = envutil.String("CATALOG_PATH", cfg.Catalog.Path, log)

	cfg.Auth.AdminPassword = envutil.String("ADMIN_PASSWORD", cfg.Auth.AdminPassword, log)
	cfg.Auth.AdminPasswordHash = envutil.String("ADMIN_PASSWORD_HASH", cfg.Auth.AdminPasswordHash, log)
	cfg.Auth.JWTSecret = envutil.String("JWT_SECRET_KEY", cfg.Auth.JWTSecret, log)
	cfg.Auth.SessionTTL.Duration = envutil.Duration("SESSION_TTL", cfg.Auth.SessionTTL.Duration, log)
	cfg.Auth.CookieSecure = envutil.Bool("SESSION_COOKIE_SECURE", cfg.Auth.CookieSecure, log)
	cfg.Auth.CookieDomain = envutil.String("SESSION_COOKIE_DOMAIN", cfg.Auth.CookieDomain, log)

	cfg.Assist.Type = envutil.String("ASSIST_ENGINE", cfg.Assist.Type, log)
	cfg.Assist.BaseURL = envutil.String("ASSIST_BASE_URL", cfg.Assist.BaseURL, log)
	cfg.Assist.Model = envutil.String("ASSIST_MODEL", cfg.Assist.Model, log)
	cfg.Assist.APIKey = envutil.String("ASSIST_API_KEY", cfg.Assist.APIKey, log)
	cfg.Assist.Timeout.Duration = envutil.Duration("ASSIST_TIMEOUT", cfg.Assist.Timeout.Duration, log)
	cfg.Assist.Temperature = envutil.Float("ASSIST_TEMPERATURE", cfg.Assist.Temperature, log)
	// older deployments only knew about Ollama and set these
	if t := strings.ToLower(strings.TrimSpace(cfg.Assist.Type)); t == "" || t == infcfg.EngineOllama {
		if cfg.Assist.BaseURL == "" {
			cfg.Assist.BaseURL = envutil.String("OLLAMA_URL", "", log)
		}
		if cfg.Assist.Model == "" {
			cfg.Assist.Model = envutil.String("OLLAMA_MODEL", "", log)
		}
	}

	st := &cfg.Media.Store
	st.Mode = objectstore.Mode(envutil.String("OBJECT_STORAGE_MODE", string(st.Mode), log))
	st.LocalDir = envutil.String("UPLOADS_DIR", st.LocalDir, log)
	st.PublicPrefix = envutil.String("UPLOADS_PUBLIC_PREFIX", st.PublicPrefix, log)
	st.Bucket = envutil.String("GCS_BUCKET", st.Bucket, log)
	st.Prefix = envutil.String("GCS_PREFIX", st.Prefix, log)
	st.EmulatorHost = envutil.String("STORAGE_EMULATOR_HOST", st.EmulatorHost, log)
	st.PublicBaseURL = envutil.String("GCS_PUBLIC_BASE_URL", st.PublicBaseURL, log)
	st.CDNDomain = envutil.String("GCS_CDN_DOMAIN", st.CDNDomain, log)
	cfg.Media.MaxBytes = envutil.Int64("UPLOAD_MAX_BYTES", cfg.Media.MaxBytes, log)
	cfg.Media.MaxWidth = envutil.Int("UPLOAD_MAX_WIDTH", cfg.Media.MaxWidth, log)
	cfg.Media.MaxPixels = envutil.Int("UPLOAD_MAX_PIXELS", cfg.Media.MaxPixels, log)
	cfg.Media.FontPath = envutil.String("COVER_FONT_PATH", cfg.Media.FontPath, log)

	m := &cfg.Mail
	m.Provider = mailer.Provider(envutil.String("MAIL_PROVIDER", string(m.Provider), log))
	m.FromEmail = envutil.String("MAIL_FROM_EMAIL", m.FromEmail, log)
	m.FromName = envutil.String("MAIL_FROM_NAME", m.FromName, log)
	m.AdminEmail = envutil.String("CONTACT_ADMIN_EMAIL", m.AdminEmail, log)
	m.SMTP.Host = envutil.String("SMTP_HOST", m.SMTP.Host, log)
	m.SMTP.Port = envutil.Int("SMTP_PORT", m.SMTP.Port, log)
	m.SMTP.User = envutil.String("SMTP_USER", m.SMTP.User, log)
	m.SMTP.Password = envutil.String("SMTP_PASSWORD", m.SMTP.Password, log)
	m.SendGrid.APIKey = envutil.String("SENDGRID_API_KEY", m.SendGrid.APIKey, log)
	m.SendGrid.BaseURL = envutil.String("SENDGRID_BASE_URL", m.SendGrid.BaseURL, log)

	cfg.Inbox.Driver = envutil.String("INBOX_DB_DRIVER", cfg.Inbox.Driver, log)
	cfg.Inbox.DSN = envutil.String("INBOX_DB_DSN", cfg.Inbox.DSN, log)

	l := &cfg.Limits
	l.RedisAddr = envutil.String("REDIS_ADDR", l.RedisAddr, log)
	l.RedisPassword = envutil.String("REDIS_PASSWORD", l.RedisPassword, log)
	l.RedisDB = envutil.Int("REDIS_DB", l.RedisDB, log)
	l.LoginLimit = envutil.Int("RATE_LIMIT_LOGIN", l.LoginLimit, log)
	l.ContactLimit = envutil.Int("RATE_LIMIT_CONTACT", l.ContactLimit, log)
	l.Window.Duration = envutil.Duration("RATE_LIMIT_WINDOW", l.Window.Duration, log)

	o := &cfg.OTel
	o.Enabled = envutil.Bool("OTEL_ENABLED", o.Enabled, log)
	o.ServiceName = envutil.String("OTEL_SERVICE_NAME", o.ServiceName, log)
	o.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", o.Endpoint, log)
	if raw := envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log); raw != "" {
		o.Headers = observability.ParseHeaders(raw)
	}
	o.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", o.Insecure, log)
	o.SampleRatio = envutil.Float("OTEL_SAMPLE_RATIO", o.SampleRatio, log)
}

func (c Config) IsProduction() bool {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "prod", "production":
		return true
	}
	return false
}

func (c *Config) Validate() error {
	c.Env = strings.TrimSpace(c.Env)
	if c.Env == "" {
		c.Env = "development"
	}
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		c.HTTP.Addr = ":8080"
	}
	if strings.TrimSpace(c.Catalog.Path) == "" {
		return errors.New("catalog.path is required")
	}
	if c.Media.MaxBytes <= 0 {
		return fmt.Errorf("media.max_bytes must be positive")
	}
	if err := c.Media.Store.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Mail.AdminEmail) == "" {
		c.Mail.AdminEmail = c.Mail.FromEmail
	}
	if c.Limits.LoginLimit < 0 || c.Limits.ContactLimit < 0 {
		return errors.New("rate limits cannot be negative")
	}

	if c.IsProduction() {
		if c.Auth.JWTSecret == "" {
			return errors.New("JWT_SECRET_KEY is required in production")
		}
		if c.Auth.AdminPassword == "" && c.Auth.AdminPasswordHash == "" {
			return errors.New("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required in production")
		}
	}
	return nil
}
