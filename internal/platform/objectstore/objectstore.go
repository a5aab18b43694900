package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
)

type Mode string

const (
	ModeLocal       Mode = "local"
	ModeGCS         Mode = "gcs"
	ModeGCSEmulator Mode = "gcs_emulator"
)

var ErrNotFound = errors.New("object not found")

// Store persists uploaded media and hands back the path or URL clients use to
// fetch it.
type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (publicURL string, err error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type Config struct {
	Mode Mode `yaml:"mode"`

	// Local mode.
	LocalDir     string `yaml:"local_dir"`
	PublicPrefix string `yaml:"public_prefix"`

	// GCS modes.
	Bucket        string `yaml:"bucket"`
	Prefix        string `yaml:"prefix"`
	EmulatorHost  string `yaml:"emulator_host"`
	PublicBaseURL string `yaml:"public_base_url"`
	CDNDomain     string `yaml:"cdn_domain"`
}

func (c *Config) Validate() error {
	c.Mode = Mode(strings.ToLower(strings.TrimSpace(string(c.Mode))))
	if c.Mode == "" {
		c.Mode = ModeLocal
	}
	switch c.Mode {
	case ModeLocal:
		if strings.TrimSpace(c.LocalDir) == "" {
			c.LocalDir = "public/uploads"
		}
		if strings.TrimSpace(c.PublicPrefix) == "" {
			c.PublicPrefix = "/uploads"
		}
		c.PublicPrefix = "/" + strings.Trim(strings.TrimSpace(c.PublicPrefix), "/")
	case ModeGCS, ModeGCSEmulator:
		if strings.TrimSpace(c.Bucket) == "" {
			return fmt.Errorf("object store mode %q requires a bucket", c.Mode)
		}
		if c.Mode == ModeGCSEmulator {
			host := strings.TrimRight(strings.TrimSpace(c.EmulatorHost), "/")
			if host == "" {
				return fmt.Errorf("object store mode %q requires an emulator host", c.Mode)
			}
			if err := requireAbsoluteURL(host); err != nil {
				return fmt.Errorf("invalid emulator host %q: %w", host, err)
			}
			c.EmulatorHost = host
		}
		if base := strings.TrimSpace(c.PublicBaseURL); base != "" {
			if err := requireAbsoluteURL(base); err != nil {
				return fmt.Errorf("invalid public base url %q: %w", base, err)
			}
			c.PublicBaseURL = strings.TrimRight(base, "/")
		}
	default:
		return fmt.Errorf("invalid object store mode %q (allowed: %q, %q, %q)", c.Mode, ModeLocal, ModeGCS, ModeGCSEmulator)
	}
	return nil
}

// New opens the store selected by cfg.Mode.
func New(ctx context.Context, cfg Config, log *logger.Logger) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Mode {
	case ModeGCS, ModeGCSEmulator:
		return NewGCS(ctx, cfg, log)
	default:
		return NewLocal(cfg.LocalDir, cfg.PublicPrefix, log)
	}
}

func requireAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return errors.New("expected absolute URL like http://localhost:4443")
	}
	return nil
}

// cleanKey rejects keys that would escape the store root.
func cleanKey(key string) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", errors.New("empty object key")
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." || seg == "." || seg == "" {
			return "", fmt.Errorf("invalid object key %q", key)
		}
	}
	return key, nil
}
