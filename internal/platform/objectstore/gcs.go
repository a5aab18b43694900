package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
)

type GCS struct {
	log           *logger.Logger
	client        *storage.Client
	mode          Mode
	bucket        string
	prefix        string
	emulatorHost  string
	publicBaseURL string
	cdnDomain     string
}

func NewGCS(ctx context.Context, cfg Config, log *logger.Logger) (*GCS, error) {
	if log == nil {
		log = logger.NewNop()
	}
	serviceLog := log.With("service", "GCSObjectStore")

	client, err := newStorageClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	g := &GCS{
		log:           serviceLog,
		client:        client,
		mode:          cfg.Mode,
		bucket:        cfg.Bucket,
		prefix:        strings.Trim(strings.TrimSpace(cfg.Prefix), "/"),
		emulatorHost:  cfg.EmulatorHost,
		publicBaseURL: cfg.PublicBaseURL,
		cdnDomain:     strings.TrimSpace(cfg.CDNDomain),
	}
	serviceLog.Info(
		"Object storage initialized",
		"mode", cfg.Mode,
		"bucket", cfg.Bucket,
		"emulator_host", cfg.EmulatorHost,
		"public_base_url", cfg.PublicBaseURL,
	)
	return g, nil
}

func newStorageClient(ctx context.Context, cfg Config) (*storage.Client, error) {
	switch cfg.Mode {
	case ModeGCS:
		opts := ClientOptionsFromEnv()
		opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
		return storage.NewClient(ctx, opts...)
	case ModeGCSEmulator:
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	default:
		return nil, fmt.Errorf("mode %q is not a GCS mode", cfg.Mode)
	}
}

// ClientOptionsFromEnv reads service account credentials from
// GOOGLE_APPLICATION_CREDENTIALS_JSON (inline) or GOOGLE_APPLICATION_CREDENTIALS (path).
func ClientOptionsFromEnv() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

func (g *GCS) objectKey(key string) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if g.prefix != "" {
		k = g.prefix + "/" + k
	}
	return k, nil
}

func (g *GCS) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	objKey, err := g.objectKey(key)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := g.client.Bucket(g.bucket).Object(objKey).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	w.CacheControl = "public, max-age=31536000, immutable"
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	g.log.Debug("Object uploaded", "bucket", g.bucket, "key", objKey)
	return g.PublicURL(key), nil
}

func (g *GCS) Delete(ctx context.Context, key string) error {
	objKey, err := g.objectKey(key)
	if err != nil {
		return err
	}
	err = g.client.Bucket(g.bucket).Object(objKey).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return ErrNotFound
	}
	return err
}

func (g *GCS) PublicURL(key string) string {
	objKey, err := g.objectKey(key)
	if err != nil {
		return key
	}
	return publicObjectURL(g.mode, g.bucket, objKey, g.cdnDomain, g.publicBaseURL, g.emulatorHost)
}

func publicObjectURL(mode Mode, bucket, objKey, cdnDomain, publicBaseURL, emulatorHost string) string {
	if cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", cdnDomain, objKey)
	}
	if mode == ModeGCSEmulator {
		base := publicBaseURL
		if base == "" {
			base = emulatorHost
		}
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(bucket), url.PathEscape(objKey))
	}
	if publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", publicBaseURL, bucket, objKey)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objKey)
}
