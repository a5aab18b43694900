package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	_ "image/gif"

	"golang.org/x/image/draw"

	"github.com/adamn1225/adam-noahs-stuff/internal/observability"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/apierr"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/ctxutil"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/objectstore"
)

const (
	DefaultUploadMaxBytes  = 10 << 20
	DefaultUploadMaxWidth  = 1600
	DefaultUploadMaxPixels = 40_000_000
)

var errTooManyPixels = errors.New("image dimensions exceed pixel budget")

var uploadExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type MediaConfig struct {
	MaxBytes int64
	MaxWidth int
	// MaxPixels caps width*height of images that are decoded for resizing.
	MaxPixels int
}

type MediaService interface {
	// Upload stores an image and returns the path or URL to put in a
	// project's image field.
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

type mediaService struct {
	log     *logger.Logger
	store   objectstore.Store
	cfg     MediaConfig
	metrics *observability.Metrics
	now     func() time.Time
}

func NewMediaService(log *logger.Logger, store objectstore.Store, cfg MediaConfig, metrics *observability.Metrics) MediaService {
	serviceLog := log.With("service", "MediaService")
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultUploadMaxBytes
	}
	if cfg.MaxWidth <= 0 {
		cfg.MaxWidth = DefaultUploadMaxWidth
	}
	if cfg.MaxPixels <= 0 {
		cfg.MaxPixels = DefaultUploadMaxPixels
	}
	return &mediaService{log: serviceLog, store: store, cfg: cfg, metrics: metrics, now: time.Now}
}

func (ms *mediaService) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if !ctxutil.IsAuthenticated(ctx) {
		return "", apierr.Unauthorized()
	}
	raw, err := io.ReadAll(io.LimitReader(r, ms.cfg.MaxBytes+1))
	if err != nil {
		ms.metrics.IncUpload("error")
		return "", apierr.BadRequest("Failed to read upload")
	}
	if int64(len(raw)) > ms.cfg.MaxBytes {
		ms.metrics.IncUpload("too_large")
		return "", apierr.PayloadTooLarge(fmt.Sprintf("File exceeds %d bytes", ms.cfg.MaxBytes))
	}
	if len(raw) == 0 {
		ms.metrics.IncUpload("rejected")
		return "", apierr.BadRequest("No file uploaded")
	}

	contentType := http.DetectContentType(raw)
	ext, ok := uploadExt[contentType]
	if !ok {
		ms.metrics.IncUpload("rejected")
		return "", apierr.BadRequest("Only PNG, JPEG, GIF and WebP images are allowed")
	}

	body, err := downscale(raw, contentType, ms.cfg.MaxWidth, ms.cfg.MaxPixels)
	if errors.Is(err, errTooManyPixels) {
		ms.metrics.IncUpload("too_large")
		return "", apierr.PayloadTooLarge("Image dimensions too large")
	}
	if err != nil {
		ms.metrics.IncUpload("rejected")
		return "", apierr.BadRequest("Invalid image file")
	}

	key := fmt.Sprintf("%d-%s", ms.now().UnixNano(), sanitizeFilename(filename, ext))
	url, err := ms.store.Put(ctx, key, contentType, bytes.NewReader(body))
	if err != nil {
		ms.metrics.IncUpload("error")
		ms.log.Error("Failed to store upload", "key", key, "error", err, "request_id", ctxutil.RequestID(ctx))
		return "", apierr.Internal("Failed to upload file", err)
	}
	ms.metrics.IncUpload("ok")
	ms.log.Info("Image uploaded", "key", key, "bytes", len(body), "content_type", contentType)
	return url, nil
}

// downscale shrinks PNG and JPEG images wider than maxWidth, keeping the
// aspect ratio. Other formats are stored as uploaded. The header is checked
// against maxPixels before any pixel data is decoded.
func downscale(raw []byte, contentType string, maxWidth, maxPixels int) ([]byte, error) {
	if contentType != "image/png" && contentType != "image/jpeg" {
		return raw, nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image config: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, fmt.Errorf("%w: %dx%d", errTooManyPixels, cfg.Width, cfg.Height)
	}
	if cfg.Width <= maxWidth {
		return raw, nil
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	var out bytes.Buffer
	if contentType == "image/png" {
		err = png.Encode(&out, dst)
	} else {
		err = jpeg.Encode(&out, dst, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return out.Bytes(), nil
}

// sanitizeFilename lowercases the base name, joins runs of [a-z0-9_] with
// single dashes and appends the extension of the sniffed type.
func sanitizeFilename(name, ext string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.Trim(b.String(), "-")
	if s == "" {
		s = "upload"
	}
	if len(s) > 80 {
		s = strings.TrimRight(s[:80], "-")
	}
	return s + ext
}
