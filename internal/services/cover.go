package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image/color"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/adamn1225/adam-noahs-stuff/internal/domain/project"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/apierr"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
)

const (
	coverWidth  = 1200
	coverHeight = 630
)

// Background palettes per category; a record's ID picks one entry so the
// same project always gets the same cover.
var coverPalettes = map[project.Category][]color.NRGBA{
	project.CategoryAI:              {{0x4F, 0x46, 0xE5, 0xFF}, {0x7C, 0x3A, 0xED, 0xFF}, {0x25, 0x63, 0xEB, 0xFF}},
	project.CategoryBrandProtection: {{0xB9, 0x1C, 0x1C, 0xFF}, {0xC2, 0x41, 0x0C, 0xFF}, {0x9F, 0x12, 0x39, 0xFF}},
	project.CategorySaaS:            {{0x04, 0x78, 0x57, 0xFF}, {0x0F, 0x76, 0x6E, 0xFF}, {0x15, 0x80, 0x3D, 0xFF}},
	project.CategoryVideoAnalysis:   {{0x1E, 0x29, 0x3B, 0xFF}, {0x33, 0x41, 0x55, 0xFF}, {0x0E, 0x74, 0x90, 0xFF}},
}

var coverFallback = color.NRGBA{0x37, 0x41, 0x51, 0xFF}

type CoverService interface {
	RenderCover(ctx context.Context, id string) ([]byte, error)
	Render(rec project.Record) ([]byte, error)
}

type coverService struct {
	log       *logger.Logger
	catalog   CatalogService
	titleFace font.Face
	smallFace font.Face
}

// NewCoverService loads the title font from fontPath, or the bundled Go Bold
// face when fontPath is empty.
func NewCoverService(log *logger.Logger, catalog CatalogService, fontPath string) (CoverService, error) {
	serviceLog := log.With("service", "CoverService")

	boldTTF, regularTTF := gobold.TTF, goregular.TTF
	if strings.TrimSpace(fontPath) != "" {
		b, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file: %w", err)
		}
		boldTTF, regularTTF = b, b
		serviceLog.Info("Loading cover font", "font", fontPath)
	}
	titleFace, err := loadFace(boldTTF, 64)
	if err != nil {
		return nil, err
	}
	smallFace, err := loadFace(regularTTF, 30)
	if err != nil {
		return nil, err
	}
	return &coverService{log: serviceLog, catalog: catalog, titleFace: titleFace, smallFace: smallFace}, nil
}

func loadFace(ttf []byte, size float64) (font.Face, error) {
	parsed, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsed, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone}), nil
}

func (cs *coverService) RenderCover(ctx context.Context, id string) ([]byte, error) {
	rec, err := cs.catalog.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := cs.Render(rec)
	if err != nil {
		cs.log.Error("Failed to render cover", "project_id", id, "error", err)
		return nil, apierr.Internal("Failed to render cover", err)
	}
	return out, nil
}

func (cs *coverService) Render(rec project.Record) ([]byte, error) {
	dc := gg.NewContext(coverWidth, coverHeight)

	dc.SetColor(pickCoverColor(rec))
	dc.DrawRectangle(0, 0, coverWidth, coverHeight)
	dc.Fill()

	// darker band behind the footer text
	dc.SetRGBA(0, 0, 0, 0.25)
	dc.DrawRectangle(0, coverHeight-110, coverWidth, 110)
	dc.Fill()

	title := strings.TrimSpace(rec.Title)
	if title == "" {
		title = "Untitled project"
	}
	dc.SetColor(color.White)
	dc.SetFontFace(cs.titleFace)
	dc.DrawStringWrapped(title, coverWidth/2, (coverHeight-110)/2, 0.5, 0.5, coverWidth-160, 1.3, gg.AlignCenter)

	dc.SetFontFace(cs.smallFace)
	footer := string(rec.Category)
	if len(rec.Tags) > 0 {
		tags := rec.Tags
		if len(tags) > 4 {
			tags = tags[:4]
		}
		footer += "  ·  " + strings.Join(tags, ", ")
	}
	dc.DrawStringAnchored(footer, 60, coverHeight-55, 0, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func pickCoverColor(rec project.Record) color.NRGBA {
	palette := coverPalettes[rec.Category]
	if len(palette) == 0 {
		return coverFallback
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(rec.ID))
	return palette[int(h.Sum32()%uint32(len(palette)))]
}
