package project

import (
	"errors"
	"fmt"
	"strings"
)

// Category is the closed set of gallery sections a project can belong to.
type Category string

const (
	CategoryAI              Category = "AI"
	CategoryBrandProtection Category = "Brand Protection"
	CategorySaaS            Category = "SaaS"
	CategoryVideoAnalysis   Category = "Video Analysis"
)

var categories = []Category{
	CategoryAI,
	CategoryBrandProtection,
	CategorySaaS,
	CategoryVideoAnalysis,
}

// Categories returns every valid category in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory matches exact names first, then falls back to a case-insensitive
// match so query strings like ?category=saas work.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if c := Category(s); c.Valid() {
		return c, nil
	}
	for _, known := range categories {
		if strings.EqualFold(string(known), s) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalid, s)
}

// ErrInvalid marks a Record that failed validation.
var ErrInvalid = errors.New("invalid project")

// Record is one entry in the portfolio catalog. The JSON field names are the
// persisted document format and must not change.
type Record struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
	Category    Category `json:"category" validate:"required,project_category"`
	Link        *string  `json:"link,omitempty" validate:"omitempty,url"`
	GitHub      *string  `json:"github,omitempty" validate:"omitempty,url"`
}

// Normalize trims the identifier, turns nil tags into an empty list and drops
// blank optional links so they serialise as absent.
func (r *Record) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	if r.Tags == nil {
		r.Tags = []string{}
	}
	r.Link = normalizeLink(r.Link)
	r.GitHub = normalizeLink(r.GitHub)
}

// Clone returns a deep copy so callers can't alias the store's slices.
func (r Record) Clone() Record {
	out := r
	if r.Tags != nil {
		out.Tags = make([]string, len(r.Tags))
		copy(out.Tags, r.Tags)
	}
	if r.Link != nil {
		v := *r.Link
		out.Link = &v
	}
	if r.GitHub != nil {
		v := *r.GitHub
		out.GitHub = &v
	}
	return out
}

func normalizeLink(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

// StringPtr is a small helper for building records with optional links.
func StringPtr(s string) *string { return &s }
