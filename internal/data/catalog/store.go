package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/adamn1225/adam-noahs-stuff/internal/domain/project"
)

var (
	ErrNotFound = errors.New("project not found")
	ErrConflict = errors.New("project id already exists")
	ErrCorrupt  = errors.New("catalog document is corrupt")
)

// Store owns the ordered project collection. Every mutation reads the whole
// collection, applies one change and writes the whole collection back.
type Store interface {
	List(ctx context.Context) ([]project.Record, error)
	Get(ctx context.Context, id string) (project.Record, error)
	Create(ctx context.Context, rec project.Record) (project.Record, error)
	Update(ctx context.Context, rec project.Record) (project.Record, error)
	Delete(ctx context.Context, id string) error
	// Replace swaps the entire collection in a single write. Used by import and seed.
	Replace(ctx context.Context, recs []project.Record) error
}

func indexOf(recs []project.Record, id string) int {
	for i := range recs {
		if recs[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(recs []project.Record) []project.Record {
	out := make([]project.Record, len(recs))
	for i := range recs {
		out[i] = recs[i].Clone()
	}
	return out
}

// The helpers below are shared by every Store implementation so the
// collection semantics stay identical between the file and memory stores.

func applyCreate(recs []project.Record, rec project.Record, ids *IDGenerator) ([]project.Record, project.Record, error) {
	rec.Normalize()
	if rec.ID == "" {
		rec.ID = ids.Next(func(id string) bool { return indexOf(recs, id) >= 0 })
	} else if indexOf(recs, rec.ID) >= 0 {
		return nil, project.Record{}, fmt.Errorf("%w: %s", ErrConflict, rec.ID)
	}
	next := append(recs, rec.Clone())
	return next, rec, nil
}

func applyUpdate(recs []project.Record, rec project.Record) ([]project.Record, project.Record, error) {
	rec.Normalize()
	i := indexOf(recs, rec.ID)
	if rec.ID == "" || i < 0 {
		return nil, project.Record{}, fmt.Errorf("%w: %s", ErrNotFound, rec.ID)
	}
	// Hand-edited documents may repeat an id. The first entry keeps its
	// position and later copies are dropped.
	next := make([]project.Record, 0, len(recs))
	next = append(next, recs[:i]...)
	next = append(next, rec.Clone())
	for _, r := range recs[i+1:] {
		if r.ID != rec.ID {
			next = append(next, r)
		}
	}
	return next, rec, nil
}

// applyDelete removes every entry carrying id.
func applyDelete(recs []project.Record, id string) ([]project.Record, error) {
	if id == "" || indexOf(recs, id) < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next := make([]project.Record, 0, len(recs)-1)
	for _, r := range recs {
		if r.ID != id {
			next = append(next, r)
		}
	}
	return next, nil
}

func checkReplace(recs []project.Record) ([]project.Record, error) {
	seen := make(map[string]struct{}, len(recs))
	out := make([]project.Record, 0, len(recs))
	for _, r := range recs {
		r.Normalize()
		if r.ID == "" {
			return nil, fmt.Errorf("%w: record %q has no id", project.ErrInvalid, r.Title)
		}
		if _, ok := seen[r.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrConflict, r.ID)
		}
		seen[r.ID] = struct{}{}
		out = append(out, r.Clone())
	}
	return out, nil
}
