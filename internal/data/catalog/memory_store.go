package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/adamn1225/adam-noahs-stuff/internal/domain/project"
)

// MemoryStore keeps the collection in process memory. It counts writes and can
// be told to fail them, which the service tests rely on.
type MemoryStore struct {
	mu       sync.Mutex
	recs     []project.Record
	ids      *IDGenerator
	writes   int
	writeErr error
}

func NewMemoryStore(seed []project.Record, ids *IDGenerator) *MemoryStore {
	if ids == nil {
		ids = NewIDGenerator(nil)
	}
	recs := cloneAll(seed)
	for i := range recs {
		recs[i].Normalize()
	}
	return &MemoryStore{recs: recs, ids: ids}
}

// Writes reports how many full-collection writes have succeeded.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// FailWrites makes every following write return err. Pass nil to clear.
func (m *MemoryStore) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

func (m *MemoryStore) List(ctx context.Context) ([]project.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAll(m.recs), nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (project.Record, error) {
	recs, err := m.List(ctx)
	if err != nil {
		return project.Record{}, err
	}
	i := indexOf(recs, id)
	if id == "" || i < 0 {
		return project.Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return recs[i], nil
}

func (m *MemoryStore) Create(ctx context.Context, rec project.Record) (project.Record, error) {
	var out project.Record
	err := m.mutate(ctx, func(recs []project.Record) ([]project.Record, error) {
		next, stored, err := applyCreate(recs, rec, m.ids)
		out = stored
		return next, err
	})
	return out, err
}

func (m *MemoryStore) Update(ctx context.Context, rec project.Record) (project.Record, error) {
	var out project.Record
	err := m.mutate(ctx, func(recs []project.Record) ([]project.Record, error) {
		next, stored, err := applyUpdate(recs, rec)
		out = stored
		return next, err
	})
	return out, err
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	return m.mutate(ctx, func(recs []project.Record) ([]project.Record, error) {
		return applyDelete(recs, id)
	})
}

func (m *MemoryStore) Replace(ctx context.Context, recs []project.Record) error {
	next, err := checkReplace(recs)
	if err != nil {
		return err
	}
	return m.mutate(ctx, func([]project.Record) ([]project.Record, error) { return next, nil })
}

func (m *MemoryStore) mutate(ctx context.Context, fn func([]project.Record) ([]project.Record, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := fn(cloneAll(m.recs))
	if err != nil {
		return err
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	m.recs = next
	m.writes++
	return nil
}
