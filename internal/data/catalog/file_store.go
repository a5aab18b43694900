package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/adamn1225/adam-noahs-stuff/internal/domain/project"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
)

// File is the subset of *os.File the store writes through.
type File interface {
	io.Writer
	Name() string
	Sync() error
	Close() error
}

// FS is the filesystem seam used by FileStore. Tests swap it to inject faults.
type FS interface {
	ReadFile(name string) ([]byte, error)
	MkdirAll(path string, perm fs.FileMode) error
	CreateTemp(dir, pattern string) (File, error)
	Rename(oldpath, newpath string) error
	Remove(name string) error
}

type osFS struct{}

func (osFS) ReadFile(name string) ([]byte, error)         { return os.ReadFile(name) }
func (osFS) MkdirAll(path string, perm fs.FileMode) error { return os.MkdirAll(path, perm) }
func (osFS) Rename(oldpath, newpath string) error         { return os.Rename(oldpath, newpath) }
func (osFS) Remove(name string) error                     { return os.Remove(name) }
func (osFS) CreateTemp(dir, pattern string) (File, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// OSFS returns the real filesystem implementation.
func OSFS() FS { return osFS{} }

type FileStore struct {
	path string
	fs   FS
	ids  *IDGenerator
	log  *logger.Logger

	mu sync.Mutex
}

type Option func(*FileStore)

func WithFS(fsys FS) Option {
	return func(s *FileStore) {
		if fsys != nil {
			s.fs = fsys
		}
	}
}

func WithIDGenerator(g *IDGenerator) Option {
	return func(s *FileStore) {
		if g != nil {
			s.ids = g
		}
	}
}

// NewFileStore persists the catalog as a single JSON array at path. The file and
// its parent directory are created on the first write.
func NewFileStore(path string, baseLog *logger.Logger, opts ...Option) *FileStore {
	if baseLog == nil {
		baseLog = logger.NewNop()
	}
	s := &FileStore{
		path: path,
		fs:   osFS{},
		ids:  NewIDGenerator(nil),
		log:  baseLog.With("store", "FileStore", "path", path),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) List(ctx context.Context) ([]project.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) Get(ctx context.Context, id string) (project.Record, error) {
	recs, err := s.List(ctx)
	if err != nil {
		return project.Record{}, err
	}
	i := indexOf(recs, id)
	if id == "" || i < 0 {
		return project.Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return recs[i], nil
}

func (s *FileStore) Create(ctx context.Context, rec project.Record) (project.Record, error) {
	var out project.Record
	err := s.mutate(ctx, func(recs []project.Record) ([]project.Record, error) {
		next, stored, err := applyCreate(recs, rec, s.ids)
		out = stored
		return next, err
	})
	if err != nil {
		return project.Record{}, err
	}
	return out, nil
}

func (s *FileStore) Update(ctx context.Context, rec project.Record) (project.Record, error) {
	var out project.Record
	err := s.mutate(ctx, func(recs []project.Record) ([]project.Record, error) {
		next, stored, err := applyUpdate(recs, rec)
		out = stored
		return next, err
	})
	if err != nil {
		return project.Record{}, err
	}
	return out, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, func(recs []project.Record) ([]project.Record, error) {
		return applyDelete(recs, id)
	})
}

func (s *FileStore) Replace(ctx context.Context, recs []project.Record) error {
	next, err := checkReplace(recs)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(next); err != nil {
		return err
	}
	s.log.Info("Catalog replaced", "count", len(next))
	return nil
}

func (s *FileStore) mutate(ctx context.Context, fn func([]project.Record) ([]project.Record, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load()
	if err != nil {
		return err
	}
	next, err := fn(recs)
	if err != nil {
		return err
	}
	return s.save(next)
}

func (s *FileStore) load() ([]project.Record, error) {
	raw, err := s.fs.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []project.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	// A zero-byte file is treated like a missing one.
	if len(bytes.TrimSpace(raw)) == 0 {
		return []project.Record{}, nil
	}
	recs, err := Decode(raw)
	if err != nil {
		s.log.Error("Catalog document failed to parse", "error", err)
		return nil, err
	}
	return recs, nil
}

// save writes to a temp file next to the document, fsyncs it and renames it
// over the document. The previous document survives any failure.
func (s *FileStore) save(recs []project.Record) error {
	raw, err := Encode(recs)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}
	tmp, err := s.fs.CreateTemp(dir, "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = s.fs.Remove(tmpName) }

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := s.fs.Rename(tmpName, s.path); err != nil {
		cleanup()
		s.log.Error("Catalog write failed", "error", err)
		return fmt.Errorf("replace catalog: %w", err)
	}
	s.log.Debug("Catalog written", "count", len(recs), "bytes", len(raw))
	return nil
}

// Encode renders the persisted document format: a two-space indented JSON
// array with a trailing newline.
func Encode(recs []project.Record) ([]byte, error) {
	if recs == nil {
		recs = []project.Record{}
	}
	for i := range recs {
		if recs[i].Tags == nil {
			recs[i].Tags = []string{}
		}
	}
	raw, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return append(raw, '\n'), nil
}

// Decode parses a catalog document. Used by the CLI importer.
func Decode(raw []byte) ([]project.Record, error) {
	var recs []project.Record
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if recs == nil {
		return nil, fmt.Errorf("%w: document is not an array", ErrCorrupt)
	}
	for i := range recs {
		recs[i].Normalize()
	}
	return recs, nil
}
