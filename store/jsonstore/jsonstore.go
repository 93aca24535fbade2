// Package jsonstore is the reference CassetteStore implementation: a
// structured, human-readable JSON file. Save is atomic (write-to-temp then
// rename) so a crashed save never leaves a truncated cassette observable.
package jsonstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/roach88/interposition/cassette"
	"github.com/roach88/interposition/store"
)

// Store is a file-backed store.CassetteStore.
type Store struct {
	path            string
	createIfMissing bool
}

// Option configures a Store at construction.
type Option func(*Store)

// WithCreateIfMissing controls Load's behavior when the backing file does
// not exist. With create (the default is false — strict mode), Load
// returns an empty cassette instead of a LoadError, and Save may create the
// file (and its parent directories) on first write.
func WithCreateIfMissing(create bool) Option {
	return func(s *Store) { s.createIfMissing = create }
}

// New constructs a Store backed by the file at path. By default (strict
// mode) Load fails with a store.LoadError if the file does not exist.
func New(path string, opts ...Option) *Store {
	s := &Store{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load returns the cassette persisted at s.Path(). If the file is absent:
// strict mode (default) fails with a store.LoadError wrapping the
// underlying os.ErrNotExist cause; create-if-missing mode returns an empty
// cassette. Unreadable or malformed content always fails with a
// store.LoadError wrapping the parse cause, regardless of mode.
func (s *Store) Load() (cassette.Cassette, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && s.createIfMissing {
			return cassette.Empty(), nil
		}
		return cassette.Cassette{}, &store.LoadError{Cause: err}
	}

	c, err := decode(data)
	if err != nil {
		return cassette.Cassette{}, &store.LoadError{Cause: err}
	}
	return c, nil
}

// Save persists c to s.Path(), overwriting any prior content. The write is
// atomic: the new content is written to a sibling temporary file first,
// then renamed into place, so a crash mid-write never leaves a truncated
// cassette observable at s.Path(). If create-if-missing mode is set, Save
// creates s.Path()'s parent directory when absent.
func (s *Store) Save(c cassette.Cassette) error {
	data, err := encode(c)
	if err != nil {
		return &store.SaveError{Cause: err}
	}

	dir := filepath.Dir(s.path)
	if s.createIfMissing {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &store.SaveError{Cause: fmt.Errorf("create parent directory: %w", err)}
		}
	}

	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(s.path), uuid.NewString()))
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return &store.SaveError{Cause: fmt.Errorf("write temp file: %w", err)}
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return &store.SaveError{Cause: fmt.Errorf("rename into place: %w", err)}
	}
	return nil
}
