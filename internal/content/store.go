package content

import (
	"context"
	"errors"
	"sync/atomic"

	"pkt.systems/pslog"
)

// Store publishes the current catalog. Readers take a snapshot with
// Current; a reload swaps the pointer and never mutates a published catalog.
type Store struct {
	path    string
	current atomic.Pointer[Catalog]
}

// NewStore wraps an already parsed catalog.
func NewStore(cat *Catalog) *Store {
	s := &Store{}
	s.current.Store(cat)
	return s
}

// Open loads the catalog at path, or the embedded catalog when path is empty.
func Open(path string) (*Store, error) {
	var (
		cat *Catalog
		err error
	)
	if path == "" {
		cat, err = Default()
	} else {
		cat, err = LoadFile(path)
	}
	if err != nil {
		return nil, err
	}
	s := NewStore(cat)
	s.path = path
	return s, nil
}

// Path returns the backing file, empty for the embedded catalog.
func (s *Store) Path() string {
	return s.path
}

// Current returns the active catalog snapshot.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Reload re-reads the backing file and swaps it in when valid.
func (s *Store) Reload(ctx context.Context) error {
	if s.path == "" {
		return errors.New("content store has no backing file")
	}
	cat, err := LoadFile(s.path)
	if err != nil {
		pslog.Ctx(ctx).Warn("content reload failed", "path", s.path, "err", err)
		return err
	}
	s.current.Store(cat)
	pslog.Ctx(ctx).Info("content reloaded", "path", s.path, "commands", len(cat.commands))
	return nil
}
