// Package memory is an in-process remote.ObjectStore for offline use and tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"ledger/internal/remote"
)

type Store struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

var _ remote.ObjectStore = (*Store)(nil)

func New() *Store {
	return &Store{objects: make(map[string][]byte)}
}

// FailWith makes every following call return err until it is reset with nil.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *Store) Upload(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.objects[name] = slices.Clone(data)
	return nil
}

func (s *Store) Download(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	data, ok := s.objects[name]
	if !ok {
		return nil, fmt.Errorf("memory %s: %w", name, remote.ErrObjectNotFound)
	}
	return slices.Clone(data), nil
}

// Object returns the stored bytes without going through Download.
func (s *Store) Object(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[name]
	return slices.Clone(data), ok
}
