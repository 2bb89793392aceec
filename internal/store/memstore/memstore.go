// Package memstore is the in-process record store: one RWMutex around a map.
// It lives for the process; nothing is persisted.
package memstore

import (
	"context"
	"sync"

	"github.com/idilsaglam/taskhub/internal/store"
)

type Store[K comparable, R any] struct {
	mu  sync.RWMutex
	m   map[K]R
	key store.KeyFunc[K, R]
}

var _ store.Store[int, struct{}] = (*Store[int, struct{}])(nil)

// New returns a store seeded with seed. Later duplicates in seed are ignored.
func New[K comparable, R any](key store.KeyFunc[K, R], seed ...R) *Store[K, R] {
	s := &Store[K, R]{m: make(map[K]R, len(seed)), key: key}
	for _, r := range seed {
		if _, ok := s.m[key(r)]; !ok {
			s.m[key(r)] = r
		}
	}
	return s
}

func (s *Store[K, R]) Insert(_ context.Context, r R) (bool, error) {
	id := s.key(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[id]; ok {
		return false, nil
	}
	s.m[id] = r
	return true, nil
}

func (s *Store[K, R]) Update(_ context.Context, r R) (bool, error) {
	id := s.key(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[id]; !ok {
		return false, nil
	}
	s.m[id] = r
	return true, nil
}

func (s *Store[K, R]) Delete(_ context.Context, id K) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[id]; !ok {
		return false, nil
	}
	delete(s.m, id)
	return true, nil
}

func (s *Store[K, R]) FindByID(_ context.Context, id K) (R, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.m[id]
	return r, ok, nil
}

func (s *Store[K, R]) FindAll(_ context.Context) ([]R, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]R, 0, len(s.m))
	for _, r := range s.m {
		out = append(out, r)
	}
	return out, nil
}

// Len returns the number of records.
func (s *Store[K, R]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
