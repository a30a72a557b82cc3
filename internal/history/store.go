// Package history implements a capped, most-recent-first list that is kept in
// sync with a durable storage slot.
package history

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/xiaot623/gogo/panel/internal/domain"
	"github.com/xiaot623/gogo/panel/internal/repository"
)

// schemaVersion is bumped whenever the stored item shape changes incompatibly.
const schemaVersion = 1

type envelope[T any] struct {
	Version int `json:"version"`
	Items   []T `json:"items"`
}

// Store is a bounded history of T, newest item first.
type Store[T any] struct {
	// writeMu serializes storage writes.
	writeMu  sync.Mutex
	mu       sync.RWMutex
	key      string
	capacity int
	items    []T
	storage  repository.SlotStore
}

// New creates an empty store bound to the given slot. A nil storage keeps the
// history in memory only.
func New[T any](key string, capacity int, storage repository.SlotStore) *Store[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Store[T]{
		key:      key,
		capacity: capacity,
		storage:  storage,
	}
}

// Capacity returns the maximum number of items kept.
func (s *Store[T]) Capacity() int {
	return s.capacity
}

// Len returns the current number of items.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// InsertFront prepends item, drops whatever falls beyond capacity and
// persists the result. The in-memory insert stands even if persisting fails.
func (s *Store[T]) InsertFront(ctx context.Context, item T) error {
	s.Prepend(item)
	return s.Persist(ctx)
}

// Prepend inserts item at the head in memory only, dropping whatever falls
// beyond capacity. Callers follow up with Persist.
func (s *Store[T]) Prepend(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]T, 0, min(len(s.items)+1, s.capacity))
	next = append(next, item)
	for _, existing := range s.items {
		if len(next) == s.capacity {
			break
		}
		next = append(next, existing)
	}
	s.items = next
}

// All returns a copy of the items, newest first.
func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Find returns the first item matching pred.
func (s *Store[T]) Find(pred func(T) bool) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Load replaces the in-memory items with the stored ones. Missing data yields
// an empty store. Unreadable, corrupted or schema-incompatible data also
// yields an empty store and a *domain.RecoverableError describing why.
func (s *Store[T]) Load(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}

	data, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.reset()
		return &domain.RecoverableError{Op: "load " + s.key, Err: err}
	}
	if len(data) == 0 {
		s.reset()
		return nil
	}

	var env envelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		s.reset()
		return &domain.RecoverableError{Op: "load " + s.key, Err: errors.Wrap(err, "decode stored history")}
	}
	if env.Version != schemaVersion {
		s.reset()
		return &domain.RecoverableError{
			Op:  "load " + s.key,
			Err: errors.Errorf("stored schema version %d, want %d", env.Version, schemaVersion),
		}
	}

	items := env.Items
	if len(items) > s.capacity {
		log.Debug().Str("slot", s.key).Int("stored", len(items)).Int("capacity", s.capacity).Msg("truncating stored history")
		items = items[:s.capacity]
	}

	s.mu.Lock()
	s.items = append([]T(nil), items...)
	s.mu.Unlock()
	return nil
}

// Persist writes the current items to storage. Items are encoded after
// writeMu is taken, so the last write always carries the newest list.
func (s *Store[T]) Persist(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	data, err := s.encodeLocked()
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	return s.write(ctx, data)
}

func (s *Store[T]) reset() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

func (s *Store[T]) encodeLocked() ([]byte, error) {
	items := s.items
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(envelope[T]{Version: schemaVersion, Items: items})
	if err != nil {
		return nil, errors.Wrapf(err, "encode history %s", s.key)
	}
	return data, nil
}

func (s *Store[T]) write(ctx context.Context, data []byte) error {
	if s.storage == nil {
		return nil
	}
	if err := s.storage.Put(ctx, s.key, data); err != nil {
		return errors.Wrapf(err, "persist history %s", s.key)
	}
	return nil
}
