package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

var (
	// ErrNotFound is returned when no value is stored under an id.
	ErrNotFound = errors.New("not found")
)

type entry[T any] struct {
	value    T
	storedAt time.Time
	seq      uint64 // insertion order, breaks storedAt ties
}

// MemoryStore is a concurrency-safe in-memory store keyed by id. Values are
// lost on restart.
type MemoryStore[T any] struct {
	mu sync.RWMutex

	data map[string]entry[T]
	seq  uint64

	// retention configuration
	maxCount int           // max number of entries; oldest are evicted first
	maxAge   time.Duration // entries older than this are dropped by Sweep

	clock clockwork.Clock
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxCount or maxAge is <= 0, that limit is disabled.
func NewMemoryStore[T any](maxCount int, maxAge time.Duration, clock clockwork.Clock) *MemoryStore[T] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryStore[T]{
		data:     make(map[string]entry[T]),
		maxCount: maxCount,
		maxAge:   maxAge,
		clock:    clock,
	}
}

// Save stores v under id, replacing any previous value, and enforces the
// count limit.
func (s *MemoryStore[T]) Save(id string, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.data[id] = entry[T]{value: v, storedAt: s.clock.Now(), seq: s.seq}

	if s.maxCount > 0 && len(s.data) > s.maxCount {
		s.evictOldest(len(s.data) - s.maxCount)
	}
}

// evictOldest drops the n oldest entries, breaking storedAt ties by
// insertion order. Caller holds the write lock.
func (s *MemoryStore[T]) evictOldest(n int) {
	type aged struct {
		id  string
		at  time.Time
		seq uint64
	}
	all := make([]aged, 0, len(s.data))
	for id, e := range s.data {
		all = append(all, aged{id, e.storedAt, e.seq})
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].at.Equal(all[j].at) {
			return all[i].at.Before(all[j].at)
		}
		return all[i].seq < all[j].seq
	})

	for _, a := range all[:n] {
		delete(s.data, a.id)
	}
}

// Get returns the value stored under id.
func (s *MemoryStore[T]) Get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[id]
	if !ok || s.expired(e) {
		var zero T
		return zero, ErrNotFound
	}
	return e.value, nil
}

// Delete removes the value stored under id.
func (s *MemoryStore[T]) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; !ok {
		return ErrNotFound
	}
	delete(s.data, id)
	return nil
}

// Sweep drops every entry older than maxAge and returns how many were removed.
func (s *MemoryStore[T]) Sweep() int {
	if s.maxAge <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.data {
		if s.expired(e) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (s *MemoryStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *MemoryStore[T]) expired(e entry[T]) bool {
	if s.maxAge <= 0 {
		return false
	}
	return s.clock.Since(e.storedAt) > s.maxAge
}
