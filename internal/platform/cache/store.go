package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/asstoyanov/predictor-mcp/internal/platform/resilience"
)

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

type entry[T any] struct {
	value      T
	insertedAt time.Time
}

// Store is an in-memory map with a fixed time-to-live per instance.
// Expired entries are evicted lazily on the first read after expiry.
type Store[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	ttl     time.Duration
	now     Clock
	flight  resilience.Flight[T]
}

type Option func(*options)

type options struct {
	clock Clock
}

func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

func NewStore[T any](ttl time.Duration, opts ...Option) *Store[T] {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &Store[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
		now:     o.clock,
	}
}

func (s *Store[T]) TTL() time.Duration {
	return s.ttl
}

func (s *Store[T]) Get(_ context.Context, key string) (T, bool) {
	var zero T
	if key == "" {
		return zero, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if s.expired(e) {
		s.mu.Lock()
		// re-check: a concurrent Set may have refreshed the key
		if current, ok := s.entries[key]; ok && s.expired(current) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return zero, false
	}

	return e.value, true
}

// Set stores value under key. Concurrent writers for the same key are not
// coordinated: the last write wins.
func (s *Store[T]) Set(_ context.Context, key string, value T) {
	if key == "" {
		return
	}

	s.mu.Lock()
	s.entries[key] = entry[T]{
		value:      value,
		insertedAt: s.now(),
	}
	s.mu.Unlock()
}

func (s *Store[T]) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store[T]) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetOrLoad returns the cached value or runs loader once per key across
// concurrent callers. The bool result reports a cache hit.
func (s *Store[T]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (T, error)) (T, bool, error) {
	var zero T
	if loader == nil {
		return zero, false, fmt.Errorf("loader is required")
	}
	if key == "" {
		value, err := loader(ctx)
		return value, false, err
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, true, nil
	}

	value, err, _ := s.flight.Do(key, func() (T, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return zero, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return zero, false, err
	}
	return value, false, nil
}

func (s *Store[T]) expired(e entry[T]) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.now().Sub(e.insertedAt) > s.ttl
}
