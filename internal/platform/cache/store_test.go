package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, _, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, hit, err := store.GetOrLoad(context.Background(), "k", loader); err != nil || hit {
		t.Fatalf("first GetOrLoad: hit=%v err=%v", hit, err)
	}
	if _, hit, err := store.GetOrLoad(context.Background(), "k", loader); err != nil || !hit {
		t.Fatalf("second GetOrLoad: hit=%v err=%v", hit, err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Minute)
	boom := errors.New("boom")

	if _, _, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) {
		return 0, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("failed load must not populate the cache")
	}
}

func TestStore_ExpiresLazilyAfterTTL(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := NewStore[string](time.Minute, WithClock(clock.Now))
	ctx := context.Background()

	store.Set(ctx, "scan", "payload")

	clock.Advance(time.Minute)
	if got, ok := store.Get(ctx, "scan"); !ok || got != "payload" {
		t.Fatalf("expected hit exactly at ttl, got ok=%v value=%q", ok, got)
	}
	if store.Len() != 1 {
		t.Fatalf("expected one entry, got %d", store.Len())
	}

	clock.Advance(time.Millisecond)
	if _, ok := store.Get(ctx, "scan"); ok {
		t.Fatalf("expected miss after ttl")
	}
	if store.Len() != 0 {
		t.Fatalf("expected expired entry to be evicted on access, got %d entries", store.Len())
	}
}

func TestStore_LastWriterWins(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Minute)
	ctx := context.Background()

	store.Set(ctx, "k", 1)
	store.Set(ctx, "k", 2)

	if got, _ := store.Get(ctx, "k"); got != 2 {
		t.Fatalf("expected last write to win, got %d", got)
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore[int](0)
	ctx := context.Background()
	store.Set(ctx, "scan|a", 1)
	store.Set(ctx, "scan|b", 2)
	store.Set(ctx, "fixtures|a", 3)

	store.DeletePrefix(ctx, "scan|")

	if store.Len() != 1 {
		t.Fatalf("expected one entry left, got %d", store.Len())
	}
	if _, ok := store.Get(ctx, "fixtures|a"); !ok {
		t.Fatalf("expected unrelated key to survive")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
