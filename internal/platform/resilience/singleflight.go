package resilience

import "sync"

// Flight deduplicates concurrent calls for the same key. Callers that
// arrive while a call is in flight wait for it and share its result.
type Flight[T any] struct {
	mu    sync.Mutex
	calls map[string]*flightCall[T]
}

type flightCall[T any] struct {
	wg  sync.WaitGroup
	val T
	err error
	dup int
}

// Do runs fn once per key at a time. shared reports whether the result was
// handed to more than one caller.
func (g *Flight[T]) Do(key string, fn func() (T, error)) (val T, err error, shared bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*flightCall[T])
	}

	if c, ok := g.calls[key]; ok {
		c.dup++
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, true
	}

	c := &flightCall[T]{}
	c.wg.Add(1)
	g.calls[key] = c
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.calls, key)
		g.mu.Unlock()
		c.wg.Done()
	}()

	c.val, c.err = fn()

	g.mu.Lock()
	shared = c.dup > 0
	g.mu.Unlock()
	return c.val, c.err, shared
}

// InFlight reports the number of keys currently executing.
func (g *Flight[T]) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}
