package habits

import (
	"context"
	"sync"
	"sync/atomic"
)

// Guard runs an initialization function at most once successfully.
//
// Callers that arrive while initialization is in progress wait for it to
// finish. A failed initialization leaves the guard unready; the next call to
// Ensure tries again.
type Guard struct {
	ready atomic.Bool
	mu    sync.Mutex
	init  func(ctx context.Context) error
}

func NewGuard(init func(ctx context.Context) error) *Guard {
	return &Guard{init: init}
}

// Ensure returns nil once initialization has succeeded, running it if needed.
func (g *Guard) Ensure(ctx context.Context) error {
	if g.ready.Load() {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ready.Load() {
		return nil
	}
	if err := g.init(ctx); err != nil {
		return err
	}
	g.ready.Store(true)
	return nil
}

// Ready reports whether initialization has completed.
func (g *Guard) Ready() bool {
	return g.ready.Load()
}
