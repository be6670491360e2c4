package service

import (
	"context"
	"sync"
)

// ─────────────────────────────────────────────────────────────
// SaveGuard — prevents overlapping saves of the same board
// ─────────────────────────────────────────────────────────────

// SaveGuard ensures only one save (manual or autosave) runs at a time for a
// given board path. A cron tick that fires while a slow save is still
// writing must skip, not stack. The zero value is ready to use.
type SaveGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
	wg     sync.WaitGroup
}

// TryLock attempts to mark boardPath as saving. Returns false if a save for
// that path is already in flight.
func (g *SaveGuard) TryLock(boardPath string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active == nil {
		g.active = make(map[string]struct{})
	}
	if _, ok := g.active[boardPath]; ok {
		return false
	}
	g.active[boardPath] = struct{}{}
	g.wg.Add(1)
	return true
}

// Unlock marks the save as finished. Must be called after TryLock returns true.
func (g *SaveGuard) Unlock(boardPath string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.active, boardPath)
	g.wg.Done()
}

// WaitAll blocks until all in-flight saves complete or ctx is cancelled.
// Called on shutdown so the process never exits mid-write.
func (g *SaveGuard) WaitAll(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
