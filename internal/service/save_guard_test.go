package service_test

import (
	"context"
	"testing"
	"time"

	"boardkit/internal/service"
)

// ─────────────────────────────────────────────────────────────
// SaveGuard tests
// ─────────────────────────────────────────────────────────────

func TestSaveGuard_TryLockExcludesSamePath(t *testing.T) {
	var g service.SaveGuard

	if !g.TryLock("/vault/a.boardkit") {
		t.Fatal("first lock must succeed")
	}
	if g.TryLock("/vault/a.boardkit") {
		t.Fatal("second lock on the same path must be refused")
	}
	if !g.TryLock("/vault/b.boardkit") {
		t.Fatal("a different path must lock independently")
	}

	g.Unlock("/vault/a.boardkit")
	if !g.TryLock("/vault/a.boardkit") {
		t.Fatal("path must be lockable again after unlock")
	}

	g.Unlock("/vault/a.boardkit")
	g.Unlock("/vault/b.boardkit")
}

func TestSaveGuard_WaitAllBlocksUntilUnlocked(t *testing.T) {
	var g service.SaveGuard
	g.TryLock("/vault/slow.boardkit")

	done := make(chan struct{})
	go func() {
		g.WaitAll(context.Background())
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("WaitAll returned while a save was still in flight")
	case <-time.After(20 * time.Millisecond):
	}

	g.Unlock("/vault/slow.boardkit")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitAll did not return after the last unlock")
	}
}

func TestSaveGuard_WaitAllHonorsContext(t *testing.T) {
	var g service.SaveGuard
	g.TryLock("/vault/stuck.boardkit")
	defer g.Unlock("/vault/stuck.boardkit")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	g.WaitAll(ctx)
	if time.Since(start) > time.Second {
		t.Fatal("WaitAll must give up when the context expires")
	}
}
