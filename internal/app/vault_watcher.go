package app

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// muteWindow is how long the watcher ignores events on a path after one of
// our own saves touched it.
const muteWindow = 2 * time.Second

// vaultWatcher watches the vault directory for external changes to .boardkit
// files (another process, a sync client) and emits reload events. Our own
// saves are muted so they do not echo back as external changes.
type vaultWatcher struct {
	ctx     context.Context
	app     *App
	watcher *fsnotify.Watcher

	mu    sync.Mutex
	muted map[string]time.Time
}

func newVaultWatcher(ctx context.Context, dir string, a *App) (*vaultWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &vaultWatcher{
		ctx:     ctx,
		app:     a,
		watcher: fsw,
		muted:   make(map[string]time.Time),
	}
	go w.loop()
	return w, nil
}

// Mute suppresses events for path for the next muteWindow.
func (w *vaultWatcher) Mute(path string) {
	w.mu.Lock()
	w.muted[filepath.Clean(path)] = time.Now()
	w.mu.Unlock()
}

func (w *vaultWatcher) Close() {
	w.watcher.Close()
}

func (w *vaultWatcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("vault watcher: %v", err)
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *vaultWatcher) handle(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".boardkit") {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	path := filepath.Clean(event.Name)
	w.mu.Lock()
	mutedAt, muted := w.muted[path]
	if muted && time.Since(mutedAt) > muteWindow {
		delete(w.muted, path)
		muted = false
	}
	w.mu.Unlock()
	if muted {
		return
	}

	w.app.emitter.Emit(w.ctx, "vault:board-changed", map[string]string{"path": path})
}
