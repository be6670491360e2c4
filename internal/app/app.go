package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"boardkit/internal/bus"
	"boardkit/internal/domain"
	"boardkit/internal/modules"
	"boardkit/internal/registry"
	"boardkit/internal/secret"
	"boardkit/internal/service"
	"boardkit/internal/storage"
)

// App wires the data-sharing core, the services, and the storage layer into
// one shell. It owns the currently open board document; everything below it
// takes the document explicitly.
type App struct {
	ctx context.Context

	contracts *registry.ContractRegistry
	consumers *registry.ConsumerRegistry
	modules   *registry.ModuleRegistry
	bus       *bus.DataBus

	board   *service.BoardService
	sharing *service.SharingService
	emitter service.EventEmitter

	db      *storage.DB
	index   *storage.BoardIndexStore
	history *storage.HistoryStore
	vault   *storage.Vault
	secrets secret.Store

	dataDir  string
	guard    service.SaveGuard
	autosave *autosaver
	watcher  *vaultWatcher

	// mu serializes every access to the open document — contents included,
	// not just the pointer: the autosave goroutine encodes the same maps and
	// slices the facade methods mutate. The bindings follow the document and
	// are touched under the same lock.
	mu       sync.Mutex
	doc      *domain.BoardkitDocument
	docPath  string
	dirty    bool
	bindings *bindingSet
}

// Options configures the App shell.
type Options struct {
	// DataDir is where the index database and the vault live.
	// Empty means ~/.local/share/boardkit.
	DataDir string
	// Emitter receives shell events. Nil means log-only.
	Emitter service.EventEmitter
	// Secrets holds datasource passwords. Nil means the system keychain.
	Secrets secret.Store
}

// New creates an App. Call Startup before using it.
func New(opts Options) *App {
	emitter := opts.Emitter
	if emitter == nil {
		emitter = service.LogEmitter{}
	}

	contracts := registry.NewContractRegistry()
	consumers := registry.NewConsumerRegistry()
	mods := registry.NewModuleRegistry()
	dataBus := bus.New()

	sharing := service.NewSharingService(contracts, consumers, dataBus, emitter)
	board := service.NewBoardService(mods, sharing, emitter)

	secrets := opts.Secrets
	if secrets == nil {
		secrets = secret.NewKeychainStore()
	}

	a := &App{
		contracts: contracts,
		consumers: consumers,
		modules:   mods,
		bus:       dataBus,
		board:     board,
		sharing:   sharing,
		emitter:   emitter,
		secrets:   secrets,
	}
	a.bindings = newBindingSet(a)

	if opts.DataDir == "" {
		home, _ := os.UserHomeDir()
		opts.DataDir = filepath.Join(home, ".local", "share", "boardkit")
	}
	a.dataDir = opts.DataDir
	return a
}

// Startup opens storage, registers the built-in modules, and starts the
// autosave loop and the vault watcher.
func (a *App) Startup(ctx context.Context) error {
	a.ctx = ctx

	if err := modules.RegisterBuiltins(a.contracts, a.consumers, a.modules); err != nil {
		return fmt.Errorf("register builtins: %w", err)
	}

	vaultDir := filepath.Join(a.dataDir, "boards")
	db, err := storage.New(filepath.Join(a.dataDir, "boardkit.db"), vaultDir)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.db = db
	a.index = storage.NewBoardIndexStore(db)
	a.history = storage.NewHistoryStore(db)

	vault, err := storage.NewVault(vaultDir)
	if err != nil {
		return err
	}
	a.vault = vault

	watcher, err := newVaultWatcher(ctx, vault.Dir(), a)
	if err != nil {
		log.Printf("vault watcher unavailable: %v", err)
	} else {
		a.watcher = watcher
	}

	a.autosave = newAutosaver(a)
	a.autosave.Start()
	return nil
}

// Shutdown saves the open board, waits for in-flight saves, and releases
// everything.
func (a *App) Shutdown(ctx context.Context) {
	if a.autosave != nil {
		a.autosave.Stop()
	}
	if a.watcher != nil {
		a.watcher.Close()
	}

	a.mu.Lock()
	dirty := a.dirty && a.doc != nil
	a.mu.Unlock()
	if dirty {
		if err := a.SaveBoard(); err != nil {
			log.Printf("save on shutdown: %v", err)
		}
	}
	a.guard.WaitAll(ctx)

	a.mu.Lock()
	a.bindings.CloseAll()
	a.mu.Unlock()
	a.bus.Clear()
	if a.db != nil {
		a.db.Close()
	}
}
