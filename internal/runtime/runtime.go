// Package runtime composes the store, module registry, wasm host,
// supervisor, and subscription hub into one process.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/emberline/keel/internal/aggregate"
	"github.com/emberline/keel/internal/archive"
	"github.com/emberline/keel/internal/config"
	"github.com/emberline/keel/internal/hub"
	"github.com/emberline/keel/internal/messagestore"
	"github.com/emberline/keel/internal/messagestore/postgres"
	"github.com/emberline/keel/internal/messagestore/sqlite"
	"github.com/emberline/keel/internal/model"
	"github.com/emberline/keel/internal/registry"
	"github.com/emberline/keel/internal/relay"
	"github.com/emberline/keel/internal/supervisor"
	"github.com/emberline/keel/internal/wasm"
)

// Runtime is the assembled event-sourcing runtime.
type Runtime struct {
	cfg    *config.Config
	logger *slog.Logger

	store      messagestore.Store
	registry   *registry.Registry
	host       *wasm.Host
	supervisor *supervisor.Supervisor
	hub        *hub.Hub

	relayPub  relay.Publisher
	relayPump *relay.Pump
	relayStop context.CancelFunc

	archiver *archive.Scheduler

	mu      sync.Mutex
	modules map[string]compiledModule // category -> compiled latest version
}

type compiledModule struct {
	module  *wasm.Module
	version uint64
}

// Open builds the runtime from configuration: opens the store and registry
// under the data dir, starts the wasm host, scans modules/, and wires the
// supervisor, hub, relay, and archiver.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	var store messagestore.Store
	var err error
	switch cfg.Store {
	case "postgres":
		store, err = postgres.New(cfg.DatabaseURL)
	default:
		store, err = sqlite.Open(filepath.Join(cfg.DataDir, "store.db"))
	}
	if err != nil {
		return nil, fmt.Errorf("open message store: %w", err)
	}

	reg, err := registry.Open(filepath.Join(cfg.DataDir, "registry.db"))
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("open registry: %w", err)
	}

	host, err := wasm.NewHost(ctx, logger)
	if err != nil {
		reg.Close()
		store.Close()
		return nil, fmt.Errorf("start wasm host: %w", err)
	}

	r := &Runtime{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		registry: reg,
		host:     host,
		modules:  make(map[string]compiledModule),
	}

	r.supervisor = supervisor.New(store, r.instantiate, cfg.ActorCacheSize, cfg.CommandTimeout, logger)
	r.hub = hub.New(store, logger)

	// On-disk modules are published into the registry at startup; the file
	// stem is the category.
	if err := reg.LoadDir(ctx, filepath.Join(cfg.DataDir, "modules"), logger); err != nil {
		r.Close(ctx)
		return nil, err
	}

	if cfg.NATSURL != "" {
		pub, err := relay.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			r.Close(ctx)
			return nil, fmt.Errorf("connect relay: %w", err)
		}
		r.relayPub = pub
		pumpCtx, cancel := context.WithCancel(context.Background())
		r.relayStop = cancel
		r.relayPump = relay.StartPump(pumpCtx, store, pub, logger)
		logger.Info("relay enabled", "nats_url", cfg.NATSURL)
	}

	if cfg.ArchiveInterval > 0 {
		var dests []archive.Destination
		if cfg.ArchiveS3Bucket != "" {
			s3Dest, err := archive.NewS3Destination(ctx, cfg.ArchiveS3Bucket, cfg.ArchiveS3Key, cfg.ArchiveS3Region, cfg.ArchiveS3Endpoint)
			if err != nil {
				logger.Error("failed to create S3 archive destination", "err", err)
			} else {
				dests = append(dests, s3Dest)
				logger.Info("archive S3 destination enabled", "bucket", cfg.ArchiveS3Bucket, "key", cfg.ArchiveS3Key)
			}
		}
		if cfg.ArchiveFile != "" {
			dests = append(dests, &archive.FileDestination{Path: cfg.ArchiveFile})
			logger.Info("archive file destination enabled", "path", cfg.ArchiveFile)
		}
		if len(dests) > 0 {
			r.archiver = archive.NewScheduler(store, dests, cfg.ArchiveInterval, logger)
			r.archiver.Start()
		}
	}

	return r, nil
}

// Store exposes the message store (read-only use: exports, diagnostics).
func (r *Runtime) Store() messagestore.Store { return r.store }

// Execute routes one command and waits for the result.
func (r *Runtime) Execute(ctx context.Context, cmd *model.Command) (aggregate.Result, error) {
	return r.supervisor.Route(ctx, cmd)
}

// PublishModule validates wasm bytes and stores them as the next version of
// the named category.
func (r *Runtime) PublishModule(ctx context.Context, name string, bytes []byte) (*model.ModuleEntry, error) {
	if err := model.ValidateCategory(name); err != nil {
		return nil, err
	}
	if err := r.host.Validate(ctx, name, bytes); err != nil {
		return nil, err
	}
	entry, err := r.registry.Publish(ctx, name, bytes)
	if err != nil {
		return nil, err
	}
	r.logger.Info("module published", "name", entry.Name, "version", entry.Version, "size", entry.Size)
	return entry, nil
}

// Subscribe starts delivery for a named subscriber.
func (r *Runtime) Subscribe(ctx context.Context, name string, filter model.Filter) (*hub.Subscription, error) {
	return r.hub.Subscribe(ctx, name, filter)
}

// Acknowledge advances a subscriber cursor.
func (r *Runtime) Acknowledge(ctx context.Context, name string, globalID uint64) error {
	return r.hub.Acknowledge(ctx, name, globalID)
}

// instantiate is the aggregate.Instantiator wired into the supervisor: it
// resolves the latest registered module for the stream's category and spins
// up an isolated instance.
func (r *Runtime) instantiate(ctx context.Context, stream model.StreamName) (aggregate.Instance, error) {
	module, err := r.module(ctx, stream.Category())
	if err != nil {
		return nil, err
	}
	return module.Instantiate(ctx, stream)
}

// module returns the compiled latest version for the category, recompiling
// when the registry has moved past the cached version.
func (r *Runtime) module(ctx context.Context, category string) (*wasm.Module, error) {
	latest, err := r.registry.Latest(ctx, category)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.modules[category]; ok && cached.version == latest.Version {
		return cached.module, nil
	}

	compiled, err := r.host.Compile(ctx, category, latest.Bytes)
	if err != nil {
		return nil, err
	}
	if stale, ok := r.modules[category]; ok {
		stale.module.Close(ctx) //nolint:errcheck
	}
	r.modules[category] = compiledModule{module: compiled, version: latest.Version}
	return compiled, nil
}

// Close shuts the runtime down in dependency order: actors drain first so
// every accepted command is persisted, then subscribers, then the store.
func (r *Runtime) Close(ctx context.Context) {
	r.supervisor.Shutdown()
	r.hub.Shutdown()

	if r.relayStop != nil {
		r.relayStop()
		r.relayPump.Wait()
	}
	if r.relayPub != nil {
		r.relayPub.Close() //nolint:errcheck
	}
	if r.archiver != nil {
		r.archiver.Stop()
	}

	r.mu.Lock()
	for _, cached := range r.modules {
		cached.module.Close(ctx) //nolint:errcheck
	}
	r.modules = make(map[string]compiledModule)
	r.mu.Unlock()

	if err := r.host.Close(ctx); err != nil {
		r.logger.Warn("closing wasm host", "err", err)
	}
	if err := r.registry.Close(); err != nil {
		r.logger.Warn("closing registry", "err", err)
	}
	if err := r.store.Close(); err != nil {
		r.logger.Warn("closing store", "err", err)
	}
}
