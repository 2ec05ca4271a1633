package backend

import (
	"context"
	"fmt"
	"log/slog"

	"agenda/internal/booking"
	"agenda/internal/event"
	"agenda/internal/repository"
	"agenda/internal/stats"
	"agenda/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// Create implements Factory.Create.
func (f *DefaultFactory) Create(ctx context.Context, config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	var store storage.Store
	switch config.Type {
	case SQLiteBackend:
		if config.SQLiteDBPath == "" {
			return nil, fmt.Errorf("SQLite database path is required for sqlite backend")
		}
		s, err := storage.NewSQLiteStore(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		store = s
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	case MemoryBackend:
		store = storage.NewMemoryStore()
		f.logger.Info("Initialized memory backend")
	}

	return f.assemble(ctx, store)
}

// assemble wires the core on top of the chosen store. The stats engine's
// memoized summaries are purged on every collection change so a mutation
// can never leave a stale aggregate behind.
func (f *DefaultFactory) assemble(ctx context.Context, store storage.Store) (*Result, error) {
	repo, err := repository.Open(ctx, store)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("open repository: %w", err)
	}

	bus := event.NewBus()
	engine := stats.NewEngine(repo)
	bus.SubscribeCollectionChanged(func(event.Collection) { engine.Invalidate() })

	app := &App{
		Repo:    repo,
		Stats:   engine,
		Booking: booking.NewController(repo, bus),
		Bus:     bus,
	}

	return &Result{App: app, Cleanup: repo.Close}, nil
}

// FromAppConfig converts the application config to backend config.
func FromAppConfig(dataBackend, sqlitePath string) (Config, error) {
	t := Type(dataBackend)
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", dataBackend)
	}
	return Config{Type: t, SQLiteDBPath: sqlitePath}, nil
}
