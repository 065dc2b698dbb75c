package backend

import (
	"context"
	"fmt"
	"log/slog"

	"ledger/internal/storage"
)

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result carries the built store and its cleanup, nil when none is needed.
type Result struct {
	Store   storage.Store
	Cleanup CleanupFunc
}

// Factory builds storage stores from configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateStore builds the store named by config.Type.
func (f *Factory) CreateStore(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case FileBackend:
		store, err := storage.NewFileStore(config.DataDir)
		if err != nil {
			return nil, fmt.Errorf("initialize file store: %w", err)
		}
		f.logger.Info("Initialized file backend", "dir", config.DataDir)
		return &Result{Store: store}, nil

	case SQLiteBackend:
		store, err := storage.NewSQLiteStore(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		f.logger.Info("Initialized sqlite backend", "db_path", config.SQLiteDBPath)
		return &Result{Store: store, Cleanup: store.Close}, nil

	case PostgresBackend:
		store, err := storage.NewPostgresStore(ctx, config.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres store: %w", err)
		}
		f.logger.Info("Initialized postgres backend")
		return &Result{
			Store:   store,
			Cleanup: func() error { return store.Close(context.Background()) },
		}, nil

	case MemoryBackend:
		f.logger.Info("Initialized memory backend")
		return &Result{Store: storage.NewMemoryStore()}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
