package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/verifyit/verifyit/internal/adapters/store"
	"github.com/verifyit/verifyit/internal/config"
	"github.com/verifyit/verifyit/internal/core"
	"go.uber.org/zap"
)

// StoreFactory creates subscriber repositories based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateSubscriberRepository creates a subscriber repository based on the
// configuration
func (f *StoreFactory) CreateSubscriberRepository() (core.SubscriberRepository, error) {
	storageType := f.cfg.GetString("storage.type")

	switch storageType {
	case "postgres":
		dsn := f.cfg.GetString("storage.postgres_dsn")
		if dsn == "" {
			return nil, fmt.Errorf("postgres DSN is required for postgres storage")
		}
		return store.NewPostgresStore(dsn, f.logger)
	case "json":
		jsonPath := f.cfg.GetString("storage.json_path")
		if err := os.MkdirAll(filepath.Dir(jsonPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		return store.NewJSONStore(jsonPath, f.logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}
