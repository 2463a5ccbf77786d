package cmd

import (
	"context"
	"fmt"

	"holocron/core/config"
	"holocron/core/logger"
	"holocron/core/reconcile"
	"holocron/core/storage"
	"holocron/core/store"

	"go.uber.org/zap"
)

// runtime bundles what every command needs.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
	// client is nil unless the dataset is read from object storage.
	client storage.Client
}

// setup loads configuration, builds the logger and opens the store.
func setup(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: l}
	if cfg.Dataset.Source == reconcile.SourceStorage {
		if rt.client, err = storage.NewClient(cfg.Storage); err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
	}

	rt.store = store.New(cfg.Store, l)
	if err := rt.store.Open(ctx); err != nil {
		return nil, err
	}
	l.Debug("Stores opened", zap.String("dir", cfg.Store.DataDir()))
	return rt, nil
}

// Close releases the store and flushes the logger.
func (rt *runtime) Close() {
	if err := rt.store.Close(); err != nil {
		rt.logger.Warn("Failed to close stores", zap.Error(err))
	}
	_ = rt.logger.Sync()
}

// loadDataset reads the configured dataset and resolves the target version.
func (rt *runtime) loadDataset(ctx context.Context) (*reconcile.Dataset, int, error) {
	src, err := reconcile.NewSource(rt.cfg.Dataset, rt.client, rt.cfg.Storage.Bucket)
	if err != nil {
		return nil, 0, err
	}

	rt.logger.Info("Loading dataset", zap.String("source", src.Describe()))
	ds, err := src.Load(ctx)
	if err != nil {
		return nil, 0, err
	}

	target, err := reconcile.TargetVersion(ds, rt.cfg.Dataset.Version)
	if err != nil {
		return nil, 0, err
	}
	return ds, target, nil
}
