package main

import (
	"context"
	"fmt"
	"time"

	"github.com/vytor/karrito/internal/config"
	"github.com/vytor/karrito/internal/db"
	"github.com/vytor/karrito/internal/fsutil"
	"github.com/vytor/karrito/internal/logger"
	"github.com/vytor/karrito/internal/paths"
	"github.com/vytor/karrito/internal/repository/sqlite"
	"github.com/vytor/karrito/internal/services"
	"github.com/vytor/karrito/internal/worker"
)

// app is the wired store and services shared by every command.
type app struct {
	cfg      config.Config
	dataDir  string
	store    *db.Manager
	profiles services.ProfileService
	settings services.SettingsService
	log      *logger.Logger
}

// openApp runs the startup sequence: config, logger, paths, connect, schema,
// services, initialize. Any failure aborts; the caller must defer close.
func openApp(ctx context.Context) (*app, error) {
	cfg := config.Load()
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.New(logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	logger.SetDefault(log)
	log.Debug("configuration loaded: addr=%s workers=%d queue=%d", cfg.Addr, cfg.WorkerCount, cfg.QueueSize)

	dataDir, err := paths.ResolveDataDir(flagDataDir, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	dbPath := paths.DatabasePath(dataDir, cfg.DBPath)
	log.Debug("data_dir=%s db_path=%s", dataDir, dbPath)

	store := db.NewManager(dbPath,
		db.WithBusyTimeout(time.Duration(cfg.BusyTimeoutMS)*time.Millisecond),
		db.WithLogger(log),
	)
	if err := store.Connect(ctx); err != nil {
		log.Error("failed to open database: %v", err)
		return nil, err
	}

	schema, err := db.NewSchemaManager(store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if err := schema.EnsureSchema(ctx); err != nil {
		log.Error("schema migration failed, aborting: %v", err)
		_ = store.Close()
		return nil, err
	}

	pool := worker.NewPool(cfg.WorkerCount, cfg.QueueSize)
	pool.Start(context.Background())

	profiles := services.NewProfileService(
		sqlite.NewProfileRepository(store, nil),
		fsutil.NewOS(),
		pool,
		paths.ProfilesRoot(dataDir),
	)
	if err := profiles.Initialize(ctx); err != nil {
		profiles.Shutdown()
		_ = store.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		dataDir:  dataDir,
		store:    store,
		profiles: profiles,
		settings: services.NewSettingsService(sqlite.NewSettingsRepository(store, nil)),
		log:      log,
	}, nil
}

// close drains pending lifecycle work before releasing the store.
func (a *app) close() {
	a.profiles.Shutdown()
	if err := a.store.Close(); err != nil {
		a.log.Warn("failed to close database: %v", err)
	}
}
