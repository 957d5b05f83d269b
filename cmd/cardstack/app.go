package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cardstack/internal/config"
	"cardstack/internal/deck"
	"cardstack/internal/logger"
	"cardstack/internal/models"
	"cardstack/internal/persist"
	"cardstack/internal/storage/sqlite"
	"cardstack/internal/util"
)

type rootOptions struct {
	configPath string
	dbPath     string
}

// app bundles the long-lived pieces every command needs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *sqlite.Store
	codec  *persist.Codec
	deck   *deck.Engine
}

// openApp loads configuration, opens storage and loads the deck. override
// runs after the config file and env are applied so flags win.
func openApp(ctx context.Context, opts *rootOptions, override func(*config.Config)) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.dbPath != "" {
		cfg.Storage.DBPath = opts.dbPath
	}
	if override != nil {
		override(cfg)
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		File:       util.ExpandHome(cfg.Logger.File),
		MaxSizeMB:  cfg.Logger.MaxSizeMB,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAgeDays: cfg.Logger.MaxAgeDays,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, err := sqlite.Open(util.ExpandHome(cfg.Storage.DBPath), log.Named("sqlite"))
	if errors.Is(err, sqlite.ErrLocked) {
		_ = log.Sync()
		return nil, fmt.Errorf("%w; stop `cardstack serve` or change the deck through its HTTP API", err)
	}
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	codec := persist.New(store, log.Named("persist"))

	var seed []models.Task
	if cfg.Deck.Seed {
		seed = deck.SeedTasks(time.Now())
	}
	engine := deck.New(ctx, codec, deck.WithSeed(seed), deck.WithLogger(log.Named("deck")))

	return &app{cfg: cfg, logger: log, store: store, codec: codec, deck: engine}, nil
}

// Close drains pending writes before releasing the database.
func (a *app) Close() {
	if err := a.codec.Close(); err != nil {
		a.logger.Error("failed to flush writes", zap.Error(err))
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close database", zap.Error(err))
	}
	_ = a.logger.Sync()
}
