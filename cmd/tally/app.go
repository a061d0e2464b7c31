// Package main provides the tally command-line entry point.
package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"

	"github.com/thebtf/tally/internal/config"
	gormdb "github.com/thebtf/tally/internal/db/gorm"
	"github.com/thebtf/tally/internal/render"
	"github.com/thebtf/tally/internal/session"
	"github.com/thebtf/tally/internal/stats"
	"github.com/thebtf/tally/internal/tracker"
	"github.com/thebtf/tally/internal/watcher"
)

// app wires configuration, storage and engines for one invocation.
type app struct {
	cfg     *config.Config
	store   *gormdb.Store
	stats   *stats.Engine
	money   *render.Money
	tracker *tracker.Tracker
	watcher *watcher.Watcher
}

func loadConfig(opts *options) (*config.Config, error) {
	if opts.configPath != "" {
		return config.LoadFile(opts.configPath)
	}
	if err := config.EnsureAll(); err != nil {
		return nil, err
	}
	return config.Load()
}

func openApp(opts *options, out io.Writer) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	setupLogging(cfg.LogLevel, opts.debug)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	gormLevel := logger.Silent
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gormLevel = logger.Info
	}
	store, err := gormdb.NewStore(gormdb.Config{
		Driver:   cfg.Database.Driver,
		Path:     cfg.DBPath,
		DSN:      cfg.Database.DSN,
		MaxConns: cfg.Database.MaxConns,
		LogLevel: gormLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug().Str("driver", store.Driver()).Str("path", cfg.DBPath).Msg("Database opened")

	tasks := gormdb.NewTaskStore(store)
	entries := gormdb.NewEntryStore(store)

	engine := session.NewEngine(tasks, entries, session.WithRearmOnIncrement(cfg.RearmOnIncrement))
	statsEngine := stats.NewEngine(entries, tasks, stats.WithLocation(loc))

	return &app{
		cfg:   cfg,
		store: store,
		stats: statsEngine,
		money: render.NewMoney(cfg.Locale, cfg.Currency),
		tracker: tracker.New(tracker.Config{
			Session: engine,
			Stats:   statsEngine,
			Tasks:   tasks,
			Renderer: render.New(opts.json, render.Options{
				Currency: cfg.Currency,
				Locale:   cfg.Locale,
				Location: loc,
			}),
			Out: out,
		}),
	}, nil
}

// watchDatabase logs a warning if the SQLite file is deleted while running.
func (a *app) watchDatabase(ctx context.Context) {
	if a.store.Driver() != gormdb.DriverSQLite {
		return
	}
	w, err := watcher.New(a.cfg.DBPath, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create database watcher")
		return
	}
	if err := w.Start(ctx); err != nil {
		log.Warn().Err(err).Str("path", a.cfg.DBPath).Msg("Failed to watch database file")
		_ = w.Stop()
		return
	}
	a.watcher = w
}

// Close stops the watcher and closes the database.
func (a *app) Close() {
	if a.watcher != nil {
		if err := a.watcher.Stop(); err != nil {
			log.Debug().Err(err).Msg("Failed to stop watcher")
		}
	}
	if err := a.store.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close database")
	}
}

// runLine executes one dispatcher command for the one-shot subcommands.
func runLine(ctx context.Context, opts *options, out io.Writer, line string) error {
	a, err := openApp(opts, out)
	if err != nil {
		return err
	}
	defer a.Close()

	_, err = a.tracker.Handle(ctx, line)
	return err
}
