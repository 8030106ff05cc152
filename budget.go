// Package budget is the data layer of a personal budget tracker: it stores
// transactions, categories and the profile in a local SQLite file and
// computes the balance totals shown on the dashboard.
//
// A presentation layer opens an App and talks to App.Budget:
//
//	app, err := budget.Open(ctx, config.Load(), nil)
//	if err != nil {
//		return err
//	}
//	defer app.Close()
//
//	dash := app.Budget.Dashboard(ctx)
package budget

import (
	"context"
	"errors"
	"fmt"

	"budget/internal/avatars"
	"budget/internal/cache"
	"budget/internal/config"
	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/services"
	"budget/internal/settings"
	"budget/internal/storage"
)

type (
	Kind             = core.Kind
	Category         = core.Category
	Transaction      = core.Transaction
	TransactionInput = core.TransactionInput
	User             = core.User
	Summary          = core.Summary
	Filter           = core.Filter
	Dashboard        = services.Dashboard
	Avatar           = avatars.Avatar
	Settings         = settings.Settings
)

const (
	Income  = core.Income
	Expense = core.Expense
	Both    = core.Both
)

var _ services.Store = (*storage.SQLiteRepository)(nil)

// App bundles everything the presentation layer needs.
type App struct {
	Budget   *services.BudgetService
	Settings *settings.Store

	janitor *cache.Janitor
	logger  *log.Logger
}

// Open validates cfg, opens and migrates the store and loads settings.
// A nil logger logs at cfg.LogLevel to stdout.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		lc := log.DefaultConfig()
		lc.Level = log.ParseLevel(cfg.LogLevel)
			logger = log.New(lc)
	}

	repo, err := storage.NewSQLiteRepository(ctx, cfg.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	categories := cache.NewLRUCache[[]core.Category](cfg.CategoryCacheSize, cfg.CategoryCacheTTL)
	janitor := cache.NewJanitor(logger)
	janitor.Register(categories)
	janitor.Start(cfg.CategoryCacheTTL)

	app := &App{
		Budget:   services.NewBudgetService(repo, categories, logger),
		Settings: settings.Open(cfg.SettingsPath, logger),
		janitor:  janitor,
		logger:   logger.WithComponent(log.ComponentApp),
	}
	app.logger.InfoContext(ctx, "Budget data layer ready",
		log.FieldOperation, log.OpStartup,
		log.FieldDBPath, cfg.DBPath,
		log.FieldVersion, repo.Migrations().To)
	return app, nil
}

// Avatars returns the bundled profile pictures.
func (a *App) Avatars() []Avatar {
	return avatars.Manifest()
}

// Close stops background work and closes the store.
func (a *App) Close() error {
	a.janitor.Stop()
	if err := a.Budget.Close(); err != nil {
		a.logger.Error("Failed to close store", log.FieldError, err)
		return err
	}
	a.logger.Info("Budget data layer closed", log.FieldOperation, log.OpShutdown)
	return nil
}
