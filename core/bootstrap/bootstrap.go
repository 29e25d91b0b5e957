// Package bootstrap initializes the infrastructure the bot needs
// before serving updates: logger, catalog source (file or Postgres
// with migrations), quota providers, guards, the purchase engine and
// the optional assistant.
package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/lastsymphony/kuotabot/core/config"
	coredatabase "github.com/lastsymphony/kuotabot/core/database"
	"github.com/lastsymphony/kuotabot/core/logger"
	coretelegram "github.com/lastsymphony/kuotabot/core/telegram"
	"github.com/lastsymphony/kuotabot/internal/app"
	"github.com/lastsymphony/kuotabot/internal/assistant"
	"github.com/lastsymphony/kuotabot/internal/catalog"
	"github.com/lastsymphony/kuotabot/internal/guard"
	"github.com/lastsymphony/kuotabot/internal/order"
	"github.com/lastsymphony/kuotabot/internal/quota"
)

// Result holds what bootstrap built. Close releases the owned
// resources in reverse order.
type Result struct {
	App      *app.App
	Registry *coretelegram.Registry

	db     *sqlx.DB
	assist *assistant.Assistant
}

// Close shuts down the assistant client and the database connection.
func (r *Result) Close() {
	if r.assist != nil {
		if err := r.assist.Close(); err != nil {
			logger.Assistant.Warn("close failed", slog.String("err", err.Error()))
		}
	}
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			logger.DB.Warn("close failed", slog.String("err", err.Error()))
		}
	}
}

// Run initializes the logger and assembles the application. An empty
// catalog is tolerated: the quota commands still work without one.
func Run(ctx context.Context, cfg *coreconfig.Config) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	if err := logger.InitLogger(cfg); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	res := &Result{}

	source, err := buildCatalogSource(cfg, res)
	if err != nil {
		return nil, err
	}

	manager := catalog.NewManager(source)
	if err := manager.Load(ctx); err != nil {
		logger.Catalog.Warn("initial load failed, starting with empty catalog",
			slog.String("err", err.Error()),
		)
	}

	upstream := coretelegram.BuildUpstreamClient()
	providers := []quota.Provider{
		quota.NewBendith(upstream, cfg.Quota.BendithURL,
			time.Duration(cfg.Quota.BendithTimeoutSeconds)*time.Second),
		quota.NewKMSP(upstream, quota.KMSPOptions{
			BaseURL:    cfg.Quota.KMSPURL,
			Auth:       cfg.Quota.KMSPAuth,
			APIKey:     cfg.Quota.KMSPAPIKey,
			AppVersion: cfg.Quota.KMSPAppVersion,
			Timeout:    time.Duration(cfg.Quota.KMSPTimeoutSeconds) * time.Second,
		}),
	}

	if key := strings.TrimSpace(cfg.Assistant.APIKey); key != "" {
		assist, err := assistant.New(ctx, key, cfg.Assistant.Model)
		if err != nil {
			res.Close()
			return nil, fmt.Errorf("bootstrap: assistant init failed: %w", err)
		}
		res.assist = assist
		logger.Assistant.Info("assistant enabled", slog.String("model", cfg.Assistant.Model))
	}

	sessions := order.NewMemoryStore()
	res.App = app.New(app.Options{
		Config:    cfg,
		Catalog:   manager,
		Engine:    order.NewEngine(sessions),
		Sessions:  sessions,
		Quota:     quota.NewClient(providers...),
		Guard: guard.New(
			time.Duration(cfg.Quota.RateWindowSeconds)*time.Second,
			time.Duration(cfg.Quota.DedupWindowSeconds)*time.Second,
		),
		Assistant: res.assist,
	})

	res.Registry = coretelegram.NewRegistry()
	res.App.Register(res.Registry)

	return res, nil
}

// buildCatalogSource picks the catalog backend. The Postgres path runs
// migrations first so the product tables exist before the initial load.
func buildCatalogSource(cfg *coreconfig.Config, res *Result) (catalog.Source, error) {
	if cfg.Catalog.Source != coreconfig.CatalogSourcePostgres {
		return catalog.NewFileSource(cfg.Catalog.Path), nil
	}

	dbcfg := coredatabase.FromApp(cfg.Database)
	if err := coredatabase.RunMigrations(dbcfg); err != nil {
		return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
	}
	db, err := coredatabase.Connect(dbcfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
	}
	res.db = db
	return catalog.NewSQLSource(db), nil
}
