package catalog

import (
	"context"
	"sync"

	"log/slog"

	"github.com/lastsymphony/kuotabot/core/logger"
)

// Manager owns the live catalog snapshot and serializes reloads.
type Manager struct {
	source Source

	mu      sync.RWMutex
	current *Catalog
}

// NewManager wraps a source. Call Load before serving.
func NewManager(source Source) *Manager {
	return &Manager{
		source:  source,
		current: &Catalog{},
	}
}

// Load fetches the product list and swaps in a new snapshot with a
// bumped version. The previous snapshot stays valid for readers that
// already hold it.
func (m *Manager) Load(ctx context.Context) error {
	products, err := m.source.Load(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	version := m.current.Version + 1
	m.current = &Catalog{Products: products, Version: version}
	m.mu.Unlock()

	logger.LogEvent(ctx, logger.Catalog, slog.LevelInfo, "catalog.loaded",
		slog.Int("count", len(products)),
		slog.Int64("version", version),
	)
	return nil
}

// Snapshot returns the current catalog. The returned value must be
// treated as read-only.
func (m *Manager) Snapshot() *Catalog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}
