// Package infrastructure provides core service initialization for worker startup.
// It assembles common dependencies (logging, database, outbox storage) that
// domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fieldgate/loa-worker/internal/config"
	"github.com/fieldgate/loa-worker/pkg/database"
	"github.com/fieldgate/loa-worker/pkg/lifecycle"
	"github.com/fieldgate/loa-worker/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Outbox is nil when outbox storage is disabled in configuration.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Outbox    storage.System
}

// New creates an Infrastructure from the worker configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	infra := &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
	}

	if cfg.Outbox.Enabled {
		outbox, err := storage.New(&cfg.Outbox, logger)
		if err != nil {
			return nil, fmt.Errorf("outbox init failed: %w", err)
		}
		infra.Outbox = outbox
	}

	return infra, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if i.Outbox != nil {
		if err := i.Outbox.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("outbox start failed: %w", err)
		}
	}
	return nil
}
