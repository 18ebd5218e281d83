package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/poezjaapp/poezja-server/internal/config"
	"github.com/poezjaapp/poezja-server/internal/importer"
	"github.com/poezjaapp/poezja-server/internal/logger"
	"github.com/poezjaapp/poezja-server/internal/service"
)

// ImporterHandle wraps the poem import watcher with shutdown capability.
// When importing is disabled the handle is empty.
type ImporterHandle struct {
	*importer.Importer
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *ImporterHandle) Shutdown() error {
	if h.cancel != nil {
		h.cancel()
	}
	return nil
}

// ProvideImporter provides the filesystem poem importer.
func ProvideImporter(i do.Injector) (*ImporterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Import.Enabled {
		log.Info("Poem import watcher disabled")
		return &ImporterHandle{}, nil
	}

	poemService := do.MustInvoke[*service.PoemService](i)

	imp, err := importer.New(cfg.Import.WatchDir, poemService, log.Logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		if err := imp.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("Poem import watcher error", "error", err)
		}
	}()

	log.Info("Poem import watcher started", "dir", cfg.Import.WatchDir)

	return &ImporterHandle{
		Importer: imp,
		cancel:   cancel,
	}, nil
}
