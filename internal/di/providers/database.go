package providers

import (
	"github.com/samber/do/v2"

	"github.com/poezjaapp/poezja-server/internal/config"
	"github.com/poezjaapp/poezja-server/internal/logger"
	"github.com/poezjaapp/poezja-server/internal/store/sqlite"
	"github.com/poezjaapp/poezja-server/internal/timeutil"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := cfg.DatabasePath()
	db, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// ProvideTimeConverter provides the local time converter.
func ProvideTimeConverter(i do.Injector) (*timeutil.Converter, error) {
	return timeutil.NewConverter(), nil
}
