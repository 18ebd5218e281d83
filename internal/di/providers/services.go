package providers

import (
	"github.com/samber/do/v2"

	"github.com/poezjaapp/poezja-server/internal/auth"
	"github.com/poezjaapp/poezja-server/internal/config"
	"github.com/poezjaapp/poezja-server/internal/logger"
	"github.com/poezjaapp/poezja-server/internal/service"
	"github.com/poezjaapp/poezja-server/internal/timeutil"
)

// ProvideAuthService provides the admin authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Auth.AdminPasswordHash == "" {
		log.Warn("No admin password hash configured, admin login disabled")
	}

	return service.NewAuthService(tokenService, cfg.Auth.AdminPasswordHash, log.Logger), nil
}

// ProvidePoemService provides the poem service.
func ProvidePoemService(i do.Injector) (*service.PoemService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	times := do.MustInvoke[*timeutil.Converter](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPoemService(storeHandle.Store, log.Logger, times), nil
}

// ProvideSlamService provides the slam service.
func ProvideSlamService(i do.Injector) (*service.SlamService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSlamService(storeHandle.Store, log.Logger), nil
}

// ProvideTetrastychService provides the tetrastych service.
func ProvideTetrastychService(i do.Injector) (*service.TetrastychService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	times := do.MustInvoke[*timeutil.Converter](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTetrastychService(storeHandle.Store, log.Logger, times), nil
}

// ProvideStatsService provides the view tracking and statistics service.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	times := do.MustInvoke[*timeutil.Converter](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStatsService(storeHandle.Store, log.Logger, times, cfg.Views.HashSalt), nil
}
