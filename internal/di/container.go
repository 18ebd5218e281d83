// Package di provides dependency injection configuration for the Poezja server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/poezjaapp/poezja-server/internal/auth"
	"github.com/poezjaapp/poezja-server/internal/config"
	"github.com/poezjaapp/poezja-server/internal/di/providers"
	"github.com/poezjaapp/poezja-server/internal/logger"
	"github.com/poezjaapp/poezja-server/internal/service"
	"github.com/poezjaapp/poezja-server/internal/timeutil"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideTimeConverter)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvidePoemService)
	do.Provide(injector, providers.ProvideSlamService)
	do.Provide(injector, providers.ProvideTetrastychService)
	do.Provide(injector, providers.ProvideStatsService)

	// Workers
	do.Provide(injector, providers.ProvideImporter)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*timeutil.Converter](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.PoemService](injector)
	_ = do.MustInvoke[*service.SlamService](injector)
	_ = do.MustInvoke[*service.TetrastychService](injector)
	_ = do.MustInvoke[*service.StatsService](injector)

	// Workers
	_ = do.MustInvoke[*providers.ImporterHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
