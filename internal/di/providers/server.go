package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/poezjaapp/poezja-server/internal/api"
	"github.com/poezjaapp/poezja-server/internal/config"
	"github.com/poezjaapp/poezja-server/internal/logger"
	"github.com/poezjaapp/poezja-server/internal/ratelimit"
	"github.com/poezjaapp/poezja-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	viewLimiter *ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	h.viewLimiter.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Auth:       do.MustInvoke[*service.AuthService](i),
		Poem:       do.MustInvoke[*service.PoemService](i),
		Slam:       do.MustInvoke[*service.SlamService](i),
		Tetrastych: do.MustInvoke[*service.TetrastychService](i),
		Stats:      do.MustInvoke[*service.StatsService](i),
	}

	viewLimiter := ratelimit.New(cfg.Views.RatePerSecond, cfg.Views.RateBurst)

	handler := api.NewServer(services, viewLimiter, cfg.Server.Name, appVersion, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, viewLimiter: viewLimiter}, nil
}
