package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/shelflistapp/shelflist-server/internal/api"
	"github.com/shelflistapp/shelflist-server/internal/auth"
	"github.com/shelflistapp/shelflist-server/internal/config"
	"github.com/shelflistapp/shelflist-server/internal/logger"
	"github.com/shelflistapp/shelflist-server/internal/ratelimit"
	"github.com/shelflistapp/shelflist-server/internal/service"
)

// RateLimiterHandle wraps the keyed rate limiter with shutdown capability.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideRateLimiter provides the per-client API rate limiter.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	return &RateLimiterHandle{
		KeyedRateLimiter: ratelimit.New(apiRequestsPerSecond, apiBurst),
	}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	limiterHandle := do.MustInvoke[*RateLimiterHandle](i)

	services := &api.Services{
		Lists:     do.MustInvoke[*service.ListService](i),
		Items:     do.MustInvoke[*service.BookListItemService](i),
		UserLists: do.MustInvoke[*service.UserListService](i),
		UserItems: do.MustInvoke[*service.BookUserListItemService](i),
	}

	handler := api.NewServer(services, tokens, limiterHandle.KeyedRateLimiter, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr, "name", cfg.Server.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
