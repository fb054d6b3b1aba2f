// Package di provides dependency injection configuration for the Shelflist server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/shelflistapp/shelflist-server/internal/auth"
	"github.com/shelflistapp/shelflist-server/internal/config"
	"github.com/shelflistapp/shelflist-server/internal/di/providers"
	"github.com/shelflistapp/shelflist-server/internal/logger"
	"github.com/shelflistapp/shelflist-server/internal/service"
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

	// Metadata layer
	do.Provide(injector, providers.ProvideOpenLibraryClient)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideTypeRegistry)
	do.Provide(injector, providers.ProvideAllItemsService)
	do.Provide(injector, providers.ProvideAllUserItemsService)
	do.Provide(injector, providers.ProvideUserListService)
	do.Provide(injector, providers.ProvideBookUserListItemService)
	do.Provide(injector, providers.ProvideBookListItemService)
	do.Provide(injector, providers.ProvideListService)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
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
	_ = do.MustInvoke[*providers.OpenLibraryClientHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.UserListService](injector)
	_ = do.MustInvoke[*service.BookUserListItemService](injector)
	_ = do.MustInvoke[*service.BookListItemService](injector)
	_ = do.MustInvoke[*service.ListService](injector)

	// Server
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
