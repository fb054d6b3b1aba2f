package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelflistapp/shelflist-server/internal/domain"
	"github.com/shelflistapp/shelflist-server/internal/logger"
	"github.com/shelflistapp/shelflist-server/internal/service"
)

// ProvideTypeRegistry provides the per-type dispatch registry.
// Service pairs are registered in ProvideListService once both sides exist.
func ProvideTypeRegistry(i do.Injector) (*service.TypeRegistry, error) {
	return service.NewTypeRegistry(), nil
}

// ProvideAllItemsService provides the type-dispatching item mediator.
func ProvideAllItemsService(i do.Injector) (*service.AllItemsService, error) {
	registry := do.MustInvoke[*service.TypeRegistry](i)
	return service.NewAllItemsService(registry), nil
}

// ProvideAllUserItemsService provides the type-dispatching record mediator.
func ProvideAllUserItemsService(i do.Injector) (*service.AllUserItemsService, error) {
	registry := do.MustInvoke[*service.TypeRegistry](i)
	return service.NewAllUserItemsService(registry), nil
}

// ProvideUserListService provides the subscription service.
func ProvideUserListService(i do.Injector) (*service.UserListService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	allUserItems := do.MustInvoke[*service.AllUserItemsService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserListService(storeHandle.Store, allUserItems, log.Logger), nil
}

// ProvideBookUserListItemService provides the per-user record service.
func ProvideBookUserListItemService(i do.Injector) (*service.BookUserListItemService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	userLists := do.MustInvoke[*service.UserListService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookUserListItemService(storeHandle.Store, userLists, log.Logger), nil
}

// ProvideBookListItemService provides the list item service.
func ProvideBookListItemService(i do.Injector) (*service.BookListItemService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	metadataHandle := do.MustInvoke[*OpenLibraryClientHandle](i)
	userItems := do.MustInvoke[*service.BookUserListItemService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookListItemService(storeHandle.Store, metadataHandle.Client, userItems, log.Logger), nil
}

// ProvideListService provides the list service and completes type registration.
// Registering here, after both book services exist, keeps the registry the
// only point where the cyclic list/item dependencies meet.
func ProvideListService(i do.Injector) (*service.ListService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	registry := do.MustInvoke[*service.TypeRegistry](i)
	allItems := do.MustInvoke[*service.AllItemsService](i)
	userLists := do.MustInvoke[*service.UserListService](i)
	items := do.MustInvoke[*service.BookListItemService](i)
	userItems := do.MustInvoke[*service.BookUserListItemService](i)
	log := do.MustInvoke[*logger.Logger](i)

	registry.Register(domain.ListTypeBook, service.ServicePair{
		Items:     items,
		UserItems: userItems,
	})

	return service.NewListService(storeHandle.Store, registry, allItems, userLists, log.Logger), nil
}
