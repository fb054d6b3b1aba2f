// Package service provides the business logic layer for lists, list items,
// subscriptions, and per-user item records. Type-specific behavior is
// dispatched through a TypeRegistry so adding a new list type means
// registering a new service pair, not subclassing anything.
package service

import (
	"sync"

	"github.com/shelflistapp/shelflist-server/internal/domain"
	"github.com/shelflistapp/shelflist-server/internal/errors"
	"github.com/shelflistapp/shelflist-server/internal/store"
)

// ListItemManager is the per-type item cascade hook. DeleteAllByList runs
// inside the caller's transaction and must remove every item of the list
// together with all per-user records that reference them.
type ListItemManager interface {
	DeleteAllByList(tx *store.Tx, list *domain.List) error
}

// UserListItemManager is the per-type hook for subscription item records.
// Both methods run inside the caller's transaction. CreateDefaults seeds
// one default record per list item and returns the created IDs;
// DeleteAllByUserList purges a subscription's records before the
// subscription itself is deleted.
type UserListItemManager interface {
	CreateDefaults(tx *store.Tx, userList *domain.UserList, list *domain.List) ([]string, error)
	DeleteAllByUserList(tx *store.Tx, userList *domain.UserList) error
}

// ServicePair bundles the two per-type managers for one list type.
type ServicePair struct {
	Items     ListItemManager
	UserItems UserListItemManager
}

// TypeRegistry maps list type tags to their service pairs. Pairs are
// registered at wiring time, after all services exist, which keeps the
// construction order free of cycles.
type TypeRegistry struct {
	mu    sync.RWMutex
	pairs map[domain.ListType]ServicePair
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		pairs: make(map[domain.ListType]ServicePair),
	}
}

// Register binds a service pair to a list type. Re-registering a type
// replaces the previous pair.
func (r *TypeRegistry) Register(t domain.ListType, pair ServicePair) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pairs[t] = pair
}

// Resolve returns the service pair for a list type. An unknown tag yields
// NotImplemented; callers must resolve before writing anything so the
// failure aborts an operation cleanly.
func (r *TypeRegistry) Resolve(t domain.ListType) (ServicePair, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pair, ok := r.pairs[t]
	if !ok {
		return ServicePair{}, errors.NotImplementedf("list type %q is not supported", t)
	}
	return pair, nil
}
