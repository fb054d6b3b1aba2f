package service

import (
	"github.com/shelflistapp/shelflist-server/internal/domain"
	"github.com/shelflistapp/shelflist-server/internal/store"
)

// AllUserItemsService fans subscription-record cascades out to the right
// per-type manager, mirroring AllItemsService for the user side.
type AllUserItemsService struct {
	registry *TypeRegistry
}

// NewAllUserItemsService creates the user item cascade mediator.
func NewAllUserItemsService(registry *TypeRegistry) *AllUserItemsService {
	return &AllUserItemsService{registry: registry}
}

// CreateDefaults seeds one default record per item of list onto userList,
// inside the caller's transaction, and returns the created IDs.
func (s *AllUserItemsService) CreateDefaults(tx *store.Tx, userList *domain.UserList, list *domain.List) ([]string, error) {
	pair, err := s.registry.Resolve(list.Type)
	if err != nil {
		return nil, err
	}
	return pair.UserItems.CreateDefaults(tx, userList, list)
}

// DeleteAllByUserList purges a subscription's item records inside the
// caller's transaction. The list carries the type tag for dispatch.
func (s *AllUserItemsService) DeleteAllByUserList(tx *store.Tx, list *domain.List, userList *domain.UserList) error {
	pair, err := s.registry.Resolve(list.Type)
	if err != nil {
		return err
	}
	return pair.UserItems.DeleteAllByUserList(tx, userList)
}
