package service

import (
	"github.com/shelflistapp/shelflist-server/internal/domain"
	"github.com/shelflistapp/shelflist-server/internal/store"
)

// AllItemsService fans a cascade out to the right per-type item manager.
// It sits between ListService and the type-specific services so neither
// has to know about the other.
type AllItemsService struct {
	registry *TypeRegistry
}

// NewAllItemsService creates the item cascade mediator.
func NewAllItemsService(registry *TypeRegistry) *AllItemsService {
	return &AllItemsService{registry: registry}
}

// DeleteAllByList removes every item of the list, plus every user's
// records for those items, inside the caller's transaction.
func (s *AllItemsService) DeleteAllByList(tx *store.Tx, list *domain.List) error {
	pair, err := s.registry.Resolve(list.Type)
	if err != nil {
		return err
	}
	return pair.Items.DeleteAllByList(tx, list)
}
