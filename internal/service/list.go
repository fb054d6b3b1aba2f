package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shelflistapp/shelflist-server/internal/access"
	"github.com/shelflistapp/shelflist-server/internal/domain"
	"github.com/shelflistapp/shelflist-server/internal/errors"
	"github.com/shelflistapp/shelflist-server/internal/id"
	"github.com/shelflistapp/shelflist-server/internal/store"
)

// ListService manages the lifecycle of lists. Deleting a list is the
// widest cascade in the system: every item, every subscription, and every
// subscriber's records go down with it in one transaction.
type ListService struct {
	store     *store.Store
	registry  *TypeRegistry
	allItems  *AllItemsService
	userLists *UserListService
	logger    *slog.Logger
}

// NewListService creates a new list service.
func NewListService(store *store.Store, registry *TypeRegistry, allItems *AllItemsService, userLists *UserListService, logger *slog.Logger) *ListService {
	return &ListService{
		store:     store,
		registry:  registry,
		allItems:  allItems,
		userLists: userLists,
		logger:    logger,
	}
}

// CreateListInput carries the caller-settable fields for a new list.
type CreateListInput struct {
	Title       string
	Description string
	Category    string
	Type        domain.ListType
	IsPublic    bool
}

// Create creates a new list owned by userID. The type tag must have a
// registered service pair; otherwise nothing is written.
func (s *ListService) Create(ctx context.Context, userID string, input CreateListInput) (*domain.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := s.registry.Resolve(input.Type); err != nil {
		return nil, err
	}

	listID, err := id.Generate(id.PrefixList)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "generate list ID")
	}

	list := domain.NewList(listID, userID, input.Title, input.Type)
	list.Description = input.Description
	list.Category = input.Category
	list.IsPublic = input.IsPublic

	err = s.store.Tx(ctx, func(tx *store.Tx) error {
		return tx.CreateList(list)
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "create list")
	}

	s.logger.Info("list created",
		"list_id", listID,
		"owner_id", userID,
		"type", list.Type,
	)

	return list, nil
}

// Get retrieves a list the caller may read. Missing and forbidden are the
// same NotFound to the caller.
func (s *ListService) Get(ctx context.Context, userID, listID string) (*domain.List, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		if errors.Is(err, store.ErrListNotFound) {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "get list")
	}

	if !access.CanReadList(list, userID) {
		return nil, errors.ErrNotFound
	}
	return list, nil
}

// ListFilter selects lists by OR-combining whichever fields are set.
// Text fields match as case-insensitive substrings; Type matches exactly.
// OwnerOnly additionally narrows the result to lists the caller owns.
type ListFilter struct {
	Title       string
	Description string
	Category    string
	Type        string
	OwnerOnly   bool
}

func (f ListFilter) empty() bool {
	return f.Title == "" && f.Description == "" && f.Category == "" && f.Type == ""
}

func (f ListFilter) matches(list *domain.List) bool {
	if f.empty() {
		return true
	}
	if f.Title != "" && containsFold(list.Title, f.Title) {
		return true
	}
	if f.Description != "" && containsFold(list.Description, f.Description) {
		return true
	}
	if f.Category != "" && containsFold(list.Category, f.Category) {
		return true
	}
	if f.Type != "" && string(list.Type) == f.Type {
		return true
	}
	return false
}

// FindAll returns every list the caller may read.
func (s *ListService) FindAll(ctx context.Context, userID string) ([]*domain.List, error) {
	return s.FindByFilter(ctx, userID, ListFilter{})
}

// FindByFilter returns the caller-readable lists matching the filter.
func (s *ListService) FindByFilter(ctx context.Context, userID string, filter ListFilter) ([]*domain.List, error) {
	all, err := s.store.AllLists(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "find lists")
	}

	results := make([]*domain.List, 0, len(all))
	for _, list := range all {
		if filter.OwnerOnly {
			if !access.IsListOwner(list, userID) {
				continue
			}
		} else if !access.CanReadList(list, userID) {
			continue
		}
		if filter.matches(list) {
			results = append(results, list)
		}
	}
	return results, nil
}

// ListPatch carries the updatable fields of a list. Type and OwnerID are
// immutable; a patch naming either is rejected outright rather than
// silently ignored.
type ListPatch struct {
	Title       *string
	Description *string
	Category    *string
	IsPublic    *bool
	Type        *string
	OwnerID     *string
}

// Patch updates a list the caller owns.
func (s *ListService) Patch(ctx context.Context, userID, listID string, patch ListPatch) (*domain.List, error) {
	if patch.Type != nil {
		return nil, errors.Validation("list type cannot be changed")
	}
	if patch.OwnerID != nil {
		return nil, errors.Validation("list owner cannot be changed")
	}

	var updated *domain.List
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		list, err := tx.GetList(listID)
		if err != nil {
			if errors.Is(err, store.ErrListNotFound) {
				return errors.ErrNotFound
			}
			return err
		}
		if !access.IsListOwner(list, userID) {
			return errors.ErrNotFound
		}

		if patch.Title != nil {
			list.Title = *patch.Title
		}
		if patch.Description != nil {
			list.Description = *patch.Description
		}
		if patch.Category != nil {
			list.Category = *patch.Category
		}
		if patch.IsPublic != nil {
			list.IsPublic = *patch.IsPublic
		}
		list.UpdatedAt = time.Now()

		updated = list
		return tx.UpdateList(list)
	})
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "patch list")
	}

	s.logger.Info("list updated", "list_id", listID, "user_id", userID)
	return updated, nil
}

// Delete removes a list the caller owns, cascading through its items,
// every subscription to it, and every subscriber's item records. The whole
// cascade shares one transaction: if any step fails, nothing is deleted.
// Ownership is re-checked inside the transaction so a concurrent transfer
// cannot slip a stale decision through.
func (s *ListService) Delete(ctx context.Context, userID, listID string) error {
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		list, err := tx.GetList(listID)
		if err != nil {
			if errors.Is(err, store.ErrListNotFound) {
				return errors.ErrNotFound
			}
			return err
		}
		if !access.IsListOwner(list, userID) {
			return errors.ErrNotFound
		}

		// Resolve dispatch before the first write; an unsupported type
		// must abort with nothing touched.
		if _, err := s.registry.Resolve(list.Type); err != nil {
			return err
		}

		if err := s.allItems.DeleteAllByList(tx, list); err != nil {
			return err
		}

		if err := s.userLists.DeleteAllByList(tx, list); err != nil {
			return err
		}

		return tx.DeleteList(list.ID)
	})
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) || errors.Is(err, errors.ErrNotImplemented) {
			return err
		}
		return errors.Wrap(err, errors.CodeInternal, "delete list")
	}

	s.logger.Info("list deleted", "list_id", listID, "user_id", userID)
	return nil
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
