package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shelflistapp/shelflist-server/internal/access"
	"github.com/shelflistapp/shelflist-server/internal/domain"
	"github.com/shelflistapp/shelflist-server/internal/errors"
	"github.com/shelflistapp/shelflist-server/internal/id"
	"github.com/shelflistapp/shelflist-server/internal/store"
)

// UserListService manages subscriptions of users to lists. Creating one
// seeds a default item record per list item; deleting one purges the
// subscriber's records. Both run as single transactions.
type UserListService struct {
	store        *store.Store
	allUserItems *AllUserItemsService
	logger       *slog.Logger
}

// NewUserListService creates a new user list service.
func NewUserListService(store *store.Store, allUserItems *AllUserItemsService, logger *slog.Logger) *UserListService {
	return &UserListService{
		store:        store,
		allUserItems: allUserItems,
		logger:       logger,
	}
}

// FindAll returns the caller's subscriptions.
func (s *UserListService) FindAll(ctx context.Context, userID string) ([]*domain.UserList, error) {
	uls, err := s.store.UserListsByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "find user lists")
	}
	return uls, nil
}

// Get retrieves one subscription owned by the caller.
func (s *UserListService) Get(ctx context.Context, userID, userListID string) (*domain.UserList, error) {
	ul, err := s.store.GetUserList(ctx, userListID)
	if err != nil {
		if errors.Is(err, store.ErrUserListNotFound) {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "get user list")
	}
	if !access.Owns(ul.UserID, userID) {
		return nil, errors.ErrNotFound
	}
	return ul, nil
}

// PopulatedUserList is a subscription joined with its parent list, the
// list's items, and the caller's own item records. Other users' records
// are never included.
type PopulatedUserList struct {
	UserList *domain.UserList          `json:"user_list"`
	List     *domain.List              `json:"list"`
	Items    []*domain.BookListItem    `json:"items"`
	Records  []*domain.BookUserListItem `json:"records"`
}

// GetPopulated loads one subscription with everything a client needs to
// render it. All reads share one snapshot.
func (s *UserListService) GetPopulated(ctx context.Context, userID, userListID string) (*PopulatedUserList, error) {
	var populated *PopulatedUserList

	err := s.store.View(ctx, func(tx *store.Tx) error {
		ul, err := tx.GetUserList(userListID)
		if err != nil {
			if errors.Is(err, store.ErrUserListNotFound) {
				return errors.ErrNotFound
			}
			return err
		}
		if !access.Owns(ul.UserID, userID) {
			return errors.ErrNotFound
		}

		list, err := tx.GetList(ul.ListID)
		if err != nil {
			return err
		}

		items, err := tx.ListItemsByList(list.ID)
		if err != nil {
			return err
		}

		records, err := tx.UserItemsByUserList(ul.ID)
		if err != nil {
			return err
		}

		populated = &PopulatedUserList{
			UserList: ul,
			List:     list,
			Items:    items,
			Records:  records,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "get populated user list")
	}

	return populated, nil
}

// Create subscribes userID to a list they can read. In one transaction the
// subscription is saved and one default record per existing list item is
// seeded onto it. A list with no items yields an empty reference set, not
// an error.
func (s *UserListService) Create(ctx context.Context, userID, listID string) (*domain.UserList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	userListID, err := id.Generate(id.PrefixUserList)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "generate user list ID")
	}

	var created *domain.UserList
	err = s.store.Tx(ctx, func(tx *store.Tx) error {
		list, err := tx.GetList(listID)
		if err != nil {
			if errors.Is(err, store.ErrListNotFound) {
				return errors.ErrNotFound
			}
			return err
		}
		if !access.CanReadList(list, userID) {
			return errors.ErrNotFound
		}

		ul := domain.NewUserList(userListID, userID, listID)
		if err := tx.CreateUserList(ul); err != nil {
			return err
		}

		if _, err := s.allUserItems.CreateDefaults(tx, ul, list); err != nil {
			return err
		}

		created = ul
		return nil
	})
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) || errors.Is(err, errors.ErrNotImplemented) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "create user list")
	}

	s.logger.Info("user list created",
		"user_list_id", created.ID,
		"list_id", listID,
		"user_id", userID,
		"seeded_items", len(created.BookUserListItemIDs),
	)

	return created, nil
}

// UserListPatch carries the updatable fields of a subscription.
type UserListPatch struct {
	Notes *string
}

// Patch updates a subscription owned by the caller.
func (s *UserListService) Patch(ctx context.Context, userID, userListID string, patch UserListPatch) (*domain.UserList, error) {
	var updated *domain.UserList
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		ul, err := tx.GetUserList(userListID)
		if err != nil {
			if errors.Is(err, store.ErrUserListNotFound) {
				return errors.ErrNotFound
			}
			return err
		}
		if !access.Owns(ul.UserID, userID) {
			return errors.ErrNotFound
		}

		if patch.Notes != nil {
			ul.Notes = *patch.Notes
		}
		ul.UpdatedAt = time.Now()

		updated = ul
		return tx.UpdateUserList(ul)
	})
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "patch user list")
	}

	return updated, nil
}

// Delete removes a subscription owned by the caller together with all of
// its item records, in one transaction.
func (s *UserListService) Delete(ctx context.Context, userID, userListID string) error {
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		ul, err := tx.GetUserList(userListID)
		if err != nil {
			if errors.Is(err, store.ErrUserListNotFound) {
				return errors.ErrNotFound
			}
			return err
		}
		if !access.Owns(ul.UserID, userID) {
			return errors.ErrNotFound
		}

		list, err := tx.GetList(ul.ListID)
		if err != nil {
			return err
		}

		if err := s.allUserItems.DeleteAllByUserList(tx, list, ul); err != nil {
			return err
		}

		return tx.DeleteUserList(ul.ID)
	})
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) || errors.Is(err, errors.ErrNotImplemented) {
			return err
		}
		return errors.Wrap(err, errors.CodeInternal, "delete user list")
	}

	s.logger.Info("user list deleted", "user_list_id", userListID, "user_id", userID)
	return nil
}

// DeleteAllByList removes every user's subscription to a list, with their
// item records, inside the caller's transaction. Part of the list delete
// cascade; never called on its own behalf of a user.
func (s *UserListService) DeleteAllByList(tx *store.Tx, list *domain.List) error {
	uls, err := tx.UserListsByList(list.ID)
	if err != nil {
		return err
	}

	for _, ul := range uls {
		if err := s.allUserItems.DeleteAllByUserList(tx, list, ul); err != nil {
			return err
		}
		if err := tx.DeleteUserList(ul.ID); err != nil {
			return err
		}
	}
	return nil
}

// UpdateItemsInUserList pushes and pulls record IDs on one subscription,
// scoped to its owner. Cascade helper; runs in the caller's transaction.
func (s *UserListService) UpdateItemsInUserList(tx *store.Tx, userListID, userID string, addIDs, removeIDs []string) error {
	for _, itemID := range addIDs {
		if err := tx.PushUserItemRef(userListID, userID, itemID); err != nil {
			return err
		}
	}
	for _, itemID := range removeIDs {
		if err := tx.PullUserItemRef(userListID, userID, itemID); err != nil {
			return err
		}
	}
	return nil
}

// UpdateItemsInAllUserLists pulls record IDs from every subscription of
// one user. Cascade helper for purges that span a user's subscriptions.
func (s *UserListService) UpdateItemsInAllUserLists(tx *store.Tx, userID string, removeIDs []string) error {
	uls, err := tx.UserListsByUser(userID)
	if err != nil {
		return err
	}

	for _, ul := range uls {
		for _, itemID := range removeIDs {
			if err := tx.PullUserItemRef(ul.ID, userID, itemID); err != nil {
				return err
			}
		}
	}
	return nil
}
