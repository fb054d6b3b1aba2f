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

// BookUserListItemService manages per-user book records: reading status,
// ownership flag, and notes. It is the book implementation of
// UserListItemManager, so it also carries the seeding and purge hooks the
// cascades dispatch to.
type BookUserListItemService struct {
	store     *store.Store
	userLists *UserListService
	logger    *slog.Logger
}

// NewBookUserListItemService creates a new book user item service.
func NewBookUserListItemService(store *store.Store, userLists *UserListService, logger *slog.Logger) *BookUserListItemService {
	return &BookUserListItemService{
		store:     store,
		userLists: userLists,
		logger:    logger,
	}
}

// FindAll returns every record of the caller across all subscriptions.
func (s *BookUserListItemService) FindAll(ctx context.Context, userID string) ([]*domain.BookUserListItem, error) {
	items, err := s.store.UserItemsByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "find user items")
	}
	return items, nil
}

// FindAllByUserList returns the records under one subscription the caller
// owns.
func (s *BookUserListItemService) FindAllByUserList(ctx context.Context, userID, userListID string) ([]*domain.BookUserListItem, error) {
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

	items, err := s.store.UserItemsByUserList(ctx, userListID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "find user items")
	}
	return items, nil
}

// PopulatedUserItem joins a record with the list item it tracks and the
// subscription it lives under.
type PopulatedUserItem struct {
	Record   *domain.BookUserListItem `json:"record"`
	Item     *domain.BookListItem     `json:"item"`
	UserList *domain.UserList         `json:"user_list"`
}

// FindAllByUserListPopulated is FindAllByUserList with the referenced list
// item and owning subscription attached to each record. All reads share one
// snapshot, so a record never points at an item the result set lacks.
func (s *BookUserListItemService) FindAllByUserListPopulated(ctx context.Context, userID, userListID string) ([]*PopulatedUserItem, error) {
	var results []*PopulatedUserItem
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

		records, err := tx.UserItemsByUserList(userListID)
		if err != nil {
			return err
		}

		results = make([]*PopulatedUserItem, 0, len(records))
		for _, record := range records {
			item, err := tx.GetListItem(record.BookListItemID)
			if err != nil {
				return err
			}
			results = append(results, &PopulatedUserItem{
				Record:   record,
				Item:     item,
				UserList: ul,
			})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "find populated user items")
	}
	return results, nil
}

// FindByID retrieves one record. The denormalized UserID on the record is
// the access check; no parent loads needed.
func (s *BookUserListItemService) FindByID(ctx context.Context, userID, itemID string) (*domain.BookUserListItem, error) {
	item, err := s.store.GetUserListItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrUserListItemNotFound) {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "get user item")
	}
	if !access.Owns(item.UserID, userID) {
		return nil, errors.ErrNotFound
	}
	return item, nil
}

// CreateUserItemInput carries the caller-settable fields for a new record.
type CreateUserItemInput struct {
	UserListID     string
	BookListItemID string
	Notes          string
	Status         domain.ReadingStatus
	Owned          bool
}

// Create adds a record to a subscription the caller owns. The referenced
// list item must exist and belong to the subscribed list; the record and
// the subscription's reference set are written in one transaction.
func (s *BookUserListItemService) Create(ctx context.Context, userID string, input CreateUserItemInput) (*domain.BookUserListItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.ReadingStatusNotStarted
	}
	if !status.IsValid() {
		return nil, errors.Validationf("invalid reading status %q", status)
	}

	itemID, err := id.Generate(id.PrefixUserListItem)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "generate user item ID")
	}

	var created *domain.BookUserListItem
	err = s.store.Tx(ctx, func(tx *store.Tx) error {
		ul, err := tx.GetUserList(input.UserListID)
		if err != nil {
			if errors.Is(err, store.ErrUserListNotFound) {
				return errors.ErrNotFound
			}
			return err
		}
		if !access.Owns(ul.UserID, userID) {
			return errors.ErrNotFound
		}

		listItem, err := tx.GetListItem(input.BookListItemID)
		if err != nil {
			if errors.Is(err, store.ErrListItemNotFound) {
				return errors.InvalidReference("referenced list item does not exist")
			}
			return err
		}
		if listItem.ListID != ul.ListID {
			return errors.InvalidReference("list item does not belong to the subscribed list")
		}

		item := domain.NewDefaultBookUserListItem(itemID, userID, ul.ID, listItem.ID)
		item.Notes = input.Notes
		item.Status = status
		item.Owned = input.Owned

		if err := tx.CreateUserListItem(item); err != nil {
			return err
		}
		if err := tx.PushUserItemRef(ul.ID, userID, item.ID); err != nil {
			return err
		}

		created = item
		return nil
	})
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) || errors.Is(err, errors.ErrInvalidReference) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "create user item")
	}

	s.logger.Info("user item created",
		"user_item_id", created.ID,
		"user_list_id", input.UserListID,
		"user_id", userID,
	)

	return created, nil
}

// UserItemPatch carries the updatable fields of a record.
type UserItemPatch struct {
	Notes  *string
	Status *domain.ReadingStatus
	Owned  *bool
}

// Patch updates a record the caller owns.
func (s *BookUserListItemService) Patch(ctx context.Context, userID, itemID string, patch UserItemPatch) (*domain.BookUserListItem, error) {
	if patch.Status != nil && !patch.Status.IsValid() {
		return nil, errors.Validationf("invalid reading status %q", *patch.Status)
	}

	var updated *domain.BookUserListItem
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		item, err := tx.GetUserListItem(itemID)
		if err != nil {
			if errors.Is(err, store.ErrUserListItemNotFound) {
				return errors.ErrNotFound
			}
			return err
		}
		if !access.Owns(item.UserID, userID) {
			return errors.ErrNotFound
		}

		if patch.Notes != nil {
			item.Notes = *patch.Notes
		}
		if patch.Status != nil {
			item.Status = *patch.Status
		}
		if patch.Owned != nil {
			item.Owned = *patch.Owned
		}
		item.UpdatedAt = time.Now()

		updated = item
		return tx.UpdateUserListItem(item)
	})
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "patch user item")
	}

	return updated, nil
}

// Delete removes a record the caller owns, pulling it from the owning
// subscription's reference set in the same transaction.
func (s *BookUserListItemService) Delete(ctx context.Context, userID, itemID string) error {
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		item, err := tx.GetUserListItem(itemID)
		if err != nil {
			if errors.Is(err, store.ErrUserListItemNotFound) {
				return errors.ErrNotFound
			}
			return err
		}
		if !access.Owns(item.UserID, userID) {
			return errors.ErrNotFound
		}

		if err := tx.PullUserItemRef(item.UserListID, userID, item.ID); err != nil {
			return err
		}
		return tx.DeleteUserListItem(item.ID)
	})
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return err
		}
		return errors.Wrap(err, errors.CodeInternal, "delete user item")
	}

	s.logger.Info("user item deleted", "user_item_id", itemID, "user_id", userID)
	return nil
}

// CreateDefaults seeds one default record per item of list onto userList.
// Runs in the caller's transaction; the subscription's reference set is
// updated in place so the caller sees the seeded IDs.
func (s *BookUserListItemService) CreateDefaults(tx *store.Tx, userList *domain.UserList, list *domain.List) ([]string, error) {
	items, err := tx.ListItemsByList(list.ID)
	if err != nil {
		return nil, err
	}

	createdIDs := make([]string, 0, len(items))
	for _, listItem := range items {
		recordID, err := id.Generate(id.PrefixUserListItem)
		if err != nil {
			return nil, err
		}

		record := domain.NewDefaultBookUserListItem(recordID, userList.UserID, userList.ID, listItem.ID)
		if err := tx.CreateUserListItem(record); err != nil {
			return nil, err
		}

		userList.AddItem(recordID)
		createdIDs = append(createdIDs, recordID)
	}

	if len(createdIDs) > 0 {
		userList.UpdatedAt = time.Now()
		if err := tx.UpdateUserList(userList); err != nil {
			return nil, err
		}
	}

	return createdIDs, nil
}

// DeleteAllByUserList purges every record under one subscription. Runs in
// the caller's transaction; the subscription itself is the caller's to
// delete.
func (s *BookUserListItemService) DeleteAllByUserList(tx *store.Tx, userList *domain.UserList) error {
	records, err := tx.UserItemsByUserList(userList.ID)
	if err != nil {
		return err
	}

	for _, record := range records {
		if err := tx.DeleteUserListItem(record.ID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteAllByListItems purges every user's records for the given list
// items and detaches them from the owning subscriptions. Runs in the
// caller's transaction. Reaching across all users is what keeps an item
// delete from leaving orphaned records behind.
func (s *BookUserListItemService) DeleteAllByListItems(tx *store.Tx, listItemIDs []string) error {
	if len(listItemIDs) == 0 {
		return nil
	}

	// Find which users hold records for the doomed items, then batch the
	// purge per owner so reference pulls stay scoped to the right user.
	affected := make(map[string]struct{})
	for _, listItemID := range listItemIDs {
		records, err := tx.UserItemsByListItem(listItemID)
		if err != nil {
			return err
		}
		for _, record := range records {
			affected[record.UserID] = struct{}{}
		}
	}

	for userID := range affected {
		records, err := tx.UserItemsByUserAndListItems(userID, listItemIDs)
		if err != nil {
			return err
		}

		recordIDs := make([]string, 0, len(records))
		for _, record := range records {
			recordIDs = append(recordIDs, record.ID)
		}
		if err := s.userLists.UpdateItemsInAllUserLists(tx, userID, recordIDs); err != nil {
			return err
		}

		for _, record := range records {
			if err := tx.DeleteUserListItem(record.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// DeleteAllBySingleListItem is DeleteAllByListItems for one item.
func (s *BookUserListItemService) DeleteAllBySingleListItem(tx *store.Tx, listItemID string) error {
	return s.DeleteAllByListItems(tx, []string{listItemID})
}
