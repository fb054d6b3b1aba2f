package store

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelflistapp/shelflist-server/internal/domain"
)

const userListItemPrefix = "useritem:"

var (
	// ErrUserListItemNotFound is returned when a user list item is not found in the store.
	ErrUserListItemNotFound = errors.New("user list item not found")
	// ErrDuplicateUserListItem is returned when trying to create a user list item that already exists.
	ErrDuplicateUserListItem = errors.New("user list item already exists")
)

// CreateUserListItem stores a new per-user item record.
func (t *Tx) CreateUserListItem(item *domain.BookUserListItem) error {
	key := []byte(userListItemPrefix + item.ID)

	exists, err := t.exists(key)
	if err != nil {
		return fmt.Errorf("check user list item exists: %w", err)
	}
	if exists {
		return ErrDuplicateUserListItem
	}

	if err := t.set(key, item); err != nil {
		return fmt.Errorf("save user list item: %w", err)
	}
	return nil
}

// GetUserListItem retrieves a per-user item record by ID.
func (t *Tx) GetUserListItem(id string) (*domain.BookUserListItem, error) {
	key := []byte(userListItemPrefix + id)

	var item domain.BookUserListItem
	if err := t.get(key, &item); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrUserListItemNotFound
		}
		return nil, fmt.Errorf("get user list item: %w", err)
	}
	return &item, nil
}

// UpdateUserListItem overwrites an existing per-user item record.
func (t *Tx) UpdateUserListItem(item *domain.BookUserListItem) error {
	key := []byte(userListItemPrefix + item.ID)

	exists, err := t.exists(key)
	if err != nil {
		return fmt.Errorf("check user list item exists: %w", err)
	}
	if !exists {
		return ErrUserListItemNotFound
	}

	if err := t.set(key, item); err != nil {
		return fmt.Errorf("update user list item: %w", err)
	}
	return nil
}

// DeleteUserListItem removes the record only; reference set maintenance
// stays with the service cascade.
func (t *Tx) DeleteUserListItem(id string) error {
	if err := t.delete([]byte(userListItemPrefix + id)); err != nil {
		return fmt.Errorf("delete user list item: %w", err)
	}
	return nil
}

// UserItemsByUserList returns all records under one subscription.
func (t *Tx) UserItemsByUserList(userListID string) ([]*domain.BookUserListItem, error) {
	var items []*domain.BookUserListItem
	err := iterate(t, userListItemPrefix, func(item *domain.BookUserListItem) bool {
		if item.UserListID == userListID {
			items = append(items, item)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UserItemsByUser returns all records of one user.
func (t *Tx) UserItemsByUser(userID string) ([]*domain.BookUserListItem, error) {
	var items []*domain.BookUserListItem
	err := iterate(t, userListItemPrefix, func(item *domain.BookUserListItem) bool {
		if item.UserID == userID {
			items = append(items, item)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UserItemsByListItem returns every user's records for one list item.
// The item delete cascade uses this to reach all subscribers, not just
// the acting user.
func (t *Tx) UserItemsByListItem(listItemID string) ([]*domain.BookUserListItem, error) {
	var items []*domain.BookUserListItem
	err := iterate(t, userListItemPrefix, func(item *domain.BookUserListItem) bool {
		if item.BookListItemID == listItemID {
			items = append(items, item)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UserItemsByUserAndListItems returns one user's records for any of the
// given list items.
func (t *Tx) UserItemsByUserAndListItems(userID string, listItemIDs []string) ([]*domain.BookUserListItem, error) {
	var items []*domain.BookUserListItem
	err := iterate(t, userListItemPrefix, func(item *domain.BookUserListItem) bool {
		if item.UserID == userID && slices.Contains(listItemIDs, item.BookListItemID) {
			items = append(items, item)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Store-level read helpers.

// GetUserListItem retrieves a per-user item record by ID.
func (s *Store) GetUserListItem(ctx context.Context, id string) (*domain.BookUserListItem, error) {
	var item *domain.BookUserListItem
	err := s.View(ctx, func(tx *Tx) error {
		var err error
		item, err = tx.GetUserListItem(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UserItemsByUser returns all records of one user.
func (s *Store) UserItemsByUser(ctx context.Context, userID string) ([]*domain.BookUserListItem, error) {
	var items []*domain.BookUserListItem
	err := s.View(ctx, func(tx *Tx) error {
		var err error
		items, err = tx.UserItemsByUser(userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UserItemsByUserList returns all records under one subscription.
func (s *Store) UserItemsByUserList(ctx context.Context, userListID string) ([]*domain.BookUserListItem, error) {
	var items []*domain.BookUserListItem
	err := s.View(ctx, func(tx *Tx) error {
		var err error
		items, err = tx.UserItemsByUserList(userListID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
