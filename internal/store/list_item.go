package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelflistapp/shelflist-server/internal/domain"
)

const listItemPrefix = "item:"

var (
	// ErrListItemNotFound is returned when a list item is not found in the store.
	ErrListItemNotFound = errors.New("list item not found")
	// ErrDuplicateListItem is returned when trying to create a list item that already exists.
	ErrDuplicateListItem = errors.New("list item already exists")
)

// CreateListItem stores a new list item.
func (t *Tx) CreateListItem(item *domain.BookListItem) error {
	key := []byte(listItemPrefix + item.ID)

	exists, err := t.exists(key)
	if err != nil {
		return fmt.Errorf("check list item exists: %w", err)
	}
	if exists {
		return ErrDuplicateListItem
	}

	if err := t.set(key, item); err != nil {
		return fmt.Errorf("save list item: %w", err)
	}
	return nil
}

// GetListItem retrieves a list item by ID.
func (t *Tx) GetListItem(id string) (*domain.BookListItem, error) {
	key := []byte(listItemPrefix + id)

	var item domain.BookListItem
	if err := t.get(key, &item); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrListItemNotFound
		}
		return nil, fmt.Errorf("get list item: %w", err)
	}
	return &item, nil
}

// UpdateListItem overwrites an existing list item.
func (t *Tx) UpdateListItem(item *domain.BookListItem) error {
	key := []byte(listItemPrefix + item.ID)

	exists, err := t.exists(key)
	if err != nil {
		return fmt.Errorf("check list item exists: %w", err)
	}
	if !exists {
		return ErrListItemNotFound
	}

	if err := t.set(key, item); err != nil {
		return fmt.Errorf("update list item: %w", err)
	}
	return nil
}

// DeleteListItem removes the item record only. The reference set pull and
// the user item purge belong to the service cascade in the same transaction.
func (t *Tx) DeleteListItem(id string) error {
	if err := t.delete([]byte(listItemPrefix + id)); err != nil {
		return fmt.Errorf("delete list item: %w", err)
	}
	return nil
}

// ListItemsByList returns all items belonging to a list.
func (t *Tx) ListItemsByList(listID string) ([]*domain.BookListItem, error) {
	var items []*domain.BookListItem
	err := iterate(t, listItemPrefix, func(item *domain.BookListItem) bool {
		if item.ListID == listID {
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

// GetListItem retrieves a list item by ID.
func (s *Store) GetListItem(ctx context.Context, id string) (*domain.BookListItem, error) {
	var item *domain.BookListItem
	err := s.View(ctx, func(tx *Tx) error {
		var err error
		item, err = tx.GetListItem(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ListItemsByList returns all items belonging to a list.
func (s *Store) ListItemsByList(ctx context.Context, listID string) ([]*domain.BookListItem, error) {
	var items []*domain.BookListItem
	err := s.View(ctx, func(tx *Tx) error {
		var err error
		items, err = tx.ListItemsByList(listID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
