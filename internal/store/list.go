package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelflistapp/shelflist-server/internal/domain"
)

const listPrefix = "list:"

var (
	// ErrListNotFound is returned when a list is not found in the store.
	ErrListNotFound = errors.New("list not found")
	// ErrDuplicateList is returned when trying to create a list that already exists.
	ErrDuplicateList = errors.New("list already exists")
)

// CreateList stores a new list.
func (t *Tx) CreateList(list *domain.List) error {
	key := []byte(listPrefix + list.ID)

	exists, err := t.exists(key)
	if err != nil {
		return fmt.Errorf("check list exists: %w", err)
	}
	if exists {
		return ErrDuplicateList
	}

	if err := t.set(key, list); err != nil {
		return fmt.Errorf("save list: %w", err)
	}
	return nil
}

// GetList retrieves a list by ID.
func (t *Tx) GetList(id string) (*domain.List, error) {
	key := []byte(listPrefix + id)

	var list domain.List
	if err := t.get(key, &list); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("get list: %w", err)
	}
	return &list, nil
}

// UpdateList overwrites an existing list.
func (t *Tx) UpdateList(list *domain.List) error {
	key := []byte(listPrefix + list.ID)

	exists, err := t.exists(key)
	if err != nil {
		return fmt.Errorf("check list exists: %w", err)
	}
	if !exists {
		return ErrListNotFound
	}

	if err := t.set(key, list); err != nil {
		return fmt.Errorf("update list: %w", err)
	}
	return nil
}

// DeleteList removes the list record only. Cascading through items and
// subscriptions is the service layer's job, inside the same transaction.
func (t *Tx) DeleteList(id string) error {
	if err := t.delete([]byte(listPrefix + id)); err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}

// AllLists walks every stored list.
func (t *Tx) AllLists(fn func(*domain.List) bool) error {
	return iterate(t, listPrefix, fn)
}

// PushListItemRef adds an item ID to the list's reference set and saves the
// list. Call from the same transaction that creates the item record.
func (t *Tx) PushListItemRef(listID, itemID string) error {
	list, err := t.GetList(listID)
	if err != nil {
		return err
	}
	if list.AddItem(itemID) {
		list.UpdatedAt = time.Now()
		return t.UpdateList(list)
	}
	return nil
}

// PullListItemRef removes an item ID from the list's reference set and
// saves the list. Missing list or missing ref is not an error; the cascade
// may already have detached it.
func (t *Tx) PullListItemRef(listID, itemID string) error {
	list, err := t.GetList(listID)
	if errors.Is(err, ErrListNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if list.RemoveItem(itemID) {
		list.UpdatedAt = time.Now()
		return t.UpdateList(list)
	}
	return nil
}

// Store-level read helpers for callers outside a mutation.

// GetList retrieves a list by ID.
func (s *Store) GetList(ctx context.Context, id string) (*domain.List, error) {
	var list *domain.List
	err := s.View(ctx, func(tx *Tx) error {
		var err error
		list, err = tx.GetList(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// AllLists returns every stored list.
func (s *Store) AllLists(ctx context.Context) ([]*domain.List, error) {
	var lists []*domain.List
	err := s.View(ctx, func(tx *Tx) error {
		return tx.AllLists(func(l *domain.List) bool {
			lists = append(lists, l)
			return true
		})
	})
	if err != nil {
		return nil, err
	}
	return lists, nil
}
