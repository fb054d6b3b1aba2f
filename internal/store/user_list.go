package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelflistapp/shelflist-server/internal/domain"
)

const userListPrefix = "userlist:"

var (
	// ErrUserListNotFound is returned when a user list is not found in the store.
	ErrUserListNotFound = errors.New("user list not found")
	// ErrDuplicateUserList is returned when trying to create a user list that already exists.
	ErrDuplicateUserList = errors.New("user list already exists")
)

// CreateUserList stores a new subscription.
func (t *Tx) CreateUserList(ul *domain.UserList) error {
	key := []byte(userListPrefix + ul.ID)

	exists, err := t.exists(key)
	if err != nil {
		return fmt.Errorf("check user list exists: %w", err)
	}
	if exists {
		return ErrDuplicateUserList
	}

	if err := t.set(key, ul); err != nil {
		return fmt.Errorf("save user list: %w", err)
	}
	return nil
}

// GetUserList retrieves a subscription by ID.
func (t *Tx) GetUserList(id string) (*domain.UserList, error) {
	key := []byte(userListPrefix + id)

	var ul domain.UserList
	if err := t.get(key, &ul); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrUserListNotFound
		}
		return nil, fmt.Errorf("get user list: %w", err)
	}
	return &ul, nil
}

// UpdateUserList overwrites an existing subscription.
func (t *Tx) UpdateUserList(ul *domain.UserList) error {
	key := []byte(userListPrefix + ul.ID)

	exists, err := t.exists(key)
	if err != nil {
		return fmt.Errorf("check user list exists: %w", err)
	}
	if !exists {
		return ErrUserListNotFound
	}

	if err := t.set(key, ul); err != nil {
		return fmt.Errorf("update user list: %w", err)
	}
	return nil
}

// DeleteUserList removes the subscription record only. Its item records
// are purged by the service cascade in the same transaction.
func (t *Tx) DeleteUserList(id string) error {
	if err := t.delete([]byte(userListPrefix + id)); err != nil {
		return fmt.Errorf("delete user list: %w", err)
	}
	return nil
}

// UserListsByUser returns all subscriptions of one user.
func (t *Tx) UserListsByUser(userID string) ([]*domain.UserList, error) {
	var uls []*domain.UserList
	err := iterate(t, userListPrefix, func(ul *domain.UserList) bool {
		if ul.UserID == userID {
			uls = append(uls, ul)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return uls, nil
}

// UserListsByList returns every user's subscription to one list. Used by
// the list delete cascade, which must reach all subscribers.
func (t *Tx) UserListsByList(listID string) ([]*domain.UserList, error) {
	var uls []*domain.UserList
	err := iterate(t, userListPrefix, func(ul *domain.UserList) bool {
		if ul.ListID == listID {
			uls = append(uls, ul)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return uls, nil
}

// PushUserItemRef adds a user item ID to the subscription's reference set
// and saves it, scoped to the owning user.
func (t *Tx) PushUserItemRef(userListID, userID, itemID string) error {
	ul, err := t.GetUserList(userListID)
	if err != nil {
		return err
	}
	if ul.UserID != userID {
		return ErrUserListNotFound
	}
	if ul.AddItem(itemID) {
		ul.UpdatedAt = time.Now()
		return t.UpdateUserList(ul)
	}
	return nil
}

// PullUserItemRef removes a user item ID from the subscription's reference
// set. A missing subscription is not an error; the cascade may have
// deleted it already in this transaction.
func (t *Tx) PullUserItemRef(userListID, userID, itemID string) error {
	ul, err := t.GetUserList(userListID)
	if errors.Is(err, ErrUserListNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if ul.UserID != userID {
		return nil
	}
	if ul.RemoveItem(itemID) {
		ul.UpdatedAt = time.Now()
		return t.UpdateUserList(ul)
	}
	return nil
}

// Store-level read helpers.

// GetUserList retrieves a subscription by ID.
func (s *Store) GetUserList(ctx context.Context, id string) (*domain.UserList, error) {
	var ul *domain.UserList
	err := s.View(ctx, func(tx *Tx) error {
		var err error
		ul, err = tx.GetUserList(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ul, nil
}

// UserListsByUser returns all subscriptions of one user.
func (s *Store) UserListsByUser(ctx context.Context, userID string) ([]*domain.UserList, error) {
	var uls []*domain.UserList
	err := s.View(ctx, func(tx *Tx) error {
		var err error
		uls, err = tx.UserListsByUser(userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return uls, nil
}
