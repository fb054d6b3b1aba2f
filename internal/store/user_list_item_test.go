package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelflistapp/shelflist-server/internal/domain"
)

func seedUserItems(t *testing.T, store *Store) {
	t.Helper()

	err := store.Tx(context.Background(), func(tx *Tx) error {
		items := []*domain.BookUserListItem{
			domain.NewDefaultBookUserListItem("uitem-1", "user-1", "ulist-1", "item-1"),
			domain.NewDefaultBookUserListItem("uitem-2", "user-1", "ulist-1", "item-2"),
			domain.NewDefaultBookUserListItem("uitem-3", "user-2", "ulist-2", "item-1"),
		}
		for _, item := range items {
			if err := tx.CreateUserListItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestUserItemsByListItem_SpansUsers(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	seedUserItems(t, store)

	var items []*domain.BookUserListItem
	err := store.View(context.Background(), func(tx *Tx) error {
		var err error
		items, err = tx.UserItemsByListItem("item-1")
		return err
	})
	require.NoError(t, err)

	require.Len(t, items, 2)
	users := []string{items[0].UserID, items[1].UserID}
	assert.ElementsMatch(t, []string{"user-1", "user-2"}, users)
}

func TestUserItemsByUserAndListItems(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	seedUserItems(t, store)

	var items []*domain.BookUserListItem
	err := store.View(context.Background(), func(tx *Tx) error {
		var err error
		items, err = tx.UserItemsByUserAndListItems("user-1", []string{"item-1", "item-2"})
		return err
	})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	err = store.View(context.Background(), func(tx *Tx) error {
		var err error
		items, err = tx.UserItemsByUserAndListItems("user-2", []string{"item-2"})
		return err
	})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUserItemsByUserList(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	seedUserItems(t, store)

	items, err := store.UserItemsByUserList(context.Background(), "ulist-1")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestPushUserItemRef_WrongUser(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	err := store.Tx(ctx, func(tx *Tx) error {
		return tx.CreateUserList(domain.NewUserList("ulist-1", "user-1", "list-1"))
	})
	require.NoError(t, err)

	err = store.Tx(ctx, func(tx *Tx) error {
		return tx.PushUserItemRef("ulist-1", "user-2", "uitem-1")
	})
	assert.ErrorIs(t, err, ErrUserListNotFound)

	// Correct user succeeds.
	err = store.Tx(ctx, func(tx *Tx) error {
		return tx.PushUserItemRef("ulist-1", "user-1", "uitem-1")
	})
	require.NoError(t, err)

	ul, err := store.GetUserList(ctx, "ulist-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"uitem-1"}, ul.BookUserListItemIDs)
}

func TestUserListsByList(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	err := store.Tx(ctx, func(tx *Tx) error {
		subs := []*domain.UserList{
			domain.NewUserList("ulist-1", "user-1", "list-1"),
			domain.NewUserList("ulist-2", "user-2", "list-1"),
			domain.NewUserList("ulist-3", "user-1", "list-2"),
		}
		for _, ul := range subs {
			if err := tx.CreateUserList(ul); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	var uls []*domain.UserList
	err = store.View(ctx, func(tx *Tx) error {
		var err error
		uls, err = tx.UserListsByList("list-1")
		return err
	})
	require.NoError(t, err)
	assert.Len(t, uls, 2)
}
