package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelflistapp/shelflist-server/internal/domain"
)

func TestCreateList(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	list := domain.NewList("list-001", "user-1", "Summer Reading", domain.ListTypeBook)

	err := store.Tx(ctx, func(tx *Tx) error {
		return tx.CreateList(list)
	})
	require.NoError(t, err)

	retrieved, err := store.GetList(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, list.ID, retrieved.ID)
	assert.Equal(t, "Summer Reading", retrieved.Title)
	assert.Equal(t, domain.ListTypeBook, retrieved.Type)
	assert.Empty(t, retrieved.BookListItemIDs)
}

func TestCreateList_Duplicate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	list := domain.NewList("list-001", "user-1", "Summer Reading", domain.ListTypeBook)

	err := store.Tx(ctx, func(tx *Tx) error {
		return tx.CreateList(list)
	})
	require.NoError(t, err)

	err = store.Tx(ctx, func(tx *Tx) error {
		return tx.CreateList(list)
	})
	assert.ErrorIs(t, err, ErrDuplicateList)
}

func TestGetList_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.GetList(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestUpdateList_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	list := domain.NewList("list-001", "user-1", "Summer Reading", domain.ListTypeBook)

	err := store.Tx(context.Background(), func(tx *Tx) error {
		return tx.UpdateList(list)
	})
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestPushPullListItemRef(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	list := domain.NewList("list-001", "user-1", "Summer Reading", domain.ListTypeBook)

	err := store.Tx(ctx, func(tx *Tx) error {
		if err := tx.CreateList(list); err != nil {
			return err
		}
		if err := tx.PushListItemRef(list.ID, "item-1"); err != nil {
			return err
		}
		return tx.PushListItemRef(list.ID, "item-2")
	})
	require.NoError(t, err)

	retrieved, err := store.GetList(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"item-1", "item-2"}, retrieved.BookListItemIDs)

	err = store.Tx(ctx, func(tx *Tx) error {
		return tx.PullListItemRef(list.ID, "item-1")
	})
	require.NoError(t, err)

	retrieved, err = store.GetList(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"item-2"}, retrieved.BookListItemIDs)
}

func TestPullListItemRef_MissingListIsNoop(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.Tx(context.Background(), func(tx *Tx) error {
		return tx.PullListItemRef("nonexistent", "item-1")
	})
	assert.NoError(t, err)
}

func TestTx_RollbackOnError(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	list := domain.NewList("list-001", "user-1", "Summer Reading", domain.ListTypeBook)

	err := store.Tx(ctx, func(tx *Tx) error {
		if err := tx.CreateList(list); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	// Nothing from the failed transaction should be visible.
	_, err = store.GetList(ctx, list.ID)
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestAllLists(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	err := store.Tx(ctx, func(tx *Tx) error {
		for _, id := range []string{"list-001", "list-002", "list-003"} {
			if err := tx.CreateList(domain.NewList(id, "user-1", "List "+id, domain.ListTypeBook)); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	lists, err := store.AllLists(ctx)
	require.NoError(t, err)
	assert.Len(t, lists, 3)
}
