package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelflistapp/shelflist-server/internal/domain"
	"github.com/shelflistapp/shelflist-server/internal/errors"
	"github.com/shelflistapp/shelflist-server/internal/store"
)

func TestListCreate_UnsupportedType(t *testing.T) {
	f := newFixture(t)

	_, err := f.lists.Create(context.Background(), "user-1", CreateListInput{
		Title: "Movies",
		Type:  domain.ListType("movie"),
	})
	assert.ErrorIs(t, err, errors.ErrNotImplemented)

	// Nothing was written.
	lists, err := f.lists.FindAll(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestListGet_AccessIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	private := f.createList(t, "user-1", "Private", false)
	public := f.createList(t, "user-1", "Public", true)

	// Owner sees both.
	_, err := f.lists.Get(ctx, "user-1", private.ID)
	assert.NoError(t, err)

	// A stranger gets NotFound for the private list, indistinguishable
	// from a list that does not exist.
	_, err = f.lists.Get(ctx, "user-2", private.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	_, err = f.lists.Get(ctx, "user-2", "list-nonexistent")
	assert.ErrorIs(t, err, errors.ErrNotFound)

	// Public lists are readable by anyone.
	got, err := f.lists.Get(ctx, "user-2", public.ID)
	require.NoError(t, err)
	assert.Equal(t, "Public", got.Title)
}

func TestListFindByFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.createList(t, "user-1", "Summer Reading", true)
	f.createList(t, "user-1", "Winter Stack", true)
	f.createList(t, "user-2", "Summer Projects", true)
	f.createList(t, "user-2", "Hidden", false)

	// Filter fields OR-combine; title matches case-insensitively.
	results, err := f.lists.FindByFilter(ctx, "user-1", ListFilter{Title: "summer"})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// OwnerOnly narrows to owned lists.
	results, err = f.lists.FindByFilter(ctx, "user-1", ListFilter{Title: "summer", OwnerOnly: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Summer Reading", results[0].Title)

	// Unreadable lists never surface.
	results, err = f.lists.FindByFilter(ctx, "user-1", ListFilter{Title: "hidden"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestListPatch_ImmutableFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := f.createList(t, "user-1", "Summer Reading", false)

	typ := "movie"
	_, err := f.lists.Patch(ctx, "user-1", list.ID, ListPatch{Type: &typ})
	assert.ErrorIs(t, err, errors.ErrValidation)

	owner := "user-2"
	_, err = f.lists.Patch(ctx, "user-1", list.ID, ListPatch{OwnerID: &owner})
	assert.ErrorIs(t, err, errors.ErrValidation)

	// Mutable fields go through.
	title := "Autumn Reading"
	updated, err := f.lists.Patch(ctx, "user-1", list.ID, ListPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Autumn Reading", updated.Title)
}

func TestListPatch_NonOwnerDenied(t *testing.T) {
	f := newFixture(t)

	list := f.createList(t, "user-1", "Public But Not Yours", true)

	title := "Hijacked"
	_, err := f.lists.Patch(context.Background(), "user-2", list.ID, ListPatch{Title: &title})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestListDelete_CascadeCompleteness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := f.createList(t, "user-1", "Shared Reading", true)
	item1 := f.addBook(t, "user-1", list.ID, "9780765342539", "The Dosadi Experiment", 0)
	item2 := f.addBook(t, "user-1", list.ID, "9780441013593", "Dune", 1)

	// Two subscribers, each with seeded records.
	sub1, err := f.userLists.Create(ctx, "user-2", list.ID)
	require.NoError(t, err)
	sub2, err := f.userLists.Create(ctx, "user-3", list.ID)
	require.NoError(t, err)
	require.Len(t, sub1.BookUserListItemIDs, 2)
	require.Len(t, sub2.BookUserListItemIDs, 2)

	require.NoError(t, f.lists.Delete(ctx, "user-1", list.ID))

	// The list and its items are gone.
	_, err = f.store.GetList(ctx, list.ID)
	assert.ErrorIs(t, err, store.ErrListNotFound)
	for _, itemID := range []string{item1.ID, item2.ID} {
		_, err = f.store.GetListItem(ctx, itemID)
		assert.ErrorIs(t, err, store.ErrListItemNotFound)
	}

	// Both subscriptions are gone.
	for _, subID := range []string{sub1.ID, sub2.ID} {
		_, err = f.store.GetUserList(ctx, subID)
		assert.ErrorIs(t, err, store.ErrUserListNotFound)
	}

	// No orphaned user records anywhere.
	for _, userID := range []string{"user-2", "user-3"} {
		records, err := f.store.UserItemsByUser(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, records, "user %s should have no orphaned records", userID)
	}
}

func TestListDelete_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := f.createList(t, "user-1", "Short Lived", false)

	require.NoError(t, f.lists.Delete(ctx, "user-1", list.ID))

	// A second delete reports NotFound rather than succeeding silently.
	err := f.lists.Delete(ctx, "user-1", list.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestListDelete_NonOwnerDenied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := f.createList(t, "user-1", "Public Reading", true)

	err := f.lists.Delete(ctx, "user-2", list.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	// Still there.
	_, err = f.store.GetList(ctx, list.ID)
	assert.NoError(t, err)
}

func TestListDelete_UnknownTypeAbortsBeforeWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Plant a list whose type has no registered pair, as if written by a
	// newer build.
	planted := domain.NewList("list-planted", "user-1", "Future Type", domain.ListType("movie"))
	err := f.store.Tx(ctx, func(tx *store.Tx) error {
		return tx.CreateList(planted)
	})
	require.NoError(t, err)

	err = f.lists.Delete(ctx, "user-1", planted.ID)
	assert.ErrorIs(t, err, errors.ErrNotImplemented)

	// The dispatch failure stopped the cascade before any write.
	_, err = f.store.GetList(ctx, planted.ID)
	assert.NoError(t, err)
}
