package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelflistapp/shelflist-server/internal/errors"
	"github.com/shelflistapp/shelflist-server/internal/metadata/openlibrary"
	"github.com/shelflistapp/shelflist-server/internal/store"
)

func TestItemCreate_UnknownISBNIsValidationError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := f.createList(t, "user-1", "Reading", false)

	_, err := f.items.Create(ctx, "user-1", list.ID, CreateItemInput{
		ISBN: "9780000000002",
	})
	assert.ErrorIs(t, err, errors.ErrValidation)

	// The miss left nothing behind.
	got, err := f.store.GetList(ctx, list.ID)
	require.NoError(t, err)
	assert.Empty(t, got.BookListItemIDs)
}

func TestItemCreate_ReferenceSymmetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := f.createList(t, "user-1", "Reading", false)
	item := f.addBook(t, "user-1", list.ID, "9780765342539", "The Dosadi Experiment", 0)

	got, err := f.store.GetList(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{item.ID}, got.BookListItemIDs)

	stored, err := f.store.GetListItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, list.ID, stored.ListID)
	assert.Equal(t, "The Dosadi Experiment", stored.Meta.Title)
}

func TestItemCreate_NonOwnerDenied(t *testing.T) {
	f := newFixture(t)

	list := f.createList(t, "user-1", "Public Reading", true)
	f.meta.add("9780765342539", "The Dosadi Experiment")

	_, err := f.items.Create(context.Background(), "user-2", list.ID, CreateItemInput{
		ISBN: "9780765342539",
	})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestItemFindByFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := f.createList(t, "user-1", "Reading", false)
	f.meta.books["9780765342539"] = &openlibrary.Book{
		ISBN:     "9780765342539",
		Title:    "The Dosadi Experiment",
		Authors:  []string{"Frank Herbert"},
		Subjects: []string{"Science fiction"},
	}
	f.meta.books["9780441013593"] = &openlibrary.Book{
		ISBN:     "9780441013593",
		Title:    "Dune",
		Authors:  []string{"Frank Herbert"},
		Subjects: []string{"Science fiction", "Desert planets"},
	}
	f.addBook(t, "user-1", list.ID, "9780765342539", "", 0)
	f.addBook(t, "user-1", list.ID, "9780441013593", "", 1)

	// Author substring reaches into metadata.
	results, err := f.items.FindByFilter(ctx, "user-1", list.ID, ItemFilter{Author: "herbert"})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// Ordinal matches exactly.
	ordinal := 1
	results, err = f.items.FindByFilter(ctx, "user-1", list.ID, ItemFilter{Ordinal: &ordinal})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Dune", results[0].Meta.Title)

	// Fields OR-combine: title "dosadi" or subject "desert" hits both.
	results, err = f.items.FindByFilter(ctx, "user-1", list.ID, ItemFilter{Title: "dosadi", Subject: "desert"})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestItemFindByID_DerivesAccessFromList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := f.createList(t, "user-1", "Private", false)
	item := f.addBook(t, "user-1", list.ID, "9780765342539", "The Dosadi Experiment", 0)

	_, err := f.items.FindByID(ctx, "user-1", item.ID)
	assert.NoError(t, err)

	_, err = f.items.FindByID(ctx, "user-2", item.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestItemPatch_ListTypeImmutable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := f.createList(t, "user-1", "Reading", false)
	item := f.addBook(t, "user-1", list.ID, "9780765342539", "The Dosadi Experiment", 0)

	listType := "movie"
	_, err := f.items.Patch(ctx, "user-1", item.ID, ItemPatch{ListType: &listType})
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestItemPatch_RepositionsOrdinal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := f.createList(t, "user-1", "Reading", false)
	item := f.addBook(t, "user-1", list.ID, "9780765342539", "The Dosadi Experiment", 0)

	ordinal := 5
	updated, err := f.items.Patch(ctx, "user-1", item.ID, ItemPatch{Ordinal: &ordinal})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Ordinal)

	stored, err := f.store.GetListItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Ordinal)

	negative := -1
	_, err = f.items.Patch(ctx, "user-1", item.ID, ItemPatch{Ordinal: &negative})
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestItemPatch_NewISBNRefreshesMeta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := f.createList(t, "user-1", "Reading", false)
	item := f.addBook(t, "user-1", list.ID, "9780765342539", "The Dosadi Experiment", 0)
	f.meta.add("9780441013593", "Dune", "Frank Herbert")

	isbn := "9780441013593"
	updated, err := f.items.Patch(ctx, "user-1", item.ID, ItemPatch{ISBN: &isbn})
	require.NoError(t, err)
	assert.Equal(t, "9780441013593", updated.ISBN)
	assert.Equal(t, "Dune", updated.Meta.Title)
}

func TestItemDelete_PurgesAllUsersRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := f.createList(t, "user-1", "Shared Reading", true)
	item1 := f.addBook(t, "user-1", list.ID, "9780765342539", "The Dosadi Experiment", 0)
	item2 := f.addBook(t, "user-1", list.ID, "9780441013593", "Dune", 1)

	sub2, err := f.userLists.Create(ctx, "user-2", list.ID)
	require.NoError(t, err)
	sub3, err := f.userLists.Create(ctx, "user-3", list.ID)
	require.NoError(t, err)

	require.NoError(t, f.items.Delete(ctx, "user-1", item1.ID))

	// The item is gone and detached from the list.
	_, err = f.store.GetListItem(ctx, item1.ID)
	assert.ErrorIs(t, err, store.ErrListItemNotFound)
	got, err := f.store.GetList(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{item2.ID}, got.BookListItemIDs)

	// Every subscriber lost exactly the record for the deleted item, and
	// their subscriptions no longer reference it.
	for userID, subID := range map[string]string{"user-2": sub2.ID, "user-3": sub3.ID} {
		records, err := f.store.UserItemsByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, records, 1, "user %s", userID)
		assert.Equal(t, item2.ID, records[0].BookListItemID)

		sub, err := f.store.GetUserList(ctx, subID)
		require.NoError(t, err)
		assert.Equal(t, []string{records[0].ID}, sub.BookUserListItemIDs)
	}
}

func TestItemDelete_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := f.createList(t, "user-1", "Reading", false)
	item := f.addBook(t, "user-1", list.ID, "9780765342539", "The Dosadi Experiment", 0)

	require.NoError(t, f.items.Delete(ctx, "user-1", item.ID))
	err := f.items.Delete(ctx, "user-1", item.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}
