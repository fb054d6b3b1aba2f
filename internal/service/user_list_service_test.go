package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelflistapp/shelflist-server/internal/domain"
	"github.com/shelflistapp/shelflist-server/internal/errors"
)

func TestUserListCreate_SeedsDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := f.createList(t, "user-1", "Shared Reading", true)
	item1 := f.addBook(t, "user-1", list.ID, "9780765342539", "The Dosadi Experiment", 0)
	item2 := f.addBook(t, "user-1", list.ID, "9780441013593", "Dune", 1)

	sub, err := f.userLists.Create(ctx, "user-2", list.ID)
	require.NoError(t, err)

	// One default record per list item, referenced from the subscription.
	require.Len(t, sub.BookUserListItemIDs, 2)

	records, err := f.userItems.FindAllByUserList(ctx, "user-2", sub.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	seededFor := make([]string, 0, 2)
	for _, record := range records {
		assert.Equal(t, "user-2", record.UserID)
		assert.Equal(t, sub.ID, record.UserListID)
		assert.Equal(t, domain.ReadingStatusNotStarted, record.Status)
		assert.False(t, record.Owned)
		assert.Empty(t, record.Notes)
		assert.Contains(t, sub.BookUserListItemIDs, record.ID)
		seededFor = append(seededFor, record.BookListItemID)
	}
	assert.ElementsMatch(t, []string{item1.ID, item2.ID}, seededFor)
}

func TestUserListCreate_EmptyListSeedsNothing(t *testing.T) {
	f := newFixture(t)

	list := f.createList(t, "user-1", "Empty", true)

	sub, err := f.userLists.Create(context.Background(), "user-2", list.ID)
	require.NoError(t, err)
	assert.Empty(t, sub.BookUserListItemIDs)
}

func TestUserListCreate_PrivateListDenied(t *testing.T) {
	f := newFixture(t)

	list := f.createList(t, "user-1", "Private", false)

	_, err := f.userLists.Create(context.Background(), "user-2", list.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	// The owner can subscribe to their own private list.
	_, err = f.userLists.Create(context.Background(), "user-1", list.ID)
	assert.NoError(t, err)
}

func TestUserListGetPopulated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := f.createList(t, "user-1", "Shared Reading", true)
	f.addBook(t, "user-1", list.ID, "9780765342539", "The Dosadi Experiment", 0)

	sub2, err := f.userLists.Create(ctx, "user-2", list.ID)
	require.NoError(t, err)
	_, err = f.userLists.Create(ctx, "user-3", list.ID)
	require.NoError(t, err)

	populated, err := f.userLists.GetPopulated(ctx, "user-2", sub2.ID)
	require.NoError(t, err)

	assert.Equal(t, list.ID, populated.List.ID)
	assert.Len(t, populated.Items, 1)

	// Only the caller's own records, never another subscriber's.
	require.Len(t, populated.Records, 1)
	assert.Equal(t, "user-2", populated.Records[0].UserID)

	// Another user cannot read this subscription at all.
	_, err = f.userLists.GetPopulated(ctx, "user-3", sub2.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestUserListDelete_PurgesRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := f.createList(t, "user-1", "Shared Reading", true)
	f.addBook(t, "user-1", list.ID, "9780765342539", "The Dosadi Experiment", 0)

	sub, err := f.userLists.Create(ctx, "user-2", list.ID)
	require.NoError(t, err)
	require.Len(t, sub.BookUserListItemIDs, 1)

	require.NoError(t, f.userLists.Delete(ctx, "user-2", sub.ID))

	records, err := f.store.UserItemsByUser(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, records)

	// Second delete is NotFound.
	err = f.userLists.Delete(ctx, "user-2", sub.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestUserListDelete_OtherUsersUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := f.createList(t, "user-1", "Shared Reading", true)
	f.addBook(t, "user-1", list.ID, "9780765342539", "The Dosadi Experiment", 0)

	sub2, err := f.userLists.Create(ctx, "user-2", list.ID)
	require.NoError(t, err)
	sub3, err := f.userLists.Create(ctx, "user-3", list.ID)
	require.NoError(t, err)

	require.NoError(t, f.userLists.Delete(ctx, "user-2", sub2.ID))

	// user-3's subscription and records survive.
	got, err := f.userLists.Get(ctx, "user-3", sub3.ID)
	require.NoError(t, err)
	assert.Len(t, got.BookUserListItemIDs, 1)

	records, err := f.store.UserItemsByUser(ctx, "user-3")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestUserListPatch_Notes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list := f.createList(t, "user-1", "Shared Reading", true)
	sub, err := f.userLists.Create(ctx, "user-2", list.ID)
	require.NoError(t, err)

	notes := "reading with the book club"
	updated, err := f.userLists.Patch(ctx, "user-2", sub.ID, UserListPatch{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)

	// Someone else cannot patch it.
	_, err = f.userLists.Patch(ctx, "user-3", sub.ID, UserListPatch{Notes: &notes})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}
