package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shelflistapp/shelflist-server/internal/domain"
	"github.com/shelflistapp/shelflist-server/internal/metadata/openlibrary"
	"github.com/shelflistapp/shelflist-server/internal/store"
)

// stubMetadata serves canned Open Library lookups.
type stubMetadata struct {
	books map[string]*openlibrary.Book
}

func (m *stubMetadata) GetBookByISBN(_ context.Context, isbn string) (*openlibrary.Book, error) {
	normalized := openlibrary.NormalizeISBN(isbn)
	if !openlibrary.ValidateISBN(normalized) {
		return nil, openlibrary.ErrInvalidISBN
	}
	book, ok := m.books[normalized]
	if !ok {
		return nil, openlibrary.ErrNotFound
	}
	return book, nil
}

func (m *stubMetadata) add(isbn, title string, authors ...string) {
	m.books[isbn] = &openlibrary.Book{
		ISBN:    isbn,
		Title:   title,
		Authors: authors,
	}
}

// fixture wires the full service graph over a temp-dir store.
type fixture struct {
	store     *store.Store
	meta      *stubMetadata
	registry  *TypeRegistry
	lists     *ListService
	items     *BookListItemService
	userLists *UserListService
	userItems *BookUserListItemService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	logger := slog.New(slog.DiscardHandler)
	meta := &stubMetadata{books: make(map[string]*openlibrary.Book)}

	registry := NewTypeRegistry()
	allItems := NewAllItemsService(registry)
	allUserItems := NewAllUserItemsService(registry)

	userLists := NewUserListService(st, allUserItems, logger)
	userItems := NewBookUserListItemService(st, userLists, logger)
	items := NewBookListItemService(st, meta, userItems, logger)
	lists := NewListService(st, registry, allItems, userLists, logger)

	registry.Register(domain.ListTypeBook, ServicePair{
		Items:     items,
		UserItems: userItems,
	})

	return &fixture{
		store:     st,
		meta:      meta,
		registry:  registry,
		lists:     lists,
		items:     items,
		userLists: userLists,
		userItems: userItems,
	}
}

// createList is a shortcut for a book list owned by userID.
func (f *fixture) createList(t *testing.T, userID, title string, public bool) *domain.List {
	t.Helper()

	list, err := f.lists.Create(context.Background(), userID, CreateListInput{
		Title:    title,
		Type:     domain.ListTypeBook,
		IsPublic: public,
	})
	require.NoError(t, err)
	return list
}

// addBook registers metadata for an ISBN and creates the item.
func (f *fixture) addBook(t *testing.T, userID, listID, isbn, title string, ordinal int) *domain.BookListItem {
	t.Helper()

	if _, ok := f.meta.books[isbn]; !ok {
		f.meta.add(isbn, title)
	}
	item, err := f.items.Create(context.Background(), userID, listID, CreateItemInput{
		ISBN:    isbn,
		Ordinal: ordinal,
	})
	require.NoError(t, err)
	return item
}
