package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shelflistapp/shelflist-server/internal/access"
	"github.com/shelflistapp/shelflist-server/internal/domain"
	"github.com/shelflistapp/shelflist-server/internal/errors"
	"github.com/shelflistapp/shelflist-server/internal/id"
	"github.com/shelflistapp/shelflist-server/internal/metadata/openlibrary"
	"github.com/shelflistapp/shelflist-server/internal/store"
)

// BookMetadataClient resolves ISBNs to book metadata. Satisfied by
// *openlibrary.Client; tests substitute a stub.
type BookMetadataClient interface {
	GetBookByISBN(ctx context.Context, isbn string) (*openlibrary.Book, error)
}

// BookListItemService manages the items of book lists. It is the book
// implementation of ListItemManager. Metadata is resolved before any
// transaction opens, so a lookup miss never leaves partial writes.
type BookListItemService struct {
	store     *store.Store
	metadata  BookMetadataClient
	userItems *BookUserListItemService
	logger    *slog.Logger
}

// NewBookListItemService creates a new book item service.
func NewBookListItemService(store *store.Store, metadata BookMetadataClient, userItems *BookUserListItemService, logger *slog.Logger) *BookListItemService {
	return &BookListItemService{
		store:     store,
		metadata:  metadata,
		userItems: userItems,
		logger:    logger,
	}
}

// readableList loads a list and applies the read predicate.
func (s *BookListItemService) readableList(ctx context.Context, userID, listID string) (*domain.List, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		if errors.Is(err, store.ErrListNotFound) {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "get list")
	}
	if !access.CanReadList(list, userID) {
		return nil, errors.ErrNotFound
	}
	return list, nil
}

// FindAllByList returns the items of a list the caller may read.
func (s *BookListItemService) FindAllByList(ctx context.Context, userID, listID string) ([]*domain.BookListItem, error) {
	return s.FindByFilter(ctx, userID, listID, ItemFilter{})
}

// ItemFilter selects items by OR-combining whichever fields are set.
// Ordinal matches exactly; text fields match metadata as case-insensitive
// substrings.
type ItemFilter struct {
	Ordinal *int
	Title   string
	Author  string
	Subject string
}

func (f ItemFilter) empty() bool {
	return f.Ordinal == nil && f.Title == "" && f.Author == "" && f.Subject == ""
}

func (f ItemFilter) matches(item *domain.BookListItem) bool {
	if f.empty() {
		return true
	}
	if f.Ordinal != nil && item.Ordinal == *f.Ordinal {
		return true
	}
	if f.Title != "" && containsFold(item.Meta.Title, f.Title) {
		return true
	}
	if f.Author != "" {
		for _, author := range item.Meta.Authors {
			if containsFold(author, f.Author) {
				return true
			}
		}
	}
	if f.Subject != "" {
		for _, subject := range item.Meta.Subjects {
			if containsFold(subject, f.Subject) {
				return true
			}
		}
	}
	return false
}

// FindByFilter returns the matching items of a list the caller may read.
func (s *BookListItemService) FindByFilter(ctx context.Context, userID, listID string, filter ItemFilter) ([]*domain.BookListItem, error) {
	if _, err := s.readableList(ctx, userID, listID); err != nil {
		return nil, err
	}

	items, err := s.store.ListItemsByList(ctx, listID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "find list items")
	}

	results := make([]*domain.BookListItem, 0, len(items))
	for _, item := range items {
		if filter.matches(item) {
			results = append(results, item)
		}
	}
	return results, nil
}

// FindByID retrieves one item. Access derives from the parent list, so the
// list is loaded to run the read predicate.
func (s *BookListItemService) FindByID(ctx context.Context, userID, itemID string) (*domain.BookListItem, error) {
	item, err := s.store.GetListItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrListItemNotFound) {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "get list item")
	}

	if _, err := s.readableList(ctx, userID, item.ListID); err != nil {
		return nil, err
	}
	return item, nil
}

// CreateItemInput carries the caller-settable fields for a new item.
type CreateItemInput struct {
	ISBN    string
	Ordinal int
}

// Create adds a book to a list the caller owns. The ISBN is resolved
// against Open Library before the transaction opens; an unknown ISBN is a
// validation error, not a metadata-less item. The item record and the
// list's reference set land in one transaction.
func (s *BookListItemService) Create(ctx context.Context, userID, listID string, input CreateItemInput) (*domain.BookListItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if input.Ordinal < 0 {
		return nil, errors.Validation("ordinal must not be negative")
	}

	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		if errors.Is(err, store.ErrListNotFound) {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "get list")
	}
	if !access.CanWriteList(list, userID) {
		return nil, errors.ErrNotFound
	}

	meta, err := s.resolveMeta(ctx, input.ISBN)
	if err != nil {
		return nil, err
	}

	itemID, err := id.Generate(id.PrefixListItem)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "generate item ID")
	}

	item := domain.NewBookListItem(itemID, listID, input.Ordinal, meta.isbn, meta.meta)

	err = s.store.Tx(ctx, func(tx *store.Tx) error {
		// Re-check inside the transaction; the list may have been
		// deleted or transferred since the lookup.
		current, err := tx.GetList(listID)
		if err != nil {
			if errors.Is(err, store.ErrListNotFound) {
				return errors.ErrNotFound
			}
			return err
		}
		if !access.CanWriteList(current, userID) {
			return errors.ErrNotFound
		}

		if err := tx.CreateListItem(item); err != nil {
			return err
		}
		return tx.PushListItemRef(listID, item.ID)
	})
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "create list item")
	}

	s.logger.Info("list item created",
		"item_id", item.ID,
		"list_id", listID,
		"isbn", item.ISBN,
	)

	return item, nil
}

// resolvedMeta pairs the canonical ISBN with the metadata snapshot.
type resolvedMeta struct {
	isbn string
	meta domain.BookMeta
}

// resolveMeta looks an ISBN up and maps client failures onto the domain
// taxonomy: unknown or malformed ISBNs are the caller's problem.
func (s *BookListItemService) resolveMeta(ctx context.Context, isbn string) (*resolvedMeta, error) {
	book, err := s.metadata.GetBookByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, openlibrary.ErrNotFound) {
			return nil, errors.Validationf("no book found for ISBN %q", isbn)
		}
		if errors.Is(err, openlibrary.ErrInvalidISBN) {
			return nil, errors.Validationf("invalid ISBN %q", isbn)
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "look up book metadata")
	}

	return &resolvedMeta{
		isbn: book.ISBN,
		meta: domain.BookMeta{
			Title:       book.Title,
			Description: book.Description,
			Authors:     book.Authors,
			Subjects:    book.Subjects,
			Thumbnail:   book.Thumbnail,
			PublishDate: book.PublishDate,
			Pages:       book.Pages,
			Identifiers: book.Identifiers,
		},
	}, nil
}

// ItemPatch carries the updatable fields of an item. A new ISBN re-resolves
// the metadata snapshot; a new Ordinal repositions the item. ListType is
// immutable and rejected.
type ItemPatch struct {
	ISBN     *string
	Ordinal  *int
	ListType *string
}

// Patch updates an item of a list the caller owns.
func (s *BookListItemService) Patch(ctx context.Context, userID, itemID string, patch ItemPatch) (*domain.BookListItem, error) {
	if patch.ListType != nil {
		return nil, errors.Validation("item list type cannot be changed")
	}
	if patch.Ordinal != nil && *patch.Ordinal < 0 {
		return nil, errors.Validation("ordinal must not be negative")
	}

	// Resolve the new metadata before the transaction, same as Create.
	var meta *resolvedMeta
	if patch.ISBN != nil {
		var err error
		meta, err = s.resolveMeta(ctx, *patch.ISBN)
		if err != nil {
			return nil, err
		}
	}

	var updated *domain.BookListItem
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		item, err := tx.GetListItem(itemID)
		if err != nil {
			if errors.Is(err, store.ErrListItemNotFound) {
				return errors.ErrNotFound
			}
			return err
		}

		list, err := tx.GetList(item.ListID)
		if err != nil {
			return err
		}
		if !access.CanWriteList(list, userID) {
			return errors.ErrNotFound
		}

		if meta != nil {
			item.ISBN = meta.isbn
			item.Meta = meta.meta
		}
		if patch.Ordinal != nil {
			item.Ordinal = *patch.Ordinal
		}
		item.UpdatedAt = time.Now()

		updated = item
		return tx.UpdateListItem(item)
	})
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CodeInternal, "patch list item")
	}

	return updated, nil
}

// Delete removes an item from a list the caller owns. One transaction
// pulls the item from the list's reference set, purges every user's
// records for it, and deletes the item record, in that order.
func (s *BookListItemService) Delete(ctx context.Context, userID, itemID string) error {
	err := s.store.Tx(ctx, func(tx *store.Tx) error {
		item, err := tx.GetListItem(itemID)
		if err != nil {
			if errors.Is(err, store.ErrListItemNotFound) {
				return errors.ErrNotFound
			}
			return err
		}

		list, err := tx.GetList(item.ListID)
		if err != nil {
			return err
		}
		if !access.CanWriteList(list, userID) {
			return errors.ErrNotFound
		}

		if err := tx.PullListItemRef(list.ID, item.ID); err != nil {
			return err
		}
		if err := s.userItems.DeleteAllBySingleListItem(tx, item.ID); err != nil {
			return err
		}
		return tx.DeleteListItem(item.ID)
	})
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return err
		}
		return errors.Wrap(err, errors.CodeInternal, "delete list item")
	}

	s.logger.Info("list item deleted", "item_id", itemID, "user_id", userID)
	return nil
}

// DeleteAllByList removes every item of the list and every user's records
// for those items, inside the caller's transaction. Part of the list
// delete cascade.
func (s *BookListItemService) DeleteAllByList(tx *store.Tx, list *domain.List) error {
	items, err := tx.ListItemsByList(list.ID)
	if err != nil {
		return err
	}

	itemIDs := make([]string, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}

	if err := s.userItems.DeleteAllByListItems(tx, itemIDs); err != nil {
		return err
	}

	for _, item := range items {
		if err := tx.DeleteListItem(item.ID); err != nil {
			return err
		}
	}
	return nil
}
