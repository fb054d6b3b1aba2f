package domain

import "time"

// BookMeta holds the book metadata captured from Open Library when the
// item is created. It is a snapshot, not a live reference; later edits to
// the upstream record never propagate here.
type BookMeta struct {
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Authors     []string          `json:"authors,omitempty"`
	Subjects    []string          `json:"subjects,omitempty"`
	Thumbnail   string            `json:"thumbnail,omitempty"`
	PublishDate string            `json:"publish_date,omitempty"`
	Pages       int               `json:"pages,omitempty"`
	Identifiers map[string]string `json:"identifiers,omitempty"`
}

// BookListItem is one entry of a book list. Ordinal is the item's position
// in the list and ListType records the kind of list it belongs to; ListType
// is fixed at creation. The owning List keeps this item's ID in its reference
// set, and both sides are written in the same transaction.
type BookListItem struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	ListID    string    `json:"list_id"`
	Ordinal   int       `json:"ordinal"`
	ListType  ListType  `json:"list_type"`
	ISBN      string    `json:"isbn"`
	Meta      BookMeta  `json:"meta"`
}

// NewBookListItem creates a list item for the given list at the given
// position. The type tag is set statically by the book item service.
func NewBookListItem(id, listID string, ordinal int, isbn string, meta BookMeta) *BookListItem {
	now := time.Now()
	return &BookListItem{
		CreatedAt: now,
		UpdatedAt: now,
		ID:        id,
		ListID:    listID,
		Ordinal:   ordinal,
		ListType:  ListTypeBook,
		ISBN:      isbn,
		Meta:      meta,
	}
}
