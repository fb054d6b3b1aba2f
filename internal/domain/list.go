package domain

import (
	"slices"
	"time"
)

// ListType tags a list with the kind of items it holds. Every per-type
// behavior (item lifecycle, default seeding) is resolved from this tag;
// an unrecognized tag must stop an operation before any write happens.
type ListType string

const (
	// ListTypeBook is a list of books identified by ISBN.
	ListTypeBook ListType = "book"
)

// String returns the string representation of the list type.
func (t ListType) String() string {
	return string(t)
}

// IsValid checks if the list type is a recognized value.
func (t ListType) IsValid() bool {
	switch t {
	case ListTypeBook:
		return true
	default:
		return false
	}
}

// List is a curated, ordered collection of items of a single type.
// Lists are the root of the ownership graph: deleting one cascades through
// its items, every subscription to it, and every subscriber's item records.
// The BookListItemIDs reference set is maintained alongside the item records
// themselves inside the same transaction.
type List struct {
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category,omitempty"`
	Type            ListType  `json:"type"`
	IsPublic        bool      `json:"is_public"`
	BookListItemIDs []string  `json:"book_list_item_ids"`
}

// NewList creates a list owned by ownerID. The type tag is fixed at
// creation and never changes afterwards.
func NewList(id, ownerID, title string, listType ListType) *List {
	now := time.Now()
	return &List{
		CreatedAt:       now,
		UpdatedAt:       now,
		ID:              id,
		OwnerID:         ownerID,
		Title:           title,
		Type:            listType,
		BookListItemIDs: []string{},
	}
}

// AddItem adds an item ID to the list's reference set if not already present.
func (l *List) AddItem(itemID string) bool {
	if slices.Contains(l.BookListItemIDs, itemID) {
		return false // Already present
	}
	l.BookListItemIDs = append(l.BookListItemIDs, itemID)
	return true
}

// RemoveItem removes an item ID from the list's reference set.
func (l *List) RemoveItem(itemID string) bool {
	for i, id := range l.BookListItemIDs {
		if id == itemID {
			l.BookListItemIDs = append(l.BookListItemIDs[:i], l.BookListItemIDs[i+1:]...)
			return true
		}
	}
	return false
}

// ContainsItem checks if an item ID is in the list's reference set.
func (l *List) ContainsItem(itemID string) bool {
	return slices.Contains(l.BookListItemIDs, itemID)
}
