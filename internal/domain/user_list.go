package domain

import (
	"slices"
	"time"
)

// UserList is a user's subscription to a List. It carries the user's own
// item records for that list via the BookUserListItemIDs reference set,
// seeded with one default record per list item when the subscription is
// created. Nothing stops a user from subscribing to the same list twice;
// each subscription stands on its own.
type UserList struct {
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	ListID              string    `json:"list_id"`
	Notes               string    `json:"notes,omitempty"`
	BookUserListItemIDs []string  `json:"book_user_list_item_ids"`
}

// NewUserList creates a subscription of userID to listID with an empty
// reference set. Seeding of default item records happens in the same
// transaction that persists the subscription.
func NewUserList(id, userID, listID string) *UserList {
	now := time.Now()
	return &UserList{
		CreatedAt:           now,
		UpdatedAt:           now,
		ID:                  id,
		UserID:              userID,
		ListID:              listID,
		BookUserListItemIDs: []string{},
	}
}

// AddItem adds a user item ID to the reference set if not already present.
func (ul *UserList) AddItem(itemID string) bool {
	if slices.Contains(ul.BookUserListItemIDs, itemID) {
		return false // Already present
	}
	ul.BookUserListItemIDs = append(ul.BookUserListItemIDs, itemID)
	return true
}

// RemoveItem removes a user item ID from the reference set.
func (ul *UserList) RemoveItem(itemID string) bool {
	for i, id := range ul.BookUserListItemIDs {
		if id == itemID {
			ul.BookUserListItemIDs = append(ul.BookUserListItemIDs[:i], ul.BookUserListItemIDs[i+1:]...)
			return true
		}
	}
	return false
}

// ContainsItem checks if a user item ID is in the reference set.
func (ul *UserList) ContainsItem(itemID string) bool {
	return slices.Contains(ul.BookUserListItemIDs, itemID)
}
