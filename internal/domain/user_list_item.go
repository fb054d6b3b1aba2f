package domain

import "time"

// ReadingStatus tracks how far a user has gotten with one book on a list.
type ReadingStatus string

const (
	ReadingStatusNotStarted ReadingStatus = "not_started"
	ReadingStatusInProgress ReadingStatus = "in_progress"
	ReadingStatusCompleted  ReadingStatus = "completed"
)

// String returns the string representation of the reading status.
func (s ReadingStatus) String() string {
	return string(s)
}

// IsValid checks if the reading status is a recognized value.
func (s ReadingStatus) IsValid() bool {
	switch s {
	case ReadingStatusNotStarted, ReadingStatusInProgress, ReadingStatusCompleted:
		return true
	default:
		return false
	}
}

// BookUserListItem is a user's personal record for one BookListItem:
// reading status, ownership flag, and free-form notes. UserID duplicates
// the owning UserList's UserID so per-user queries and cascade scoping
// never need to load the parent; the two must always agree.
type BookUserListItem struct {
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	UserListID     string        `json:"user_list_id"`
	BookListItemID string        `json:"book_list_item_id"`
	Notes          string        `json:"notes,omitempty"`
	Status         ReadingStatus `json:"status"`
	Owned          bool          `json:"owned"`
}

// NewDefaultBookUserListItem creates the seed record a new subscription
// gets for each existing list item: no notes, not started, not owned.
func NewDefaultBookUserListItem(id, userID, userListID, bookListItemID string) *BookUserListItem {
	now := time.Now()
	return &BookUserListItem{
		CreatedAt:      now,
		UpdatedAt:      now,
		ID:             id,
		UserID:         userID,
		UserListID:     userListID,
		BookListItemID: bookListItemID,
		Status:         ReadingStatusNotStarted,
		Owned:          false,
	}
}
