// Package access holds the pure access predicates for the list ownership
// graph. Predicates take records and a caller ID and return a decision;
// they never touch storage. Callers translate a false result into a
// NotFound error so denial never reveals that a record exists.
package access

import "github.com/shelflistapp/shelflist-server/internal/domain"

// CanReadList reports whether userID may read the list.
// Owners and anyone on a public list pass.
func CanReadList(list *domain.List, userID string) bool {
	if list == nil {
		return false
	}
	return list.OwnerID == userID || list.IsPublic
}

// CanWriteList reports whether userID may modify the list or its items.
// Only the owner may write; publicness grants read access, never write.
func CanWriteList(list *domain.List, userID string) bool {
	if list == nil {
		return false
	}
	return list.OwnerID == userID
}

// IsListOwner reports whether userID owns the list. Owner-only operations
// (patch, delete) use this rather than CanWriteList so the intent reads at
// the call site even though the rules currently coincide.
func IsListOwner(list *domain.List, userID string) bool {
	if list == nil {
		return false
	}
	return list.OwnerID == userID
}

// Owns reports whether a per-user record (a subscription or one of its
// item records) belongs to userID.
func Owns(recordUserID, userID string) bool {
	return recordUserID != "" && recordUserID == userID
}
