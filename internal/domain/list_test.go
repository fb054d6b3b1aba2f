package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListType_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		typ   ListType
		valid bool
	}{
		{"book", ListTypeBook, true},
		{"unknown", ListType("movie"), false},
		{"empty", ListType(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.typ.IsValid())
		})
	}
}

func TestNewList_Defaults(t *testing.T) {
	l := NewList("list-1", "user-1", "Summer Reading", ListTypeBook)

	assert.Equal(t, "user-1", l.OwnerID)
	assert.Equal(t, ListTypeBook, l.Type)
	assert.False(t, l.IsPublic)
	assert.NotNil(t, l.BookListItemIDs)
	assert.Empty(t, l.BookListItemIDs)
	assert.False(t, l.CreatedAt.IsZero())
}

func TestList_AddItem(t *testing.T) {
	l := NewList("list-1", "user-1", "Summer Reading", ListTypeBook)

	assert.True(t, l.AddItem("item-1"))
	assert.False(t, l.AddItem("item-1"), "duplicate add should be a no-op")
	assert.True(t, l.AddItem("item-2"))
	assert.Equal(t, []string{"item-1", "item-2"}, l.BookListItemIDs)
}

func TestList_RemoveItem(t *testing.T) {
	l := NewList("list-1", "user-1", "Summer Reading", ListTypeBook)
	l.AddItem("item-1")
	l.AddItem("item-2")
	l.AddItem("item-3")

	assert.True(t, l.RemoveItem("item-2"))
	assert.Equal(t, []string{"item-1", "item-3"}, l.BookListItemIDs)

	assert.False(t, l.RemoveItem("item-2"), "removing a missing id should report false")
	assert.False(t, l.ContainsItem("item-2"))
	assert.True(t, l.ContainsItem("item-3"))
}
