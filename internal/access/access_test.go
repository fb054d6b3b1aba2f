package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shelflistapp/shelflist-server/internal/domain"
)

func TestCanReadList(t *testing.T) {
	tests := []struct {
		name   string
		list   *domain.List
		userID string
		want   bool
	}{
		{"owner reads private list", &domain.List{OwnerID: "u1"}, "u1", true},
		{"stranger denied private list", &domain.List{OwnerID: "u1"}, "u2", false},
		{"stranger reads public list", &domain.List{OwnerID: "u1", IsPublic: true}, "u2", true},
		{"nil list", nil, "u1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanReadList(tt.list, tt.userID))
		})
	}
}

func TestCanWriteList_PublicDoesNotGrantWrite(t *testing.T) {
	list := &domain.List{OwnerID: "u1", IsPublic: true}

	assert.True(t, CanWriteList(list, "u1"))
	assert.False(t, CanWriteList(list, "u2"))
	assert.False(t, CanWriteList(nil, "u1"))
}

func TestIsListOwner(t *testing.T) {
	list := &domain.List{OwnerID: "u1", IsPublic: true}

	assert.True(t, IsListOwner(list, "u1"))
	assert.False(t, IsListOwner(list, "u2"))
}

func TestOwns(t *testing.T) {
	assert.True(t, Owns("u1", "u1"))
	assert.False(t, Owns("u1", "u2"))
	assert.False(t, Owns("", ""), "empty ids never match")
}
