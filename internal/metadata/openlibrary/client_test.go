package openlibrary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dosadiResponse = `{
  "ISBN:9780765342539": {
    "bib_key": "ISBN:9780765342539",
    "thumbnail_url": "https://covers.openlibrary.org/b/id/240726-S.jpg",
    "details": {
      "title": "The Dosadi experiment",
      "number_of_pages": 304,
      "publish_date": "2002",
      "subjects": ["Science fiction", "Fiction"],
      "authors": [{"key": "/authors/OL25118A", "name": "Frank Herbert"}],
      "isbn_10": ["0765342537"],
      "isbn_13": ["9780765342539"],
      "identifiers": {
        "goodreads": ["939616"],
        "amazon": ["0765342537"],
        "librarything": ["68476"]
      },
      "description": {"type": "/type/text", "value": "A Jorj X. McKie novel."}
    }
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(Config{BaseURL: server.URL}, nil)
	t.Cleanup(client.Close)

	return client, server
}

func TestGetBookByISBN(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/books", r.URL.Path)
		assert.Equal(t, "ISBN:9780765342539", r.URL.Query().Get("bibkeys"))
		assert.Equal(t, "details", r.URL.Query().Get("jscmd"))
		w.Write([]byte(dosadiResponse))
	})

	book, err := client.GetBookByISBN(context.Background(), "978-0-7653-4253-9")
	require.NoError(t, err)

	assert.Equal(t, "9780765342539", book.ISBN, "isbn_13 preferred over isbn_10")
	assert.Equal(t, "The Dosadi experiment", book.Title)
	assert.Equal(t, "A Jorj X. McKie novel.", book.Description)
	assert.Equal(t, []string{"Frank Herbert"}, book.Authors)
	assert.Equal(t, 304, book.Pages)
	assert.Equal(t, "2002", book.PublishDate)

	// Only goodreads and amazon identifiers survive.
	assert.Equal(t, map[string]string{
		"goodreads": "939616",
		"amazon":    "0765342537",
	}, book.Identifiers)
	assert.NotContains(t, book.Identifiers, "librarything")
}

func TestGetBookByISBN_UnknownISBN(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		// Open Library returns an empty object for unknown ISBNs.
		w.Write([]byte(`{}`))
	})

	_, err := client.GetBookByISBN(context.Background(), "9780765342539")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetBookByISBN_InvalidISBN(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request should be made for a malformed ISBN")
	})

	_, err := client.GetBookByISBN(context.Background(), "not-an-isbn")
	assert.ErrorIs(t, err, ErrInvalidISBN)
}

func TestGetBookByISBN_ServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetBookByISBN(context.Background(), "9780765342539")
	assert.ErrorIs(t, err, ErrServer)
}

func TestNormalizeISBN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"978-0-7653-4253-9", "9780765342539"},
		{"0 7653 4253 7", "0765342537"},
		{"043942089x", "043942089X"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeISBN(tt.in))
	}
}

func TestValidateISBN(t *testing.T) {
	assert.True(t, ValidateISBN("9780765342539"))
	assert.True(t, ValidateISBN("0765342537"))
	assert.True(t, ValidateISBN("043942089X"))
	assert.False(t, ValidateISBN("12345"))
	assert.False(t, ValidateISBN(""))
}
