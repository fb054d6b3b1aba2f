package openlibrary

import (
	"encoding/json/v2"
	"strings"
)

// Book is the metadata snapshot for one ISBN, already flattened from the
// Open Library response shape.
type Book struct {
	ISBN        string            // canonical ISBN, isbn_13 preferred over isbn_10
	Title       string
	Description string
	Authors     []string
	Subjects    []string
	Thumbnail   string
	PublishDate string
	Pages       int
	Identifiers map[string]string // goodreads and amazon only
}

// rawEntry is one value of the api/books response object, keyed by
// "ISBN:<isbn>". An unknown ISBN simply has no entry.
type rawEntry struct {
	BibKey       string     `json:"bib_key"`
	ThumbnailURL string     `json:"thumbnail_url"`
	Details      rawDetails `json:"details"`
}

type rawDetails struct {
	Title         string         `json:"title"`
	Description   flexibleString `json:"description"`
	NumberOfPages int            `json:"number_of_pages"`
	PublishDate   string         `json:"publish_date"`
	Subjects      []string       `json:"subjects"`
	Authors       []rawAuthor    `json:"authors"`
	ISBN10        []string       `json:"isbn_10"`
	ISBN13        []string       `json:"isbn_13"`
	Identifiers   rawIdentifiers `json:"identifiers"`
}

type rawAuthor struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type rawIdentifiers struct {
	Goodreads []string `json:"goodreads"`
	Amazon    []string `json:"amazon"`
}

// flexibleString absorbs Open Library's two description encodings: a bare
// string on some records, {"type": ..., "value": ...} on others.
type flexibleString string

func (f *flexibleString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexibleString(s)
		return nil
	}

	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*f = flexibleString(obj.Value)
	return nil
}

// toBook flattens a raw entry into a Book.
func (e *rawEntry) toBook() *Book {
	d := &e.Details

	book := &Book{
		Title:       d.Title,
		Description: string(d.Description),
		Thumbnail:   e.ThumbnailURL,
		PublishDate: d.PublishDate,
		Pages:       d.NumberOfPages,
		Subjects:    d.Subjects,
	}

	// Prefer isbn_13, fall back to isbn_10, then to the bib_key itself.
	switch {
	case len(d.ISBN13) > 0:
		book.ISBN = d.ISBN13[0]
	case len(d.ISBN10) > 0:
		book.ISBN = d.ISBN10[0]
	default:
		book.ISBN = strings.TrimPrefix(e.BibKey, "ISBN:")
	}

	for _, a := range d.Authors {
		if a.Name != "" {
			book.Authors = append(book.Authors, a.Name)
		}
	}

	// Keep only the identifiers we link out to.
	identifiers := make(map[string]string)
	if len(d.Identifiers.Goodreads) > 0 {
		identifiers["goodreads"] = d.Identifiers.Goodreads[0]
	}
	if len(d.Identifiers.Amazon) > 0 {
		identifiers["amazon"] = d.Identifiers.Amazon[0]
	}
	if len(identifiers) > 0 {
		book.Identifiers = identifiers
	}

	return book
}
