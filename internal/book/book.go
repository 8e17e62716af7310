package book

import (
	"strings"

	"bookcatalog/internal/apperr"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = apperr.NotFound("book not found")

// Book represents a catalog entry.
type Book struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Genre         string  `json:"genre"`
	PublishedYear int     `json:"published_year"`
	Price         float64 `json:"price"`
}

// Query defines filters and pagination for listing books.
type Query struct {
	Author   string
	Genre    string
	Year     *int
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

func (q Query) normalized() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

func (q Query) matches(b Book) bool {
	if a := strings.TrimSpace(q.Author); a != "" && !strings.EqualFold(b.Author, a) {
		return false
	}
	if g := strings.TrimSpace(q.Genre); g != "" && !strings.EqualFold(b.Genre, g) {
		return false
	}
	if q.Year != nil && b.PublishedYear != *q.Year {
		return false
	}
	return true
}

// Validate enforces the minimum a stored book must satisfy.
func Validate(b Book) error {
	if strings.TrimSpace(b.Title) == "" ||
		strings.TrimSpace(b.Author) == "" ||
		strings.TrimSpace(b.Genre) == "" ||
		b.PublishedYear <= 0 ||
		b.Price < 0 {
		return apperr.InvalidState("invalid book data")
	}
	return nil
}
