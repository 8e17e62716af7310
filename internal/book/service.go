package book

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"bookcatalog/internal/apperr"
)

// Service provides catalog business logic. It also serves as the catalog
// lookup used by the borrow ledger and the list store.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func byPrice(a, b Book) int {
	if c := cmp.Compare(a.Price, b.Price); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// List filters by author, genre and year, orders by price and returns one page
// plus the total number of matches.
func (s *Service) List(ctx context.Context, q Query) ([]Book, int, error) {
	q = q.normalized()

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]Book, 0, len(all))
	for _, b := range all {
		if q.matches(b) {
			matched = append(matched, b)
		}
	}
	slices.SortStableFunc(matched, byPrice)

	start := (q.Page - 1) * q.PageSize
	if start >= len(matched) {
		return []Book{}, len(matched), nil
	}
	end := min(start+q.PageSize, len(matched))
	return matched[start:end], len(matched), nil
}

// SearchByTitle does a case-insensitive substring match on title, ordered by price.
func (s *Service) SearchByTitle(ctx context.Context, keyword string) ([]Book, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, apperr.InvalidState("title query parameter is required")
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(keyword)
	var found []Book
	for _, b := range all {
		if strings.Contains(strings.ToLower(b.Title), needle) {
			found = append(found, b)
		}
	}
	slices.SortStableFunc(found, byPrice)
	return found, nil
}

func (s *Service) GetByID(ctx context.Context, id int) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates b and stores it under the next free id.
func (s *Service) Create(ctx context.Context, b Book) (Book, error) {
	b = trimmed(b)
	if err := Validate(b); err != nil {
		return Book{}, err
	}
	b.ID = 0
	return s.repo.Create(ctx, b)
}

func (s *Service) Update(ctx context.Context, id int, b Book) (Book, error) {
	b = trimmed(b)
	if err := Validate(b); err != nil {
		return Book{}, err
	}
	b.ID = id
	return s.repo.Update(ctx, b)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// Get returns the book with the given id as the catalog sees it right now.
func (s *Service) Get(id int) (Book, bool) {
	b, err := s.repo.GetByID(context.Background(), id)
	if err != nil {
		return Book{}, false
	}
	return b, true
}

func (s *Service) Exists(id int) bool {
	_, ok := s.Get(id)
	return ok
}

func trimmed(b Book) Book {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.Genre = strings.TrimSpace(b.Genre)
	return b
}
