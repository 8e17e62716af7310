// Package lists keeps per-user favorites and wishlist membership sets.
package lists

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"bookcatalog/internal/apperr"
	"bookcatalog/internal/book"
)

type Kind string

const (
	KindFavorites Kind = "favorites"
	KindWishlist  Kind = "wishlist"
)

// Catalog is the read-only view of the book catalog the store depends on.
type Catalog interface {
	Exists(id int) bool
	Get(id int) (book.Book, bool)
}

type membership map[string]map[int]struct{}

func (m membership) add(key string, id int) bool {
	set, ok := m[key]
	if !ok {
		set = make(map[int]struct{})
		m[key] = set
	}
	if _, dup := set[id]; dup {
		return false
	}
	set[id] = struct{}{}
	return true
}

func (m membership) remove(key string, id int) bool {
	set := m[key]
	if _, ok := set[id]; !ok {
		return false
	}
	delete(set, id)
	if len(set) == 0 {
		delete(m, key)
	}
	return true
}

func (m membership) has(key string, id int) bool {
	_, ok := m[key][id]
	return ok
}

// ErrMissingUser is reported by the HTTP layer for a blank user id. The Store
// itself treats a blank id as a member of nothing: mutations return false and
// reads return an empty list.
var ErrMissingUser = apperr.InvalidState("user id is required")

// Store guards both relations with one lock. User ids are compared
// case-insensitively.
type Store struct {
	mu      sync.RWMutex
	catalog Catalog
	lists   map[Kind]membership
	logger  *slog.Logger
}

func NewStore(catalog Catalog, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		catalog: catalog,
		lists: map[Kind]membership{
			KindFavorites: {},
			KindWishlist:  {},
		},
		logger: logger,
	}
}

func userKey(userID string) string {
	return strings.ToLower(userID)
}

func blank(userID string) bool {
	return strings.TrimSpace(userID) == ""
}

// add inserts bookID if the catalog knows it and it is not already a member.
func (s *Store) add(kind Kind, userID string, bookID int) bool {
	if blank(userID) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.catalog.Exists(bookID) {
		return false
	}
	if !s.lists[kind].add(userKey(userID), bookID) {
		return false
	}
	s.logger.Info("list entry added", "list", kind, "user_id", userID, "book_id", bookID)
	return true
}

func (s *Store) remove(kind Kind, userID string, bookID int) bool {
	if blank(userID) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lists[kind].remove(userKey(userID), bookID) {
		return false
	}
	s.logger.Info("list entry removed", "list", kind, "user_id", userID, "book_id", bookID)
	return true
}

// get resolves members through the catalog, drops stale ids and sorts by title.
func (s *Store) get(kind Kind, userID string) []book.Book {
	if blank(userID) {
		return []book.Book{}
	}
	s.mu.RLock()
	set := s.lists[kind][userKey(userID)]
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	books := make([]book.Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := s.catalog.Get(id); ok {
			books = append(books, b)
		}
	}
	slices.SortFunc(books, func(a, b book.Book) int {
		if c := cmp.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return books
}

func (s *Store) AddFavorite(userID string, bookID int) bool {
	return s.add(KindFavorites, userID, bookID)
}

func (s *Store) RemoveFavorite(userID string, bookID int) bool {
	return s.remove(KindFavorites, userID, bookID)
}

func (s *Store) GetFavorites(userID string) []book.Book {
	return s.get(KindFavorites, userID)
}

func (s *Store) AddToWishlist(userID string, bookID int) bool {
	return s.add(KindWishlist, userID, bookID)
}

func (s *Store) RemoveFromWishlist(userID string, bookID int) bool {
	return s.remove(KindWishlist, userID, bookID)
}

func (s *Store) GetWishlist(userID string) []book.Book {
	return s.get(KindWishlist, userID)
}

// MoveWishlistToFavorites transfers bookID in one step. It returns false when
// the book is not on the wishlist. Unlike the Add operations it does not consult
// the catalog; callers check existence first. Adding to favorites is idempotent.
func (s *Store) MoveWishlistToFavorites(userID string, bookID int) bool {
	if blank(userID) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := userKey(userID)
	if !s.lists[KindWishlist].remove(key, bookID) {
		return false
	}
	s.lists[KindFavorites].add(key, bookID)
	s.logger.Info("wishlist entry moved to favorites", "user_id", userID, "book_id", bookID)
	return true
}

// Contains reports raw membership, including ids the catalog no longer knows.
func (s *Store) Contains(kind Kind, userID string, bookID int) bool {
	if blank(userID) {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.lists[kind]
	if !ok {
		return false
	}
	return m.has(userKey(userID), bookID)
}
