package lists

import (
	"net/http"

	"bookcatalog/internal/book"
	"bookcatalog/internal/httpx"
)

type HTTPHandler struct {
	store   *Store
	catalog Catalog
}

func NewHTTPHandler(store *Store, catalog Catalog) *HTTPHandler {
	return &HTTPHandler{store: store, catalog: catalog}
}

// target resolves {userId} and {bookId}, enforcing self-or-admin access.
func (h *HTTPHandler) target(w http.ResponseWriter, r *http.Request, withBook bool) (string, int, bool) {
	userID := r.PathValue("userId")
	if blank(userID) {
		httpx.WriteError(w, r, ErrMissingUser)
		return "", 0, false
	}
	if !httpx.IsSelfOrAdmin(r, userID) {
		httpx.JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "You can only access your own lists unless you are an Admin.", nil)
		return "", 0, false
	}
	if !withBook {
		return userID, 0, true
	}
	bookID, ok := book.PathBookID(w, r, "bookId")
	if !ok {
		return "", 0, false
	}
	return userID, bookID, true
}

func (h *HTTPHandler) requireBook(w http.ResponseWriter, r *http.Request, bookID int) bool {
	if !h.catalog.Exists(bookID) {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		return false
	}
	return true
}

func (h *HTTPHandler) add(w http.ResponseWriter, r *http.Request, kind Kind) {
	userID, bookID, ok := h.target(w, r, true)
	if !ok || !h.requireBook(w, r, bookID) {
		return
	}

	var added bool
	if kind == KindFavorites {
		added = h.store.AddFavorite(userID, bookID)
	} else {
		added = h.store.AddToWishlist(userID, bookID)
	}
	if !added {
		httpx.JSONError(w, r, http.StatusConflict, "CONFLICT", "Book is already in "+string(kind), nil)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func (h *HTTPHandler) remove(w http.ResponseWriter, r *http.Request, kind Kind) {
	userID, bookID, ok := h.target(w, r, true)
	if !ok {
		return
	}

	var removed bool
	if kind == KindFavorites {
		removed = h.store.RemoveFavorite(userID, bookID)
	} else {
		removed = h.store.RemoveFromWishlist(userID, bookID)
	}
	if !removed {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not in "+string(kind), nil)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// AddFavorite handles POST /api/users/{userId}/favorites/{bookId}
func (h *HTTPHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	h.add(w, r, KindFavorites)
}

// RemoveFavorite handles DELETE /api/users/{userId}/favorites/{bookId}
func (h *HTTPHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, KindFavorites)
}

// GetFavorites handles GET /api/users/{userId}/favorites
func (h *HTTPHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.target(w, r, false)
	if !ok {
		return
	}
	httpx.JSONSuccess(w, r, h.store.GetFavorites(userID), nil)
}

// AddToWishlist handles POST /api/users/{userId}/wishlist/{bookId}
func (h *HTTPHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	h.add(w, r, KindWishlist)
}

// RemoveFromWishlist handles DELETE /api/users/{userId}/wishlist/{bookId}
func (h *HTTPHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, KindWishlist)
}

// GetWishlist handles GET /api/users/{userId}/wishlist
func (h *HTTPHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.target(w, r, false)
	if !ok {
		return
	}
	httpx.JSONSuccess(w, r, h.store.GetWishlist(userID), nil)
}

// MoveToFavorites handles POST /api/users/{userId}/wishlist/{bookId}/move-to-favorites
func (h *HTTPHandler) MoveToFavorites(w http.ResponseWriter, r *http.Request) {
	userID, bookID, ok := h.target(w, r, true)
	if !ok || !h.requireBook(w, r, bookID) {
		return
	}

	if !h.store.MoveWishlistToFavorites(userID, bookID) {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not in wishlist", nil)
		return
	}
	httpx.JSONSuccessNoContent(w)
}
