package borrow

import (
	"net/http"

	"bookcatalog/internal/book"
	"bookcatalog/internal/httpx"
)

type HTTPHandler struct {
	ledger *Ledger
}

func NewHTTPHandler(ledger *Ledger) *HTTPHandler {
	return &HTTPHandler{ledger: ledger}
}

const forbiddenOtherUser = "You can only access your own records unless you are an Admin."

// Borrow handles POST /api/books/{id}/borrow. The acting user is the token subject.
func (h *HTTPHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	bookID, ok := book.PathBookID(w, r, "id")
	if !ok {
		return
	}

	ev, err := h.ledger.Borrow(r.Context(), userID, bookID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, ev, nil)
}

// Return handles POST /api/books/{id}/return
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return
	}
	bookID, ok := book.PathBookID(w, r, "id")
	if !ok {
		return
	}

	ev, err := h.ledger.Return(r.Context(), userID, bookID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, ev, nil)
}

// BookHistory handles GET /api/books/{id}/history
func (h *HTTPHandler) BookHistory(w http.ResponseWriter, r *http.Request) {
	bookID, ok := book.PathBookID(w, r, "id")
	if !ok {
		return
	}
	httpx.JSONSuccess(w, r, h.ledger.HistoryForBook(bookID), nil)
}

// UserBorrowed handles GET /api/users/{userId}/borrowed
func (h *HTTPHandler) UserBorrowed(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if !httpx.IsSelfOrAdmin(r, userID) {
		httpx.JSONError(w, r, http.StatusForbidden, "FORBIDDEN", forbiddenOtherUser, nil)
		return
	}
	httpx.JSONSuccess(w, r, h.ledger.CurrentlyHeldBy(userID), nil)
}

// UserHistory handles GET /api/users/{userId}/history
func (h *HTTPHandler) UserHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if !httpx.IsSelfOrAdmin(r, userID) {
		httpx.JSONError(w, r, http.StatusForbidden, "FORBIDDEN", forbiddenOtherUser, nil)
		return
	}
	httpx.JSONSuccess(w, r, h.ledger.HistoryForUser(userID), nil)
}
