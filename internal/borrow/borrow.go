// Package borrow implements the single-copy borrow ledger: who holds each book
// right now, and the append-only history of borrow and return events.
package borrow

import (
	"fmt"
	"strings"
	"time"

	"bookcatalog/internal/apperr"
)

type Action string

const (
	ActionBorrow Action = "Borrow"
	ActionReturn Action = "Return"
)

// Event is one successful state transition. Events are never edited or removed.
type Event struct {
	BookID     int       `json:"book_id"`
	UserID     string    `json:"user_id"`
	Action     Action    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

var (
	ErrMissingUser     = apperr.InvalidState("user id is required")
	ErrBookNotFound    = apperr.NotFound("book not found")
	ErrAlreadyBorrowed = apperr.Conflict("book is already borrowed")
	ErrNotBorrowed     = apperr.Conflict("book is not currently borrowed")
	ErrNotBorrower     = apperr.Forbidden("only the borrower can return this book")
)

// userKey normalizes an identity for map lookups.
func userKey(userID string) string {
	return strings.ToLower(userID)
}

// Replay folds an ordered event log into the current-holder mapping. It rejects
// logs that could not have been produced by the ledger.
func Replay(events []Event) (map[int]string, error) {
	holders := make(map[int]string)
	for i, ev := range events {
		switch ev.Action {
		case ActionBorrow:
			if holder, held := holders[ev.BookID]; held {
				return nil, apperr.InvalidState(fmt.Sprintf("event %d: book %d borrowed while held by %q", i, ev.BookID, holder))
			}
			holders[ev.BookID] = ev.UserID
		case ActionReturn:
			holder, held := holders[ev.BookID]
			if !held {
				return nil, apperr.InvalidState(fmt.Sprintf("event %d: book %d returned while not borrowed", i, ev.BookID))
			}
			if !strings.EqualFold(holder, ev.UserID) {
				return nil, apperr.InvalidState(fmt.Sprintf("event %d: book %d returned by %q but held by %q", i, ev.BookID, ev.UserID, holder))
			}
			delete(holders, ev.BookID)
		default:
			return nil, apperr.InvalidState(fmt.Sprintf("event %d: unknown action %q", i, ev.Action))
		}
	}
	return holders, nil
}
