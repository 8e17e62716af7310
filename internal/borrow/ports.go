package borrow

import (
	"context"

	"bookcatalog/internal/book"
)

// Catalog is the read-only view of the book catalog the ledger depends on.
type Catalog interface {
	Exists(id int) bool
	Get(id int) (book.Book, bool)
}

// EventLog is the durable home of the ledger's history. Load returns events in
// append order.
type EventLog interface {
	Append(ctx context.Context, ev Event) error
	Load(ctx context.Context) ([]Event, error)
}
