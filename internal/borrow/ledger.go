package borrow

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"bookcatalog/internal/book"
)

// Ledger serializes every borrow and return behind one lock. The event append
// and the holder/holdings update for a transition happen inside the same
// critical section, so readers never see one without the other.
type Ledger struct {
	mu       sync.RWMutex
	catalog  Catalog
	log      EventLog
	events   []Event
	holders  map[int]string
	holdings map[string]map[int]struct{}

	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// NewLedger rebuilds ledger state by replaying everything in log. A nil log
// means an in-memory log.
func NewLedger(ctx context.Context, catalog Catalog, log EventLog, opts ...Option) (*Ledger, error) {
	if log == nil {
		log = NewMemoryLog()
	}
	l := &Ledger{
		catalog:  catalog,
		log:      log,
		holders:  make(map[int]string),
		holdings: make(map[string]map[int]struct{}),
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}

	history, err := log.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load borrow events: %w", err)
	}
	if _, err := Replay(history); err != nil {
		return nil, fmt.Errorf("replay borrow events: %w", err)
	}
	for _, ev := range history {
		l.apply(ev)
	}
	l.logger.Debug("borrow ledger replayed", "events", len(history), "active_loans", len(l.holders))
	return l, nil
}

// apply records ev and updates the holder mapping and holdings index together.
// Caller holds l.mu for writing.
func (l *Ledger) apply(ev Event) {
	l.events = append(l.events, ev)
	switch ev.Action {
	case ActionBorrow:
		l.holders[ev.BookID] = ev.UserID
		key := userKey(ev.UserID)
		set, ok := l.holdings[key]
		if !ok {
			set = make(map[int]struct{})
			l.holdings[key] = set
		}
		set[ev.BookID] = struct{}{}
	case ActionReturn:
		holder := l.holders[ev.BookID]
		delete(l.holders, ev.BookID)
		key := userKey(holder)
		delete(l.holdings[key], ev.BookID)
		if len(l.holdings[key]) == 0 {
			delete(l.holdings, key)
		}
	}
}

// commit appends ev to the durable log and then applies it. It runs under the
// write lock, so with a PostgresLog every reader waits for the insert round
// trip. If the insert commits but ctx expires before the reply, ev is not
// applied in memory while the log has it; the next NewLedger replay picks it up.
func (l *Ledger) commit(ctx context.Context, ev Event) error {
	if err := l.log.Append(ctx, ev); err != nil {
		return fmt.Errorf("append %s event: %w", strings.ToLower(string(ev.Action)), err)
	}
	l.apply(ev)
	return nil
}

// Borrow moves bookID from available to held by userID.
func (l *Ledger) Borrow(ctx context.Context, userID string, bookID int) (Event, error) {
	if strings.TrimSpace(userID) == "" {
		return Event{}, ErrMissingUser
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.catalog.Exists(bookID) {
		return Event{}, ErrBookNotFound
	}
	if _, held := l.holders[bookID]; held {
		return Event{}, ErrAlreadyBorrowed
	}

	ev := Event{
		BookID:     bookID,
		UserID:     userID,
		Action:     ActionBorrow,
		OccurredAt: l.now().UTC(),
	}
	if err := l.commit(ctx, ev); err != nil {
		return Event{}, err
	}
	l.logger.Info("book borrowed", "book_id", bookID, "user_id", userID)
	return ev, nil
}

// Return releases bookID. Only the current holder may return it. The event is
// attributed to the holder as recorded at borrow time.
func (l *Ledger) Return(ctx context.Context, userID string, bookID int) (Event, error) {
	if strings.TrimSpace(userID) == "" {
		return Event{}, ErrMissingUser
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.catalog.Exists(bookID) {
		return Event{}, ErrBookNotFound
	}
	holder, held := l.holders[bookID]
	if !held {
		return Event{}, ErrNotBorrowed
	}
	if !strings.EqualFold(holder, userID) {
		return Event{}, ErrNotBorrower
	}

	ev := Event{
		BookID:     bookID,
		UserID:     holder,
		Action:     ActionReturn,
		OccurredAt: l.now().UTC(),
	}
	if err := l.commit(ctx, ev); err != nil {
		return Event{}, err
	}
	l.logger.Info("book returned", "book_id", bookID, "user_id", holder)
	return ev, nil
}

func (l *Ledger) history(match func(Event) bool) []Event {
	l.mu.RLock()
	out := make([]Event, 0)
	for _, ev := range l.events {
		if match(ev) {
			out = append(out, ev)
		}
	}
	l.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b Event) int {
		return a.OccurredAt.Compare(b.OccurredAt)
	})
	return out
}

func (l *Ledger) HistoryForBook(bookID int) []Event {
	return l.history(func(ev Event) bool { return ev.BookID == bookID })
}

func (l *Ledger) HistoryForUser(userID string) []Event {
	return l.history(func(ev Event) bool { return strings.EqualFold(ev.UserID, userID) })
}

// CurrentlyHeldBy resolves the user's active loans through the catalog, drops
// books that no longer exist and sorts by title.
func (l *Ledger) CurrentlyHeldBy(userID string) []book.Book {
	l.mu.RLock()
	ids := make([]int, 0, len(l.holdings[userKey(userID)]))
	for id := range l.holdings[userKey(userID)] {
		ids = append(ids, id)
	}
	l.mu.RUnlock()

	books := make([]book.Book, 0, len(ids))
	for _, id := range ids {
		if b, ok := l.catalog.Get(id); ok {
			books = append(books, b)
		}
	}
	slices.SortFunc(books, byTitle)
	return books
}

func byTitle(a, b book.Book) int {
	if c := cmp.Compare(a.Title, b.Title); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Holder reports who currently holds bookID.
func (l *Ledger) Holder(bookID int) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	holder, ok := l.holders[bookID]
	return holder, ok
}

// Events returns a copy of the full log in append order.
func (l *Ledger) Events() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.events)
}

// Holders returns a copy of the current-holder mapping.
func (l *Ledger) Holders() map[int]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[int]string, len(l.holders))
	for id, u := range l.holders {
		out[id] = u
	}
	return out
}
