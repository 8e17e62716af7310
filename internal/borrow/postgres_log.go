package borrow

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	jsoniter "github.com/json-iterator/go"
)

const (
	dialectPostgres   = "postgres"
	defaultEventTable = "borrow_events"

	colSequenceNumber = "sequence_number"
	colEventType      = "event_type"
	colOccurredAt     = "occurred_at"
	colPayload        = "payload"
)

var (
	ErrBuildingQueryFailed = errors.New("building borrow event query failed")
	ErrDecodingEventFailed = errors.New("decoding borrow event failed")
)

// DB is the subset of *pgxpool.Pool the log needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type eventPayload struct {
	BookID int    `json:"book_id"`
	UserID string `json:"user_id"`
}

// PostgresLog stores events in an append-only table ordered by a bigserial
// sequence number.
type PostgresLog struct {
	db      DB
	table   string
	timeout time.Duration
}

type PostgresOption func(*PostgresLog)

func WithTableName(name string) PostgresOption {
	return func(p *PostgresLog) { p.table = name }
}

func NewPostgresLog(db DB, timeout time.Duration, opts ...PostgresOption) *PostgresLog {
	p := &PostgresLog{db: db, table: defaultEventTable, timeout: timeout}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *PostgresLog) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, p.timeout)
}

func (p *PostgresLog) buildInsertQuery(ev Event) (string, []any, error) {
	payload, err := jsoniter.ConfigFastest.Marshal(eventPayload{BookID: ev.BookID, UserID: ev.UserID})
	if err != nil {
		return "", nil, errors.Join(ErrBuildingQueryFailed, err)
	}

	sql, args, err := goqu.Dialect(dialectPostgres).
		Insert(p.table).
		Prepared(true).
		Cols(colEventType, colOccurredAt, colPayload).
		Vals(goqu.Vals{string(ev.Action), ev.OccurredAt.UTC(), string(payload)}).
		ToSQL()
	if err != nil {
		return "", nil, errors.Join(ErrBuildingQueryFailed, err)
	}
	return sql, args, nil
}

func (p *PostgresLog) buildSelectQuery() (string, error) {
	sql, _, err := goqu.Dialect(dialectPostgres).
		From(p.table).
		Select(colEventType, colOccurredAt, colPayload).
		Order(goqu.I(colSequenceNumber).Asc()).
		ToSQL()
	if err != nil {
		return "", errors.Join(ErrBuildingQueryFailed, err)
	}
	return sql, nil
}

func (p *PostgresLog) Append(ctx context.Context, ev Event) error {
	sql, args, err := p.buildInsertQuery(ev)
	if err != nil {
		return err
	}

	timeoutCtx, cancel := p.withTimeout(ctx)
	defer cancel()
	_, err = p.db.Exec(timeoutCtx, sql, args...)
	return err
}

func (p *PostgresLog) Load(ctx context.Context) ([]Event, error) {
	sql, err := p.buildSelectQuery()
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := p.withTimeout(ctx)
	defer cancel()
	rows, err := p.db.Query(timeoutCtx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			eventType  string
			occurredAt time.Time
			payload    []byte
		)
		if err := rows.Scan(&eventType, &occurredAt, &payload); err != nil {
			return nil, err
		}
		ev, err := decodeEvent(eventType, occurredAt, payload)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func decodeEvent(eventType string, occurredAt time.Time, payload []byte) (Event, error) {
	var p eventPayload
	if err := jsoniter.ConfigFastest.Unmarshal(payload, &p); err != nil {
		return Event{}, errors.Join(ErrDecodingEventFailed, err)
	}
	action := Action(eventType)
	if action != ActionBorrow && action != ActionReturn {
		return Event{}, errors.Join(ErrDecodingEventFailed, errors.New("unknown event type "+eventType))
	}
	return Event{
		BookID:     p.BookID,
		UserID:     p.UserID,
		Action:     action,
		OccurredAt: occurredAt.UTC(),
	}, nil
}
