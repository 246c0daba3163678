// Package store defines the history log abstraction for shop-pricer.
// Calculation sessions and API handlers depend on the Store interface,
// never on a concrete implementation.
//
// The log is append-only and capped: AppendRecord evicts the oldest
// records past the cap, and listing is always most-recent-first. Records
// are immutable once written; the only mutations are single-record delete
// and bulk clear.
package store

import (
	"context"
	"errors"

	domain "github.com/rwxiao/shop-pricer/pkg/types"
)

// DefaultCap is the maximum number of history records retained.
const DefaultCap = 50

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

// RecordQuery defines optional filters for history listing.
type RecordQuery struct {
	Type     *domain.CalcType
	Platform *domain.Platform
	Limit    int // default 50
	Offset   int
}

// Store defines all history log operations.
//
// The server and the CLI may share one underlying SQLite file; concurrent
// writers are last-write-wins at the record level. That is acceptable for
// a single-operator tool and deliberately not papered over here.
type Store interface {
	// AppendRecord assigns the record an id and timestamp, prepends it to
	// the log, and evicts the oldest entries beyond the cap.
	AppendRecord(ctx context.Context, r *domain.HistoryRecord) error
	ListRecords(ctx context.Context, q *RecordQuery) ([]domain.HistoryRecord, int, error)
	GetRecord(ctx context.Context, id string) (*domain.HistoryRecord, error)
	// DeleteRecord removes one record; deleting an absent id is a no-op.
	DeleteRecord(ctx context.Context, id string) error
	ClearRecords(ctx context.Context) error
	CountRecords(ctx context.Context) (int, error)
	// Prune re-enforces the cap; normally a no-op since AppendRecord
	// evicts, but it repairs a log grown by older writers.
	Prune(ctx context.Context) (evicted int, err error)

	Ping(ctx context.Context) error
	Close() error
}
