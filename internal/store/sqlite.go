package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	domain "github.com/rwxiao/shop-pricer/pkg/types"
)

// SQLiteStore implements Store on a local SQLite file. The record snapshot
// is stored as a JSON payload column so older records with missing fields
// stay parseable when the snapshot grows new fields.
type SQLiteStore struct {
	db  *sql.DB
	cap int
}

// NewSQLiteStore opens (or creates) the SQLite file at path, sets the
// pragmas the single-writer workload needs, and applies pending migrations.
func NewSQLiteStore(ctx context.Context, path string, cap int) (*SQLiteStore, error) {
	if cap <= 0 {
		cap = DefaultCap
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		PRAGMA journal_mode = WAL;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting sqlite pragmas: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &SQLiteStore{db: db, cap: cap}, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database file is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// AppendRecord inserts the record with a fresh id and timestamp, then
// evicts the oldest rows beyond the cap in the same transaction.
func (s *SQLiteStore) AppendRecord(ctx context.Context, r *domain.HistoryRecord) error {
	r.ID = uuid.NewString()
	r.Timestamp = time.Now().UTC()
	if r.Platform == "" {
		r.Platform = domain.PlatformFor(r.Type)
	}

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO history_records (id, created_at, calc_type, platform, payload)
		VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Timestamp, string(r.Type), string(r.Platform), string(payload),
	); err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM history_records WHERE id NOT IN (
			SELECT id FROM history_records ORDER BY rowid DESC LIMIT ?
		)`, s.cap,
	); err != nil {
		return fmt.Errorf("evicting old records: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing record: %w", err)
	}
	return nil
}

// ListRecords returns records most-recent-first with optional type and
// platform filters, plus the total count matching the filters.
func (s *SQLiteStore) ListRecords(ctx context.Context, q *RecordQuery) ([]domain.HistoryRecord, int, error) {
	if q == nil {
		q = &RecordQuery{}
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultCap
	}

	where, args := buildRecordFilter(q)

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM history_records"+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting records: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT payload FROM history_records"+where+
			" ORDER BY rowid DESC LIMIT ? OFFSET ?",
		append(args, limit, q.Offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, 0, fmt.Errorf("scanning record: %w", err)
		}

		var r domain.HistoryRecord
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, 0, fmt.Errorf("unmarshaling record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating records: %w", err)
	}

	return records, total, nil
}

// GetRecord returns one record by id, or ErrNotFound.
func (s *SQLiteStore) GetRecord(ctx context.Context, id string) (*domain.HistoryRecord, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM history_records WHERE id = ?", id,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying record: %w", err)
	}

	var r domain.HistoryRecord
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, fmt.Errorf("unmarshaling record: %w", err)
	}
	return &r, nil
}

// DeleteRecord removes one record; absent ids are a no-op.
func (s *SQLiteStore) DeleteRecord(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM history_records WHERE id = ?", id,
	); err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	return nil
}

// ClearRecords empties the log.
func (s *SQLiteStore) ClearRecords(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM history_records"); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}
	return nil
}

// CountRecords returns the current log size.
func (s *SQLiteStore) CountRecords(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM history_records",
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// Prune deletes rows beyond the cap, oldest first.
func (s *SQLiteStore) Prune(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM history_records WHERE id NOT IN (
			SELECT id FROM history_records ORDER BY rowid DESC LIMIT ?
		)`, s.cap,
	)
	if err != nil {
		return 0, fmt.Errorf("pruning records: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned rows: %w", err)
	}
	return int(n), nil
}

func buildRecordFilter(q *RecordQuery) (where string, args []any) {
	var clauses []string
	if q.Type != nil {
		clauses = append(clauses, "calc_type = ?")
		args = append(args, string(*q.Type))
	}
	if q.Platform != nil {
		clauses = append(clauses, "platform = ?")
		args = append(args, string(*q.Platform))
	}
	if len(clauses) == 0 {
		return "", nil
	}

	where = " WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		where += " AND " + c
	}
	return where, args
}
