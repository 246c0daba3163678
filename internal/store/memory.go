package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/rwxiao/shop-pricer/pkg/types"
)

// MemoryStore implements Store in memory with the same cap and ordering
// semantics as the SQLite store. It backs tests and the CLI's offline mode;
// nothing survives the process.
type MemoryStore struct {
	mu      sync.RWMutex
	records []domain.HistoryRecord // most-recent-first
	cap     int
}

// NewMemoryStore creates an empty in-memory history log.
func NewMemoryStore(cap int) *MemoryStore {
	if cap <= 0 {
		cap = DefaultCap
	}
	return &MemoryStore{cap: cap}
}

// AppendRecord prepends the record and evicts past the cap.
func (s *MemoryStore) AppendRecord(_ context.Context, r *domain.HistoryRecord) error {
	r.ID = uuid.NewString()
	r.Timestamp = time.Now().UTC()
	if r.Platform == "" {
		r.Platform = domain.PlatformFor(r.Type)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append([]domain.HistoryRecord{*r}, s.records...)
	if len(s.records) > s.cap {
		s.records = s.records[:s.cap]
	}
	return nil
}

// ListRecords returns a filtered page of records, most-recent-first.
func (s *MemoryStore) ListRecords(_ context.Context, q *RecordQuery) ([]domain.HistoryRecord, int, error) {
	if q == nil {
		q = &RecordQuery{}
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultCap
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.HistoryRecord
	for _, r := range s.records {
		if q.Type != nil && r.Type != *q.Type {
			continue
		}
		if q.Platform != nil && r.Platform != *q.Platform {
			continue
		}
		matched = append(matched, r)
	}

	total := len(matched)
	if q.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[q.Offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}

	out := make([]domain.HistoryRecord, len(matched))
	copy(out, matched)
	return out, total, nil
}

// GetRecord returns one record by id, or ErrNotFound.
func (s *MemoryStore) GetRecord(_ context.Context, id string) (*domain.HistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.records {
		if s.records[i].ID == id {
			r := s.records[i]
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

// DeleteRecord removes one record; absent ids are a no-op.
func (s *MemoryStore) DeleteRecord(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return nil
}

// ClearRecords empties the log.
func (s *MemoryStore) ClearRecords(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	return nil
}

// CountRecords returns the current log size.
func (s *MemoryStore) CountRecords(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records), nil
}

// Prune re-enforces the cap.
func (s *MemoryStore) Prune(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) <= s.cap {
		return 0, nil
	}
	evicted := len(s.records) - s.cap
	s.records = s.records[:s.cap]
	return evicted, nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
