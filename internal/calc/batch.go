package calc

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/rwxiao/shop-pricer/internal/batch"
	"github.com/rwxiao/shop-pricer/pkg/pricing"
	domain "github.com/rwxiao/shop-pricer/pkg/types"
)

// ErrNothingToSave is returned when no batch row has a sell price yet.
var ErrNothingToSave = errors.New("no rows with a sell price to save")

// BatchSession is the reactive state of one batch pricing pass: the pasted
// vendor text, the shared single-buy addition, and the parsed rows. Saving
// is explicit here, not debounced; a batch snapshot is taken when the
// operator asks for it.
type BatchSession struct {
	saver RecordSaver
	log   *slog.Logger

	mu       sync.Mutex
	text     string
	addition float64
	rows     []domain.ProductRow
}

// NewBatchSession creates an empty batch session.
func NewBatchSession(saver RecordSaver, opts ...SessionOption) *BatchSession {
	c := newSessionConfig(opts)
	return &BatchSession{
		saver: saver,
		log:   c.log,
	}
}

// Parse replaces the session rows with the rows parsed from text and
// returns the row count. Row IDs are regenerated; edits made to previous
// rows are discarded.
func (s *BatchSession) Parse(text string) int {
	rows := batch.Parse(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.text = text
	s.rows = rows
	return len(rows)
}

// Rows returns a copy of the current rows.
func (s *BatchSession) Rows() []domain.ProductRow {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ProductRow, len(s.rows))
	copy(out, s.rows)
	return out
}

// SetAddition updates the shared single-buy addition and recomputes every
// row that has a sell price.
func (s *BatchSession) SetAddition(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.addition = v
	for i := range s.rows {
		s.recomputeRow(&s.rows[i])
	}
}

// SetSellPrice sets the sell price of one row and recomputes it. Returns
// false when no row has the given id.
func (s *BatchSession) SetSellPrice(id string, price float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rows {
		if s.rows[i].ID != id {
			continue
		}
		s.rows[i].SellPrice = price
		s.recomputeRow(&s.rows[i])
		return true
	}
	return false
}

// Save snapshots the rows that have a sell price into one history record.
// Rows without a sell price are left out of the snapshot.
func (s *BatchSession) Save(ctx context.Context) (*domain.HistoryRecord, error) {
	s.mu.Lock()
	var products []domain.BatchProduct
	for _, row := range s.rows {
		if row.SellPrice <= 0 {
			continue
		}
		products = append(products, domain.BatchProduct{
			Spec:        row.Spec,
			SupplyPrice: row.SupplyPrice,
			SellPrice:   row.SellPrice,
		})
	}
	addition := s.addition
	s.mu.Unlock()

	if len(products) == 0 {
		return nil, ErrNothingToSave
	}

	r := &domain.HistoryRecord{
		Type:          domain.CalcBatch,
		PriceAddition: addition,
		ProductCount:  len(products),
		Products:      products,
	}
	if err := s.saver.AppendRecord(ctx, r); err != nil {
		return nil, err
	}

	s.log.Info("batch snapshot saved", "products", len(products))
	return r, nil
}

// Callers hold s.mu.
func (s *BatchSession) recomputeRow(row *domain.ProductRow) {
	res, ok := pricing.ComputeBatchRow(row.SupplyPrice, row.SellPrice, s.addition)
	if !ok {
		row.GroupPrice = 0
		row.DiscountedSellPrice = 0
		row.DiscountedGroupPrice = 0
		row.Profit = 0
		row.DiscountedProfit = 0
		return
	}

	row.GroupPrice = res.GroupPrice
	row.DiscountedSellPrice = res.DiscountedSellPrice
	row.DiscountedGroupPrice = res.DiscountedGroupPrice
	row.Profit = res.Profit
	row.DiscountedProfit = res.DiscountedProfit
}
