package calc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/rwxiao/shop-pricer/pkg/types"
)

const vendorText = "红色 加大款\n¥10\n5件可售\n0\n蓝色 常规款\n¥20"

func TestBatchSessionParse(t *testing.T) {
	t.Parallel()

	s := NewBatchSession(newRecordingSaver())

	n := s.Parse(vendorText)
	assert.Equal(t, 2, n)

	rows := s.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "红色 加大款", rows[0].Spec)
	assert.InDelta(t, 10.0, rows[0].SupplyPrice, 1e-9)
	assert.Equal(t, "蓝色 常规款", rows[1].Spec)
	assert.InDelta(t, 20.0, rows[1].SupplyPrice, 1e-9)

	// Re-parsing regenerates row identities.
	oldID := rows[0].ID
	s.Parse(vendorText)
	assert.NotEqual(t, oldID, s.Rows()[0].ID)
}

func TestBatchSessionSetSellPriceRecomputesRow(t *testing.T) {
	t.Parallel()

	s := NewBatchSession(newRecordingSaver())
	s.Parse(vendorText)
	s.SetAddition(6)

	rows := s.Rows()
	require.True(t, s.SetSellPrice(rows[0].ID, 15))

	got := s.Rows()[0]
	assert.InDelta(t, 21.0, got.GroupPrice, 1e-9)
	assert.InDelta(t, 21.0*0.99-6, got.DiscountedSellPrice, 1e-9)
	assert.InDelta(t, 15-10-15*0.006, got.Profit, 1e-9)

	// The other row is untouched.
	assert.Zero(t, s.Rows()[1].GroupPrice)

	assert.False(t, s.SetSellPrice("no-such-row", 9))
}

func TestBatchSessionSetAdditionRecomputesPricedRows(t *testing.T) {
	t.Parallel()

	s := NewBatchSession(newRecordingSaver())
	s.Parse(vendorText)

	rows := s.Rows()
	require.True(t, s.SetSellPrice(rows[0].ID, 15))
	require.True(t, s.SetSellPrice(rows[1].ID, 28))

	s.SetAddition(8)

	got := s.Rows()
	assert.InDelta(t, 23.0, got[0].GroupPrice, 1e-9)
	assert.InDelta(t, 36.0, got[1].GroupPrice, 1e-9)
}

func TestBatchSessionSave(t *testing.T) {
	t.Parallel()

	saver := newRecordingSaver()
	s := NewBatchSession(saver)
	s.Parse(vendorText)
	s.SetAddition(6)

	// Nothing priced yet.
	_, err := s.Save(context.Background())
	assert.ErrorIs(t, err, ErrNothingToSave)

	rows := s.Rows()
	require.True(t, s.SetSellPrice(rows[0].ID, 15))

	r, err := s.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.CalcBatch, r.Type)
	assert.Equal(t, 1, r.ProductCount)
	require.Len(t, r.Products, 1)
	assert.Equal(t, "红色 加大款", r.Products[0].Spec)
	assert.InDelta(t, 15.0, r.Products[0].SellPrice, 1e-9)
	assert.InDelta(t, 6.0, r.PriceAddition, 1e-9)

	require.Len(t, saver.all(), 1)
}
