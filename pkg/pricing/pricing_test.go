package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfit_Identity(t *testing.T) {
	t.Parallel()

	// profit(price, cost) = price - cost - price*f, exactly.
	cases := []struct {
		price, cost float64
	}{
		{21.90, 17.51},
		{100, 0},
		{0, 0},
		{9.99, 9.99},
		{55.5, 12.34},
	}

	for _, tc := range cases {
		want := tc.price - tc.cost - tc.price*PDDFeeRate
		assert.InDelta(t, want, Profit(tc.price, tc.cost, PDDFeeRate), 1e-9)
	}
}

func TestProfit_ClampsNegativeInputs(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.0, Profit(-5, -3, PDDFeeRate), 1e-9)
	assert.InDelta(t, Profit(10, 0, PDDFeeRate), Profit(10, -1, PDDFeeRate), 1e-9)
}

func TestProfitRate_ZeroCost(t *testing.T) {
	t.Parallel()

	// cost = 0 must suppress the rate, not produce Inf or NaN.
	assert.Equal(t, 0.0, ProfitRate(4.25, 0))
	assert.Equal(t, 0.0, ProfitRate(4.25, -1))
	assert.InDelta(t, 0.5, ProfitRate(5, 10), 1e-9)
}

func TestRounding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"round cents down", RoundCents(1.234), 1.23},
		{"round cents up", RoundCents(1.235), 1.24},
		{"round tenth", RoundTenth(17.84), 17.8},
		{"ceil cents", CeilCents(1.231), 1.24},
		{"ceil tenth", CeilTenth(33.91), 34.0},
		{"ceil tenth exact", CeilTenth(34.0), 34.0},
		{"round yuan", RoundYuan(12.5), 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, tt.got, 1e-9)
		})
	}
}
