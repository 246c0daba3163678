package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeActivity_WorkedExample(t *testing.T) {
	t.Parallel()

	// Buyer pays 21.90, supply 17.51, seller funds a 6 yuan coupon.
	r, ok := ComputeActivity(ActivityInput{SupplyPrice: 17.51, TargetPrice: 21.90, CouponFee: 6})
	require.True(t, ok)

	assert.InDelta(t, 0.1314, r.PlatformFee, 1e-9)
	assert.InDelta(t, 4.2586, r.BaseProfit, 1e-9)
	assert.InDelta(t, -1.7414, r.FinalProfit, 1e-9)
}

func TestComputeActivity_ListingPriceFoldsCoupon(t *testing.T) {
	t.Parallel()

	// Target 17.8 with a 6 yuan coupon needs a 34.0 console price:
	// 34.0 × 0.7 − 6 = 17.8.
	r, ok := ComputeActivity(ActivityInput{SupplyPrice: 17.51, TargetPrice: 17.8, CouponFee: 6})
	require.True(t, ok)

	assert.InDelta(t, 34.0, r.ListingPrice, 1e-9)
	assert.InDelta(t, 17.8, r.VerifiedPrice, 1e-9)
	assert.InDelta(t, 17.8-17.51-17.8*0.006, r.BaseProfit, 1e-9)
}

func TestComputeActivity_RoundTrip(t *testing.T) {
	t.Parallel()

	// Solving for the listing price and replaying it forward must land
	// within the one-decimal granularity of the target.
	tests := []struct {
		target, coupon float64
	}{
		{17.8, 6},
		{21.9, 6},
		{9.9, 3},
		{45.0, 10},
		{13.37, 5},
	}

	for _, tt := range tests {
		r, ok := ComputeActivity(ActivityInput{SupplyPrice: 1, TargetPrice: tt.target, CouponFee: tt.coupon})
		require.True(t, ok)
		assert.InDelta(t, tt.target, r.VerifiedPrice, 0.1,
			"target %.2f coupon %.2f", tt.target, tt.coupon)
		assert.GreaterOrEqual(t, r.VerifiedPrice, RoundTenth(tt.target)-1e-9,
			"ceil rounding never undershoots the target")
	}
}

func TestComputeActivity_InsufficientInput(t *testing.T) {
	t.Parallel()

	_, ok := ComputeActivity(ActivityInput{TargetPrice: 17.8, CouponFee: 6})
	assert.False(t, ok)

	_, ok = ComputeActivity(ActivityInput{SupplyPrice: 17.51, CouponFee: 6})
	assert.False(t, ok)
}

func TestComputeActivity_ZeroCoupon(t *testing.T) {
	t.Parallel()

	r, ok := ComputeActivity(ActivityInput{SupplyPrice: 10, TargetPrice: 14})
	require.True(t, ok)
	assert.InDelta(t, CeilTenth(14/0.7), r.ListingPrice, 1e-9)
	assert.InDelta(t, r.BaseProfit, r.FinalProfit, 1e-9, "no coupon, no deduction")
}
