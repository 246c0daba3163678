// Package pricing implements the seller-side pricing formulas for the
// group-buy and short-video marketplaces. Every function is a total,
// deterministic function of its inputs: negative inputs are clamped to
// zero before use and nothing here panics or keeps hidden state.
//
// Rounding granularity is part of each formula's contract. The marketplace
// consoles accept cents for most prices but only one decimal place for the
// activity variant, so callers must not re-round the results.
package pricing

import "math"

// Platform transaction fee rates, as fractions of the traded price.
const (
	PDDFeeRate    = 0.006 // group-buy marketplace, 0.6%
	DouyinFeeRate = 0.02  // short-video marketplace, 2%
)

// Discount rates used by the marketplace promotions.
const (
	FlashDiscountRate    = 0.99 // everyday "flash" discount on the backend price
	ActivityDiscountRate = 0.7  // 7%-off activity discount
)

// Fee returns the platform transaction fee for a price at the given rate.
func Fee(price, rate float64) float64 {
	return clamp(price) * rate
}

// Profit returns price minus cost minus the platform fee on price.
func Profit(price, cost, rate float64) float64 {
	price = clamp(price)
	return price - clamp(cost) - Fee(price, rate)
}

// ProfitRate returns profit as a fraction of cost, or 0 when cost is not
// positive (a zero cost suppresses the rate instead of dividing by zero).
func ProfitRate(profit, cost float64) float64 {
	if cost <= 0 {
		return 0
	}
	return profit / cost
}

// RoundCents rounds to 2 decimal places (cent granularity).
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// RoundTenth rounds to 1 decimal place.
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// CeilCents rounds up to 2 decimal places.
func CeilCents(v float64) float64 {
	return math.Ceil(v*100) / 100
}

// CeilTenth rounds up to 1 decimal place.
func CeilTenth(v float64) float64 {
	return math.Ceil(v*10) / 10
}

// RoundYuan rounds to the nearest whole yuan.
func RoundYuan(v float64) float64 {
	return math.Round(v)
}

// clamp treats negative inputs as zero.
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
