package pricing

import "math"

// Low-price entry parameters.
const (
	LowPriceMultiplier = 2.0  // listing = supply × 2 ...
	LowPriceAddition   = 10.0 // ... plus 10 yuan
	LowPriceMinProfit  = 1.0  // break-even cushion when sizing the coupon
	LimitedDiscount    = 0.7  // limited-time flash discount
)

// LowPriceInput holds the raw fields of the low-price entry calculator.
// TargetFinalPrice is only read in the backward mode.
type LowPriceInput struct {
	SupplyPrice      float64 `json:"supply_price"`
	TargetFinalPrice float64 `json:"target_final_price,omitempty"`
	FlashEnabled     bool    `json:"flash_enabled"`
}

// LowPriceResult holds the derived low-price entry fields.
type LowPriceResult struct {
	ListingPrice  float64 `json:"listing_price"`
	FlashPrice    float64 `json:"flash_price"` // listing after the limited-time discount
	NewUserCoupon float64 `json:"new_user_coupon"`
	FinalPrice    float64 `json:"final_price"`
	PlatformFee   float64 `json:"platform_fee"`
	Profit        float64 `json:"profit"`
	ProfitRate    float64 `json:"profit_rate"` // percent
}

// ComputeLowPrice derives the low-price chain forward from the supply price:
// an inflated listing, the optional limited-time discount, and a new-user
// coupon sized to leave one yuan of profit above break-even.
// Returns ok=false when the supply price is not positive.
func ComputeLowPrice(in LowPriceInput) (LowPriceResult, bool) {
	supply := clamp(in.SupplyPrice)
	if supply <= 0 {
		return LowPriceResult{}, false
	}

	listing := supply*LowPriceMultiplier + LowPriceAddition
	flash := RoundCents(listing * LimitedDiscount)

	base := listing
	if in.FlashEnabled {
		base = flash
	}

	breakEven := supply + supply*DouyinFeeRate + LowPriceMinProfit
	coupon := math.Round(math.Max(0, base-breakEven))
	final := math.Max(0.01, base-coupon)

	r := LowPriceResult{
		ListingPrice:  listing,
		FlashPrice:    flash,
		NewUserCoupon: coupon,
		FinalPrice:    final,
		PlatformFee:   Fee(final, DouyinFeeRate),
	}
	r.Profit = final - supply - r.PlatformFee
	r.ProfitRate = ProfitRate(r.Profit, supply) * 100

	return r, true
}

// SolveLowPrice works backward from a desired final price: fee and profit
// come straight from the target, and the listing is estimated so that the
// discounted price minus the coupon lands on the target.
// Returns ok=false when the supply price or target is not positive.
func SolveLowPrice(in LowPriceInput) (LowPriceResult, bool) {
	supply := clamp(in.SupplyPrice)
	target := clamp(in.TargetFinalPrice)
	if supply <= 0 || target <= 0 {
		return LowPriceResult{}, false
	}

	r := LowPriceResult{
		FinalPrice:  target,
		PlatformFee: Fee(target, DouyinFeeRate),
	}
	r.Profit = target - supply - r.PlatformFee
	r.ProfitRate = ProfitRate(r.Profit, supply) * 100

	if in.FlashEnabled {
		// With a zero coupon the listing satisfies listing × 0.7 = target.
		r.ListingPrice = math.Ceil(target / LimitedDiscount)
		r.FlashPrice = RoundCents(r.ListingPrice * LimitedDiscount)
		r.NewUserCoupon = math.Max(0, r.FlashPrice-target)
	} else {
		r.ListingPrice = math.Ceil(target)
		r.NewUserCoupon = math.Max(0, r.ListingPrice-target)
	}

	return r, true
}
