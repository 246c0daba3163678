package pricing

import "math"

// FlashInput holds the raw fields of the flash-sale coupon solver.
// DiscountRate is the storefront discount as a fraction (0.7 for 30% off).
type FlashInput struct {
	SupplyPrice   float64 `json:"supply_price"`
	OriginalPrice float64 `json:"original_price"`
	DiscountRate  float64 `json:"discount_rate"`
	TargetProfit  float64 `json:"target_profit,omitempty"`
	Coupon        float64 `json:"coupon,omitempty"` // manual coupon; overrides the solver
}

// FlashResult holds the derived flash-sale fields.
type FlashResult struct {
	ExposedPrice float64 `json:"exposed_price"` // original × discount
	Commission   float64 `json:"commission"`
	Coupon       float64 `json:"coupon"` // whole-yuan coupon
	Profit       float64 `json:"profit"`
	ProfitRate   float64 `json:"profit_rate"`
}

// SolveFlashCoupon sizes the whole-yuan coupon that leaves the target
// profit after the commission, then reports the profit actually achieved
// with that coupon. A manual coupon in the input bypasses the solver.
// Returns ok=false when supply, original price, or discount rate is not
// positive.
func SolveFlashCoupon(in FlashInput) (FlashResult, bool) {
	supply := clamp(in.SupplyPrice)
	original := clamp(in.OriginalPrice)
	discount := clamp(in.DiscountRate)

	if supply <= 0 || original <= 0 || discount <= 0 {
		return FlashResult{}, false
	}

	exposed := original * discount
	commission := exposed * DouyinFeeRate

	coupon := clamp(in.Coupon)
	if coupon == 0 {
		coupon = math.Round(math.Max(0, exposed-supply-commission-clamp(in.TargetProfit)))
	}

	r := FlashResult{
		ExposedPrice: exposed,
		Commission:   commission,
		Coupon:       coupon,
	}
	r.Profit = exposed - coupon - supply - commission
	r.ProfitRate = ProfitRate(r.Profit, supply)

	return r, true
}
