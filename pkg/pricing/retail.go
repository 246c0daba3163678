package pricing

// RetailMultiplier inflates the supply price into the console setting price.
const RetailMultiplier = 3.0

// RetailInput holds the raw fields of the new-user retail calculator.
type RetailInput struct {
	SupplyPrice float64 `json:"supply_price"`
	RetailPrice float64 `json:"retail_price"` // target shelf price for new users
}

// RetailResult holds the derived new-user retail fields.
type RetailResult struct {
	SettingPrice    float64 `json:"setting_price"`     // console price: supply × 3
	SellerViewPrice float64 `json:"seller_view_price"` // setting × 0.5, before the gift
	CouponAmount    float64 `json:"coupon_amount"`     // new-user gift sized to hit retail
	FinalPrice      float64 `json:"final_price"`
	Adjustment      float64 `json:"adjustment"` // final minus retail, 0 when matched
}

// ComputeRetail derives the console setting price and the new-user gift
// that lands first-time buyers on the target retail price.
// Returns ok=false when the supply or retail price is not positive.
func ComputeRetail(in RetailInput) (RetailResult, bool) {
	supply := clamp(in.SupplyPrice)
	retail := clamp(in.RetailPrice)

	if supply <= 0 || retail <= 0 {
		return RetailResult{}, false
	}

	setting := RoundCents(supply * RetailMultiplier)
	sellerView := RoundCents(setting * 0.5)
	coupon := RoundCents(sellerView - retail)
	final := RoundCents(sellerView - coupon)

	return RetailResult{
		SettingPrice:    setting,
		SellerViewPrice: sellerView,
		CouponAmount:    coupon,
		FinalPrice:      final,
		Adjustment:      RoundCents(final - retail),
	}, true
}

// RetailWithCoupon recomputes the final price for a manually chosen coupon
// against an already-known seller view price. The final price never goes
// below zero.
func RetailWithCoupon(sellerView, coupon, retail float64) RetailResult {
	final := RoundCents(clamp(sellerView) - clamp(coupon))
	if final < 0 {
		final = 0
	}

	return RetailResult{
		SellerViewPrice: clamp(sellerView),
		CouponAmount:    clamp(coupon),
		FinalPrice:      final,
		Adjustment:      RoundCents(final - clamp(retail)),
	}
}
