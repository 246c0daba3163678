package pricing

// ActivityInput holds the raw fields of the 7%-off activity calculator.
// TargetPrice is the take-home price the buyer should end up paying after
// the discount and the seller-funded coupon.
type ActivityInput struct {
	SupplyPrice float64 `json:"supply_price"`
	TargetPrice float64 `json:"target_price"`
	CouponFee   float64 `json:"coupon_fee"`
}

// ActivityResult holds the derived activity prices.
//
// ListingPrice folds the coupon fee into the console price so the buyer
// lands on the target after discount and coupon; the one-decimal rounding
// is what the activity console accepts. An earlier rule that priced from
// the target alone (cent granularity) and deducted the coupon only from
// profit is superseded by this one.
type ActivityResult struct {
	ListingPrice  float64 `json:"listing_price"`  // console original price, 1 decimal
	VerifiedPrice float64 `json:"verified_price"` // forward check: listing after discount and coupon
	PlatformFee   float64 `json:"platform_fee"`
	BaseProfit    float64 `json:"base_profit"`  // before the coupon cost
	FinalProfit   float64 `json:"final_profit"` // after the seller funds the coupon
	ProfitRate    float64 `json:"profit_rate"`  // base profit over supply price
}

// ComputeActivity solves for the console price that reproduces the target
// take-home price under the 7%-off activity, then verifies it forward.
// Returns ok=false when the supply or target price is not positive.
func ComputeActivity(in ActivityInput) (ActivityResult, bool) {
	supply := clamp(in.SupplyPrice)
	target := clamp(in.TargetPrice)
	coupon := clamp(in.CouponFee)

	if supply <= 0 || target <= 0 {
		return ActivityResult{}, false
	}

	listing := CeilTenth((target + coupon) / ActivityDiscountRate)

	r := ActivityResult{
		ListingPrice:  listing,
		VerifiedPrice: RoundTenth(listing*ActivityDiscountRate - coupon),
		PlatformFee:   Fee(target, PDDFeeRate),
	}
	r.BaseProfit = target - supply - r.PlatformFee
	r.FinalProfit = r.BaseProfit - coupon
	r.ProfitRate = ProfitRate(r.BaseProfit, supply)

	return r, true
}
