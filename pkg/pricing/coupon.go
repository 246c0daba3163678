package pricing

import "math"

// Exposed-coupon pricing parameters.
const (
	CouponPriceMultiplier = 2.0 // listing = expected × 200% ...
	CouponPriceAddition   = 1.0 // ... plus 1 yuan, rounded up
	NewUserDiscount       = 8.0 // platform-funded new-user deduction
)

// CouponInput holds the raw fields of the exposed-coupon calculator.
type CouponInput struct {
	SupplyPrice   float64 `json:"supply_price"`
	ExpectedPrice float64 `json:"expected_price"`
}

// CouponResult holds the derived exposed-coupon prices.
type CouponResult struct {
	ListingPrice float64 `json:"listing_price"` // console price, whole yuan
	SellerPrice  float64 `json:"seller_price"`  // what the seller sees: listing × 0.5
	CouponAmount float64 `json:"coupon_amount"` // seller-funded coupon
	NewUserPrice float64 `json:"new_user_price"`
	PlatformFee  float64 `json:"platform_fee"`
	Profit       float64 `json:"profit"`
	ProfitRate   float64 `json:"profit_rate"` // percent, 1 decimal
}

// ComputeCoupon derives the exposed-coupon pricing chain: an inflated
// listing price, the halved seller price, a coupon sized so the buyer pays
// the expected price, and the new-user price after the platform deduction.
// Returns ok=false when the supply or expected price is not positive.
func ComputeCoupon(in CouponInput) (CouponResult, bool) {
	supply := clamp(in.SupplyPrice)
	expected := clamp(in.ExpectedPrice)

	if supply <= 0 || expected <= 0 {
		return CouponResult{}, false
	}

	listing := math.Ceil(expected*CouponPriceMultiplier + CouponPriceAddition)
	seller := RoundCents(listing * 0.5)

	// One extra yuan keeps the coupon visibly larger than the expected price.
	coupon := seller - expected + 1
	newUser := math.Max(0.01, seller-coupon-NewUserDiscount)

	r := CouponResult{
		ListingPrice: listing,
		SellerPrice:  seller,
		CouponAmount: coupon,
		NewUserPrice: newUser,
		PlatformFee:  RoundCents(newUser * DouyinFeeRate),
	}
	r.Profit = RoundCents(newUser - supply - r.PlatformFee)
	r.ProfitRate = RoundTenth(ProfitRate(r.Profit, supply) * 100)

	return r, true
}
