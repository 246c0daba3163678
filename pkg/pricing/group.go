package pricing

import "math"

// GroupInput holds the raw fields of the group-buy calculator.
// MarketMaxPrice is optional; zero disables the market-cap check.
type GroupInput struct {
	SupplyPrice    float64 `json:"supply_price"`
	GroupPrice     float64 `json:"group_price"`
	PriceAddition  float64 `json:"price_addition"`
	MarketMaxPrice float64 `json:"market_max_price,omitempty"`
}

// GroupResult holds every price derived from a GroupInput.
type GroupResult struct {
	BackendPrice      float64 `json:"backend_price"`
	SinglePrice       float64 `json:"single_price"`
	GroupPlatformFee  float64 `json:"group_platform_fee"`
	SinglePlatformFee float64 `json:"single_platform_fee"`
	GroupProfit       float64 `json:"group_profit"`
	SingleProfit      float64 `json:"single_profit"`
	DiscountPrice     float64 `json:"discount_price"`
	DiscountProfit    float64 `json:"discount_profit"`
	ProfitRate        float64 `json:"profit_rate"`
	ExceedsMarketCap  bool    `json:"exceeds_market_cap"`
}

// ComputeGroup derives the full group-buy result. It returns ok=false when
// the supply price or group price is not positive; in that case the result
// is zero and nothing should be shown or saved.
//
// The flash discount applies to the backend price and the addition is then
// subtracted again. Discounting the raw group price instead produces prices
// the console rejects, so the ordering here is a business rule.
func ComputeGroup(in GroupInput) (GroupResult, bool) {
	supply := clamp(in.SupplyPrice)
	group := clamp(in.GroupPrice)
	addition := clamp(in.PriceAddition)
	marketMax := clamp(in.MarketMaxPrice)

	if supply <= 0 || group <= 0 {
		return GroupResult{}, false
	}

	backend := group + addition
	single := backend + addition

	r := GroupResult{
		BackendPrice:      backend,
		SinglePrice:       single,
		GroupPlatformFee:  Fee(group, PDDFeeRate),
		SinglePlatformFee: Fee(single, PDDFeeRate),
		GroupProfit:       Profit(group, supply, PDDFeeRate),
		SingleProfit:      Profit(single, supply, PDDFeeRate),
		ExceedsMarketCap:  marketMax > 0 && group > marketMax,
	}

	r.DiscountPrice = backend*FlashDiscountRate - addition
	r.DiscountProfit = Profit(r.DiscountPrice, supply, PDDFeeRate)
	r.ProfitRate = ProfitRate(r.GroupProfit, supply)

	return r, true
}

// PriceForProfitRate solves for the group price that yields the target
// profit rate over the supply price, accounting for the platform fee.
// The result is rounded up to the cent. When a market cap is set and the
// solved price exceeds it, the cap is returned with exceeded=true.
func PriceForProfitRate(supply, rate, marketMax float64) (price float64, exceeded bool) {
	supply = clamp(supply)
	if supply <= 0 {
		return 0, false
	}

	price = CeilCents(supply * (1 + rate) / (1 - PDDFeeRate))
	if marketMax > 0 && price > marketMax {
		return marketMax, true
	}
	return price, false
}

// ProfitTier is one entry of the profit-rate ladder shown next to the
// group-buy calculator.
type ProfitTier struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Rate  float64 `json:"rate"`
}

// ProfitTiers returns the fixed profit-rate ladder, plus a "near market cap"
// tier derived from the cap when one is set. The near-market tier targets
// 95% of the cap and never drops below 18%.
func ProfitTiers(supply, marketMax float64) []ProfitTier {
	nearMarket := 0.20
	if marketMax > 0 && supply > 0 {
		nearMarket = marketMax * 0.95 * (1 - PDDFeeRate) / supply - 1
		nearMarket = math.Max(nearMarket, 0.18)
	}

	return []ProfitTier{
		{ID: "ultra_low", Label: "ultra low", Rate: 0.03},
		{ID: "very_low", Label: "very low", Rate: 0.05},
		{ID: "lower", Label: "lower", Rate: 0.07},
		{ID: "low", Label: "low", Rate: 0.09},
		{ID: "medium", Label: "medium", Rate: 0.12},
		{ID: "high", Label: "high", Rate: 0.14},
		{ID: "premium", Label: "premium", Rate: 0.17},
		{ID: "premium_plus", Label: "premium plus", Rate: 0.20},
		{ID: "market_max", Label: "near market cap", Rate: nearMarket},
	}
}

// ComputeBatchRow derives the per-row prices for one batch product.
// Returns ok=false when the sell price is not positive.
func ComputeBatchRow(supply, sell, addition float64) (BatchRowResult, bool) {
	supply = clamp(supply)
	sell = clamp(sell)
	addition = clamp(addition)

	if sell <= 0 {
		return BatchRowResult{}, false
	}

	group := sell + addition
	discountedSell := group*FlashDiscountRate - addition

	return BatchRowResult{
		GroupPrice:           group,
		DiscountedSellPrice:  discountedSell,
		DiscountedGroupPrice: group * FlashDiscountRate,
		Profit:               Profit(sell, supply, PDDFeeRate),
		DiscountedProfit:     Profit(discountedSell, supply, PDDFeeRate),
	}, true
}

// BatchRowResult holds the derived fields of one batch product row.
type BatchRowResult struct {
	GroupPrice           float64 `json:"group_price"`
	DiscountedSellPrice  float64 `json:"discounted_sell_price"`
	DiscountedGroupPrice float64 `json:"discounted_group_price"`
	Profit               float64 `json:"profit"`
	DiscountedProfit     float64 `json:"discounted_profit"`
}
