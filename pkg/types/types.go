// Package domain defines the core business types for shop-pricer.
package domain

import (
	"time"
)

// Platform identifies the marketplace a calculation targets.
type Platform string

// Platform constants.
const (
	PlatformPDD    Platform = "pdd"
	PlatformDouyin Platform = "douyin"
)

// CalcType identifies the calculator variant that produced a record.
type CalcType string

// Calculation type constants.
const (
	CalcGroup       CalcType = "pdd_group"    // group-buy pricing with flash discount
	CalcBatch       CalcType = "pdd_batch"    // batch rows parsed from vendor text
	CalcActivity    CalcType = "pdd_activity" // 7%-off activity reverse pricing
	CalcCoupon      CalcType = "dy_coupon"    // exposed new-user coupon
	CalcLowPrice    CalcType = "dy_low_price" // low-price entry with flash + coupon
	CalcRetail      CalcType = "dy_retail"    // new-user retail price matching
	CalcFlashProfit CalcType = "dy_flash"     // flash-sale coupon solver
)

// PlatformFor returns the marketplace a calculation type belongs to.
func PlatformFor(t CalcType) Platform {
	switch t {
	case CalcGroup, CalcBatch, CalcActivity:
		return PlatformPDD
	default:
		return PlatformDouyin
	}
}

// ValidCalcType reports whether t is a known calculation type.
func ValidCalcType(t CalcType) bool {
	switch t {
	case CalcGroup, CalcBatch, CalcActivity, CalcCoupon,
		CalcLowPrice, CalcRetail, CalcFlashProfit:
		return true
	}
	return false
}

// ProductRow is one parsed (spec, supply price) pair from pasted vendor text,
// plus the per-row pricing derived once a sell price is entered. The ID is
// assigned at parse time and stays stable while the row is edited; it is not
// stable across re-parses.
type ProductRow struct {
	ID          string  `json:"id"`
	Spec        string  `json:"spec"`
	SupplyPrice float64 `json:"supply_price"`
	SellPrice   float64 `json:"sell_price"`

	// Derived once SellPrice > 0.
	GroupPrice           float64 `json:"group_price,omitempty"`
	DiscountedSellPrice  float64 `json:"discounted_sell_price,omitempty"`
	DiscountedGroupPrice float64 `json:"discounted_group_price,omitempty"`
	Profit               float64 `json:"profit,omitempty"`
	DiscountedProfit     float64 `json:"discounted_profit,omitempty"`
}

// BatchProduct is the snapshot of a batch row stored in history.
type BatchProduct struct {
	Spec        string  `json:"spec"`
	SupplyPrice float64 `json:"supply_price"`
	SellPrice   float64 `json:"sell_price"`
}

// HistoryRecord is an immutable snapshot of one completed calculation.
// Only the fields relevant to the record's CalcType are populated; zero
// values are omitted on the wire so old records with missing fields stay
// parseable.
type HistoryRecord struct {
	ID        string    `json:"id" required:"false"`
	Timestamp time.Time `json:"timestamp" required:"false"`
	Type      CalcType  `json:"type"`
	Platform  Platform  `json:"platform" required:"false"`

	SupplyPrice float64 `json:"supply_price,omitempty"`

	// Group-buy fields.
	GroupPrice     float64 `json:"group_price,omitempty"`
	PriceAddition  float64 `json:"price_addition,omitempty"`
	BackendPrice   float64 `json:"backend_price,omitempty"`
	SinglePrice    float64 `json:"single_price,omitempty"`
	DiscountPrice  float64 `json:"discount_price,omitempty"`
	MarketMaxPrice float64 `json:"market_max_price,omitempty"`

	// Activity / coupon / low-price fields.
	TargetPrice   float64 `json:"target_price,omitempty"`
	ListingPrice  float64 `json:"listing_price,omitempty"`
	CouponAmount  float64 `json:"coupon_amount,omitempty"`
	NewUserPrice  float64 `json:"new_user_price,omitempty"`
	FinalPrice    float64 `json:"final_price,omitempty"`
	DiscountRate  float64 `json:"discount_rate,omitempty"`
	OriginalPrice float64 `json:"original_price,omitempty"`

	// Outcome fields.
	PlatformFee float64 `json:"platform_fee,omitempty"`
	Profit      float64 `json:"profit,omitempty"`
	ProfitRate  float64 `json:"profit_rate,omitempty"`

	// Batch fields.
	ProductCount int            `json:"product_count,omitempty"`
	Products     []BatchProduct `json:"products,omitempty"`
}
