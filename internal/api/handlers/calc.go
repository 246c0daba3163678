package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rwxiao/shop-pricer/internal/metrics"
	"github.com/rwxiao/shop-pricer/internal/notify"
	"github.com/rwxiao/shop-pricer/internal/store"
	"github.com/rwxiao/shop-pricer/pkg/pricing"
	domain "github.com/rwxiao/shop-pricer/pkg/types"
)

// CalcHandler serves the calculator endpoints. Each endpoint is a pure
// computation over its request body; with save=true the result is also
// appended to the history log.
type CalcHandler struct {
	store    store.Store
	notifier notify.Notifier
	log      *slog.Logger
}

// NewCalcHandler creates a new CalcHandler.
func NewCalcHandler(s store.Store, n notify.Notifier, log *slog.Logger) *CalcHandler {
	return &CalcHandler{store: s, notifier: n, log: log}
}

// errInsufficientInput is the shared 422 for calculators missing a
// required positive price.
func errInsufficientInput() error {
	metrics.CalculationErrorsTotal.Inc()
	return huma.Error422UnprocessableEntity(
		"insufficient input: required prices must be positive",
	)
}

func (h *CalcHandler) countCalc(t domain.CalcType) {
	metrics.CalculationsTotal.
		WithLabelValues(string(t), string(domain.PlatformFor(t))).
		Inc()
}

// saveRecord appends the record and fires a loss alert when the saved
// profit is negative. Save failures degrade to a log line; the computed
// result is still returned.
func (h *CalcHandler) saveRecord(ctx context.Context, r *domain.HistoryRecord, sellPrice float64) string {
	if err := h.store.AppendRecord(ctx, r); err != nil {
		h.log.Error("saving history record failed", "type", r.Type, "error", err)
		return ""
	}
	metrics.HistorySavesTotal.WithLabelValues(string(r.Type)).Inc()

	if r.Profit < 0 {
		metrics.LossAlertsTotal.Inc()
		alert := &notify.LossAlert{
			CalcType:    r.Type,
			Platform:    r.Platform,
			SupplyPrice: r.SupplyPrice,
			SellPrice:   sellPrice,
			Profit:      r.Profit,
			ProfitRate:  r.ProfitRate,
		}
		if err := h.notifier.SendLossAlert(ctx, alert); err != nil {
			metrics.NotificationFailuresTotal.Inc()
			h.log.Error("sending loss alert failed", "error", err)
		}
	}

	return r.ID
}

// --- Group buy ---

// CalcGroupInput is the request for the group-buy calculator.
type CalcGroupInput struct {
	Body struct {
		SupplyPrice      float64 `json:"supply_price"                 minimum:"0" doc:"Supply (cost) price in yuan"`
		GroupPrice       float64 `json:"group_price,omitempty"        minimum:"0" doc:"Group-buy price in yuan"`
		PriceAddition    float64 `json:"price_addition,omitempty"     minimum:"0" doc:"Single-buy addition in yuan"`
		MarketMaxPrice   float64 `json:"market_max_price,omitempty"   minimum:"0" doc:"Market price cap; 0 disables the check"`
		TargetProfitRate float64 `json:"target_profit_rate,omitempty" minimum:"0" maximum:"2" doc:"Solve the group price for this profit rate instead of using group_price"`
		Save             bool    `json:"save,omitempty"               doc:"Append the result to the history log"`
	}
}

// CalcGroupOutput is the response for the group-buy calculator.
type CalcGroupOutput struct {
	Body struct {
		Input       pricing.GroupInput   `json:"input"`
		Result      pricing.GroupResult  `json:"result"`
		Tiers       []pricing.ProfitTier `json:"tiers"`
		SolvedPrice float64              `json:"solved_price,omitempty"`
		Capped      bool                 `json:"capped,omitempty"`
		RecordID    string               `json:"record_id,omitempty"`
	}
}

// CalcGroup computes the group-buy price chain. A target profit rate in
// the request solves the group price backward first.
func (h *CalcHandler) CalcGroup(ctx context.Context, input *CalcGroupInput) (*CalcGroupOutput, error) {
	in := pricing.GroupInput{
		SupplyPrice:    input.Body.SupplyPrice,
		GroupPrice:     input.Body.GroupPrice,
		PriceAddition:  input.Body.PriceAddition,
		MarketMaxPrice: input.Body.MarketMaxPrice,
	}

	resp := &CalcGroupOutput{}

	if input.Body.TargetProfitRate > 0 {
		price, capped := pricing.PriceForProfitRate(
			in.SupplyPrice, input.Body.TargetProfitRate, in.MarketMaxPrice,
		)
		if price <= 0 {
			return nil, errInsufficientInput()
		}
		in.GroupPrice = price
		resp.Body.SolvedPrice = price
		resp.Body.Capped = capped
	}

	result, ok := pricing.ComputeGroup(in)
	if !ok {
		return nil, errInsufficientInput()
	}
	h.countCalc(domain.CalcGroup)

	resp.Body.Input = in
	resp.Body.Result = result
	resp.Body.Tiers = pricing.ProfitTiers(in.SupplyPrice, in.MarketMaxPrice)

	if input.Body.Save {
		resp.Body.RecordID = h.saveRecord(ctx, &domain.HistoryRecord{
			Type:           domain.CalcGroup,
			SupplyPrice:    in.SupplyPrice,
			GroupPrice:     in.GroupPrice,
			PriceAddition:  in.PriceAddition,
			MarketMaxPrice: in.MarketMaxPrice,
			BackendPrice:   result.BackendPrice,
			SinglePrice:    result.SinglePrice,
			DiscountPrice:  result.DiscountPrice,
			PlatformFee:    result.GroupPlatformFee,
			Profit:         result.GroupProfit,
			ProfitRate:     result.ProfitRate,
		}, in.GroupPrice)
	}

	return resp, nil
}

// --- Activity ---

// CalcActivityInput is the request for the 7%-off activity calculator.
type CalcActivityInput struct {
	Body struct {
		SupplyPrice float64 `json:"supply_price"          minimum:"0" doc:"Supply (cost) price in yuan"`
		TargetPrice float64 `json:"target_price"          minimum:"0" doc:"Buyer take-home price after discount and coupon"`
		CouponFee   float64 `json:"coupon_fee,omitempty"  minimum:"0" doc:"Seller-funded coupon in yuan"`
		Save        bool    `json:"save,omitempty"`
	}
}

// CalcActivityOutput is the response for the activity calculator.
type CalcActivityOutput struct {
	Body struct {
		Input    pricing.ActivityInput  `json:"input"`
		Result   pricing.ActivityResult `json:"result"`
		RecordID string                 `json:"record_id,omitempty"`
	}
}

// CalcActivity solves the console price for the 7%-off activity.
func (h *CalcHandler) CalcActivity(ctx context.Context, input *CalcActivityInput) (*CalcActivityOutput, error) {
	in := pricing.ActivityInput{
		SupplyPrice: input.Body.SupplyPrice,
		TargetPrice: input.Body.TargetPrice,
		CouponFee:   input.Body.CouponFee,
	}

	result, ok := pricing.ComputeActivity(in)
	if !ok {
		return nil, errInsufficientInput()
	}
	h.countCalc(domain.CalcActivity)

	resp := &CalcActivityOutput{}
	resp.Body.Input = in
	resp.Body.Result = result

	if input.Body.Save {
		resp.Body.RecordID = h.saveRecord(ctx, &domain.HistoryRecord{
			Type:         domain.CalcActivity,
			SupplyPrice:  in.SupplyPrice,
			TargetPrice:  in.TargetPrice,
			CouponAmount: in.CouponFee,
			ListingPrice: result.ListingPrice,
			PlatformFee:  result.PlatformFee,
			Profit:       result.FinalProfit,
			ProfitRate:   result.ProfitRate,
		}, in.TargetPrice)
	}

	return resp, nil
}

// --- Exposed coupon ---

// CalcCouponInput is the request for the exposed-coupon calculator.
type CalcCouponInput struct {
	Body struct {
		SupplyPrice   float64 `json:"supply_price"   minimum:"0" doc:"Supply (cost) price in yuan"`
		ExpectedPrice float64 `json:"expected_price" minimum:"0" doc:"Price the buyer should pay after the coupon"`
		Save          bool    `json:"save,omitempty"`
	}
}

// CalcCouponOutput is the response for the exposed-coupon calculator.
type CalcCouponOutput struct {
	Body struct {
		Input    pricing.CouponInput  `json:"input"`
		Result   pricing.CouponResult `json:"result"`
		RecordID string               `json:"record_id,omitempty"`
	}
}

// CalcCoupon derives the exposed-coupon pricing chain.
func (h *CalcHandler) CalcCoupon(ctx context.Context, input *CalcCouponInput) (*CalcCouponOutput, error) {
	in := pricing.CouponInput{
		SupplyPrice:   input.Body.SupplyPrice,
		ExpectedPrice: input.Body.ExpectedPrice,
	}

	result, ok := pricing.ComputeCoupon(in)
	if !ok {
		return nil, errInsufficientInput()
	}
	h.countCalc(domain.CalcCoupon)

	resp := &CalcCouponOutput{}
	resp.Body.Input = in
	resp.Body.Result = result

	if input.Body.Save {
		resp.Body.RecordID = h.saveRecord(ctx, &domain.HistoryRecord{
			Type:         domain.CalcCoupon,
			SupplyPrice:  in.SupplyPrice,
			TargetPrice:  in.ExpectedPrice,
			ListingPrice: result.ListingPrice,
			CouponAmount: result.CouponAmount,
			NewUserPrice: result.NewUserPrice,
			PlatformFee:  result.PlatformFee,
			Profit:       result.Profit,
			ProfitRate:   result.ProfitRate,
		}, result.NewUserPrice)
	}

	return resp, nil
}

// --- Low-price entry ---

// CalcLowPriceInput is the request for the low-price entry calculator.
type CalcLowPriceInput struct {
	Body struct {
		SupplyPrice      float64 `json:"supply_price"                 minimum:"0" doc:"Supply (cost) price in yuan"`
		TargetFinalPrice float64 `json:"target_final_price,omitempty" minimum:"0" doc:"Desired final price; switches to backward mode"`
		FlashEnabled     bool    `json:"flash_enabled,omitempty"      doc:"Apply the limited-time 30%-off discount"`
		Mode             string  `json:"mode,omitempty"               enum:"forward,backward," doc:"Computation direction; inferred from target_final_price when empty"`
		Save             bool    `json:"save,omitempty"`
	}
}

// CalcLowPriceOutput is the response for the low-price entry calculator.
type CalcLowPriceOutput struct {
	Body struct {
		Mode     string                 `json:"mode"`
		Input    pricing.LowPriceInput  `json:"input"`
		Result   pricing.LowPriceResult `json:"result"`
		RecordID string                 `json:"record_id,omitempty"`
	}
}

// CalcLowPrice derives the low-price entry chain, forward from the supply
// price or backward from a target final price.
func (h *CalcHandler) CalcLowPrice(ctx context.Context, input *CalcLowPriceInput) (*CalcLowPriceOutput, error) {
	in := pricing.LowPriceInput{
		SupplyPrice:      input.Body.SupplyPrice,
		TargetFinalPrice: input.Body.TargetFinalPrice,
		FlashEnabled:     input.Body.FlashEnabled,
	}

	mode := input.Body.Mode
	if mode == "" {
		mode = "forward"
		if in.TargetFinalPrice > 0 {
			mode = "backward"
		}
	}

	var (
		result pricing.LowPriceResult
		ok     bool
	)
	if mode == "backward" {
		result, ok = pricing.SolveLowPrice(in)
	} else {
		in.TargetFinalPrice = 0
		result, ok = pricing.ComputeLowPrice(in)
	}
	if !ok {
		return nil, errInsufficientInput()
	}
	h.countCalc(domain.CalcLowPrice)

	resp := &CalcLowPriceOutput{}
	resp.Body.Mode = mode
	resp.Body.Input = in
	resp.Body.Result = result

	if input.Body.Save {
		resp.Body.RecordID = h.saveRecord(ctx, &domain.HistoryRecord{
			Type:         domain.CalcLowPrice,
			SupplyPrice:  in.SupplyPrice,
			TargetPrice:  in.TargetFinalPrice,
			ListingPrice: result.ListingPrice,
			CouponAmount: result.NewUserCoupon,
			FinalPrice:   result.FinalPrice,
			PlatformFee:  result.PlatformFee,
			Profit:       result.Profit,
			ProfitRate:   result.ProfitRate,
		}, result.FinalPrice)
	}

	return resp, nil
}

// --- New-user retail ---

// CalcRetailInput is the request for the new-user retail calculator.
type CalcRetailInput struct {
	Body struct {
		SupplyPrice float64 `json:"supply_price"     minimum:"0" doc:"Supply (cost) price in yuan"`
		RetailPrice float64 `json:"retail_price"     minimum:"0" doc:"Target shelf price for new users"`
		Coupon      float64 `json:"coupon,omitempty" minimum:"0" doc:"Manually chosen coupon; overrides the sized one"`
		Save        bool    `json:"save,omitempty"`
	}
}

// CalcRetailOutput is the response for the new-user retail calculator.
type CalcRetailOutput struct {
	Body struct {
		Input    pricing.RetailInput  `json:"input"`
		Result   pricing.RetailResult `json:"result"`
		RecordID string               `json:"record_id,omitempty"`
	}
}

// CalcRetail sizes the new-user gift that lands first-time buyers on the
// target retail price.
func (h *CalcHandler) CalcRetail(ctx context.Context, input *CalcRetailInput) (*CalcRetailOutput, error) {
	in := pricing.RetailInput{
		SupplyPrice: input.Body.SupplyPrice,
		RetailPrice: input.Body.RetailPrice,
	}

	result, ok := pricing.ComputeRetail(in)
	if !ok {
		return nil, errInsufficientInput()
	}
	if input.Body.Coupon > 0 {
		result = pricing.RetailWithCoupon(result.SellerViewPrice, input.Body.Coupon, in.RetailPrice)
	}
	h.countCalc(domain.CalcRetail)

	resp := &CalcRetailOutput{}
	resp.Body.Input = in
	resp.Body.Result = result

	if input.Body.Save {
		resp.Body.RecordID = h.saveRecord(ctx, &domain.HistoryRecord{
			Type:         domain.CalcRetail,
			SupplyPrice:  in.SupplyPrice,
			TargetPrice:  in.RetailPrice,
			CouponAmount: result.CouponAmount,
			FinalPrice:   result.FinalPrice,
		}, result.FinalPrice)
	}

	return resp, nil
}

// --- Flash-sale coupon solver ---

// CalcFlashInput is the request for the flash-sale coupon solver.
type CalcFlashInput struct {
	Body struct {
		SupplyPrice   float64 `json:"supply_price"            minimum:"0" doc:"Supply (cost) price in yuan"`
		OriginalPrice float64 `json:"original_price"          minimum:"0" doc:"Storefront original price"`
		DiscountRate  float64 `json:"discount_rate"           minimum:"0" maximum:"1" doc:"Flash discount as a fraction, e.g. 0.7 for 30% off"`
		TargetProfit  float64 `json:"target_profit,omitempty" minimum:"0" doc:"Profit the coupon should leave"`
		Coupon        float64 `json:"coupon,omitempty"        minimum:"0" doc:"Manual coupon; bypasses the solver"`
		Save          bool    `json:"save,omitempty"`
	}
}

// CalcFlashOutput is the response for the flash-sale coupon solver.
type CalcFlashOutput struct {
	Body struct {
		Input    pricing.FlashInput  `json:"input"`
		Result   pricing.FlashResult `json:"result"`
		RecordID string              `json:"record_id,omitempty"`
	}
}

// CalcFlash sizes the whole-yuan flash-sale coupon for a target profit.
func (h *CalcHandler) CalcFlash(ctx context.Context, input *CalcFlashInput) (*CalcFlashOutput, error) {
	in := pricing.FlashInput{
		SupplyPrice:   input.Body.SupplyPrice,
		OriginalPrice: input.Body.OriginalPrice,
		DiscountRate:  input.Body.DiscountRate,
		TargetProfit:  input.Body.TargetProfit,
		Coupon:        input.Body.Coupon,
	}

	result, ok := pricing.SolveFlashCoupon(in)
	if !ok {
		return nil, errInsufficientInput()
	}
	h.countCalc(domain.CalcFlashProfit)

	resp := &CalcFlashOutput{}
	resp.Body.Input = in
	resp.Body.Result = result

	if input.Body.Save {
		resp.Body.RecordID = h.saveRecord(ctx, &domain.HistoryRecord{
			Type:          domain.CalcFlashProfit,
			SupplyPrice:   in.SupplyPrice,
			OriginalPrice: in.OriginalPrice,
			DiscountRate:  in.DiscountRate,
			CouponAmount:  result.Coupon,
			FinalPrice:    result.ExposedPrice - result.Coupon,
			PlatformFee:   result.Commission,
			Profit:        result.Profit,
			ProfitRate:    result.ProfitRate,
		}, result.ExposedPrice-result.Coupon)
	}

	return resp, nil
}

// RegisterCalcRoutes registers calculator endpoints with the Huma API.
func RegisterCalcRoutes(api huma.API, h *CalcHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "calc-group",
		Method:      http.MethodPost,
		Path:        "/api/v1/calc/group",
		Summary:     "Group-buy pricing",
		Description: "Computes backend, single-buy, and flash-discounted prices from the group price, or solves the group price for a target profit rate.",
		Tags:        []string{"calc"},
		Errors:      []int{http.StatusUnprocessableEntity},
	}, h.CalcGroup)

	huma.Register(api, huma.Operation{
		OperationID: "calc-activity",
		Method:      http.MethodPost,
		Path:        "/api/v1/calc/activity",
		Summary:     "7%-off activity pricing",
		Description: "Solves the console price that lands buyers on the target take-home price under the 7%-off activity.",
		Tags:        []string{"calc"},
		Errors:      []int{http.StatusUnprocessableEntity},
	}, h.CalcActivity)

	huma.Register(api, huma.Operation{
		OperationID: "calc-coupon",
		Method:      http.MethodPost,
		Path:        "/api/v1/calc/coupon",
		Summary:     "Exposed-coupon pricing",
		Description: "Derives the inflated listing, seller price, and coupon for the exposed new-user coupon play.",
		Tags:        []string{"calc"},
		Errors:      []int{http.StatusUnprocessableEntity},
	}, h.CalcCoupon)

	huma.Register(api, huma.Operation{
		OperationID: "calc-lowprice",
		Method:      http.MethodPost,
		Path:        "/api/v1/calc/lowprice",
		Summary:     "Low-price entry pricing",
		Description: "Computes the low-price entry chain forward from the supply price or backward from a target final price.",
		Tags:        []string{"calc"},
		Errors:      []int{http.StatusUnprocessableEntity},
	}, h.CalcLowPrice)

	huma.Register(api, huma.Operation{
		OperationID: "calc-retail",
		Method:      http.MethodPost,
		Path:        "/api/v1/calc/retail",
		Summary:     "New-user retail pricing",
		Description: "Sizes the new-user gift that matches the target retail price.",
		Tags:        []string{"calc"},
		Errors:      []int{http.StatusUnprocessableEntity},
	}, h.CalcRetail)

	huma.Register(api, huma.Operation{
		OperationID: "calc-flash-profit",
		Method:      http.MethodPost,
		Path:        "/api/v1/calc/flash-profit",
		Summary:     "Flash-sale coupon solver",
		Description: "Sizes the whole-yuan coupon that leaves the target profit under a flash-sale discount.",
		Tags:        []string{"calc"},
		Errors:      []int{http.StatusUnprocessableEntity},
	}, h.CalcFlash)
}
