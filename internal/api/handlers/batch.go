package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rwxiao/shop-pricer/internal/batch"
	"github.com/rwxiao/shop-pricer/internal/metrics"
	"github.com/rwxiao/shop-pricer/pkg/pricing"
	domain "github.com/rwxiao/shop-pricer/pkg/types"
)

// BatchHandler serves the vendor-text batch parser.
type BatchHandler struct {
	log *slog.Logger
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(log *slog.Logger) *BatchHandler {
	return &BatchHandler{log: log}
}

// ParseBatchInput is the request for parsing pasted vendor text.
type ParseBatchInput struct {
	Body struct {
		Text          string  `json:"text"                     minLength:"1" doc:"Pasted vendor text, one spec and price per line"`
		PriceAddition float64 `json:"price_addition,omitempty" minimum:"0"   doc:"Single-buy addition applied to every priced row"`
		SellPrice     float64 `json:"sell_price,omitempty"     minimum:"0"   doc:"Sell price applied to every row; rows stay unpriced when 0"`
	}
}

// ParseBatchOutput is the response for parsing pasted vendor text.
type ParseBatchOutput struct {
	Body struct {
		Rows  []domain.ProductRow `json:"rows"`
		Total int                 `json:"total"`
	}
}

// ParseBatch extracts (spec, supply price) rows from pasted vendor text.
// An optional sell price prices every row in the same pass. Malformed
// lines are skipped; unparseable text yields zero rows, not an error.
func (h *BatchHandler) ParseBatch(_ context.Context, input *ParseBatchInput) (*ParseBatchOutput, error) {
	rows := batch.Parse(input.Body.Text)

	metrics.BatchParsesTotal.Inc()
	metrics.BatchRowsParsed.Observe(float64(len(rows)))

	if input.Body.SellPrice > 0 {
		for i := range rows {
			rows[i].SellPrice = input.Body.SellPrice
			res, ok := pricing.ComputeBatchRow(
				rows[i].SupplyPrice, rows[i].SellPrice, input.Body.PriceAddition,
			)
			if !ok {
				continue
			}
			rows[i].GroupPrice = res.GroupPrice
			rows[i].DiscountedSellPrice = res.DiscountedSellPrice
			rows[i].DiscountedGroupPrice = res.DiscountedGroupPrice
			rows[i].Profit = res.Profit
			rows[i].DiscountedProfit = res.DiscountedProfit
		}
	}

	h.log.Debug("batch parsed", "rows", len(rows))

	resp := &ParseBatchOutput{}
	resp.Body.Rows = rows
	resp.Body.Total = len(rows)
	return resp, nil
}

// RegisterBatchRoutes registers batch endpoints with the Huma API.
func RegisterBatchRoutes(api huma.API, h *BatchHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "parse-batch",
		Method:      http.MethodPost,
		Path:        "/api/v1/batch/parse",
		Summary:     "Parse vendor text",
		Description: "Extracts (spec, supply price) rows from pasted vendor text, optionally pricing every row.",
		Tags:        []string{"batch"},
	}, h.ParseBatch)
}
