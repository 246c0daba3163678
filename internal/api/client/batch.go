package client

import (
	"context"

	domain "github.com/rwxiao/shop-pricer/pkg/types"
)

// BatchParseRequest is the request body for server-side vendor-text parsing.
type BatchParseRequest struct {
	Text          string  `json:"text"`
	PriceAddition float64 `json:"price_addition,omitempty"`
	SellPrice     float64 `json:"sell_price,omitempty"`
}

// BatchParseResult is the server's parsed-row response.
type BatchParseResult struct {
	Rows  []domain.ProductRow `json:"rows"`
	Total int                 `json:"total"`
}

// ParseBatch asks the server to parse pasted vendor text.
func (c *Client) ParseBatch(ctx context.Context, req BatchParseRequest) (*BatchParseResult, error) {
	var result BatchParseResult
	if err := c.post(ctx, "/api/v1/batch/parse", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
