package client

import (
	"context"
	"fmt"
	"net/url"

	domain "github.com/rwxiao/shop-pricer/pkg/types"
)

// HistoryPage is one page of history records.
type HistoryPage struct {
	Records []domain.HistoryRecord `json:"records"`
	Total   int                    `json:"total"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
}

// HistoryFilter narrows a history listing.
type HistoryFilter struct {
	Type     string
	Platform string
	Limit    int
	Offset   int
}

// ListHistory returns history records, most recent first.
func (c *Client) ListHistory(ctx context.Context, f HistoryFilter) (*HistoryPage, error) {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.Platform != "" {
		q.Set("platform", f.Platform)
	}
	if f.Limit > 0 {
		q.Set("limit", fmt.Sprint(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", fmt.Sprint(f.Offset))
	}

	path := "/api/v1/history"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var page HistoryPage
	if err := c.get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetHistory returns a single record by id.
func (c *Client) GetHistory(ctx context.Context, id string) (*domain.HistoryRecord, error) {
	var r domain.HistoryRecord
	if err := c.get(ctx, "/api/v1/history/"+url.PathEscape(id), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteHistory removes one record; absent ids succeed.
func (c *Client) DeleteHistory(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/history/"+url.PathEscape(id), nil)
}

// ClearHistory empties the log.
func (c *Client) ClearHistory(ctx context.Context) error {
	return c.del(ctx, "/api/v1/history", nil)
}

// AppendRecord posts a record to the history log. The server assigns the
// id and timestamp and writes them back into r, so the client satisfies
// the same saver contract as a local store.
func (c *Client) AppendRecord(ctx context.Context, r *domain.HistoryRecord) error {
	return c.post(ctx, "/api/v1/history", r, r)
}
