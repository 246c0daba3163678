package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rwxiao/shop-pricer/internal/metrics"
	"github.com/rwxiao/shop-pricer/internal/store"
	domain "github.com/rwxiao/shop-pricer/pkg/types"
)

// HistoryHandler serves the history log endpoints.
type HistoryHandler struct {
	store store.Store
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(s store.Store) *HistoryHandler {
	return &HistoryHandler{store: s}
}

// ListHistoryInput is the input for listing history records.
type ListHistoryInput struct {
	Type     string `query:"type"     doc:"Filter by calculation type" enum:"pdd_group,pdd_batch,pdd_activity,dy_coupon,dy_low_price,dy_retail,dy_flash,"`
	Platform string `query:"platform" doc:"Filter by platform"         enum:"pdd,douyin,"`
	Limit    int    `query:"limit"    doc:"Number of results (default 50)" minimum:"1" maximum:"50"`
	Offset   int    `query:"offset"   doc:"Pagination offset"              minimum:"0"`
}

// ListHistoryOutput is the response for listing history records.
type ListHistoryOutput struct {
	Body struct {
		Records []domain.HistoryRecord `json:"records"`
		Total   int                    `json:"total"`
		Limit   int                    `json:"limit"`
		Offset  int                    `json:"offset"`
	}
}

// AppendHistoryInput is the input for appending a raw history record.
type AppendHistoryInput struct {
	Body domain.HistoryRecord
}

// AppendHistoryOutput is the response for appending a history record.
type AppendHistoryOutput struct {
	Body domain.HistoryRecord
}

// GetHistoryInput is the input for getting a single record.
type GetHistoryInput struct {
	ID string `path:"id" doc:"Record UUID"`
}

// GetHistoryOutput is the response for getting a single record.
type GetHistoryOutput struct {
	Body domain.HistoryRecord
}

// DeleteHistoryInput is the input for deleting a single record.
type DeleteHistoryInput struct {
	ID string `path:"id" doc:"Record UUID"`
}

// DeleteHistoryOutput is the response for deleting a record.
type DeleteHistoryOutput struct {
	Body StatusResponse
}

// ClearHistoryOutput is the response for clearing the log.
type ClearHistoryOutput struct {
	Body StatusResponse
}

// ListHistory returns history records most-recent-first with optional
// type and platform filters.
func (h *HistoryHandler) ListHistory(ctx context.Context, input *ListHistoryInput) (*ListHistoryOutput, error) {
	q := &store.RecordQuery{
		Limit:  input.Limit,
		Offset: input.Offset,
	}

	if input.Type != "" {
		t := domain.CalcType(input.Type)
		q.Type = &t
	}
	if input.Platform != "" {
		p := domain.Platform(input.Platform)
		q.Platform = &p
	}

	records, total, err := h.store.ListRecords(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("history query failed: " + err.Error())
	}

	resp := &ListHistoryOutput{}
	resp.Body.Records = records
	resp.Body.Total = total
	resp.Body.Limit = q.Limit
	resp.Body.Offset = q.Offset
	return resp, nil
}

// AppendHistory appends a record saved by an external writer, typically a
// CLI session running against its own calculator state. The id and
// timestamp are assigned server-side.
func (h *HistoryHandler) AppendHistory(ctx context.Context, input *AppendHistoryInput) (*AppendHistoryOutput, error) {
	r := input.Body
	if !domain.ValidCalcType(r.Type) {
		return nil, huma.Error422UnprocessableEntity("unknown calculation type")
	}

	if err := h.store.AppendRecord(ctx, &r); err != nil {
		return nil, huma.Error500InternalServerError("appending record failed: " + err.Error())
	}
	metrics.HistorySavesTotal.WithLabelValues(string(r.Type)).Inc()

	return &AppendHistoryOutput{Body: r}, nil
}

// GetHistory returns a single record by ID.
func (h *HistoryHandler) GetHistory(ctx context.Context, input *GetHistoryInput) (*GetHistoryOutput, error) {
	r, err := h.store.GetRecord(ctx, input.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("record not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("record query failed: " + err.Error())
	}

	return &GetHistoryOutput{Body: *r}, nil
}

// DeleteHistory removes a single record. Deleting an absent id succeeds.
func (h *HistoryHandler) DeleteHistory(ctx context.Context, input *DeleteHistoryInput) (*DeleteHistoryOutput, error) {
	if err := h.store.DeleteRecord(ctx, input.ID); err != nil {
		return nil, huma.Error500InternalServerError("deleting record failed: " + err.Error())
	}

	resp := &DeleteHistoryOutput{}
	resp.Body.Status = "deleted"
	return resp, nil
}

// ClearHistory empties the log.
func (h *HistoryHandler) ClearHistory(ctx context.Context, _ *struct{}) (*ClearHistoryOutput, error) {
	if err := h.store.ClearRecords(ctx); err != nil {
		return nil, huma.Error500InternalServerError("clearing history failed: " + err.Error())
	}

	resp := &ClearHistoryOutput{}
	resp.Body.Status = "cleared"
	return resp, nil
}

// RegisterHistoryRoutes registers history endpoints with the Huma API.
func RegisterHistoryRoutes(api huma.API, h *HistoryHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-history",
		Method:      http.MethodGet,
		Path:        "/api/v1/history",
		Summary:     "List history records",
		Description: "Returns history records most-recent-first with optional type and platform filters.",
		Tags:        []string{"history"},
	}, h.ListHistory)

	huma.Register(api, huma.Operation{
		OperationID: "append-history",
		Method:      http.MethodPost,
		Path:        "/api/v1/history",
		Summary:     "Append a history record",
		Description: "Appends a record computed by an external writer; id and timestamp are assigned server-side.",
		Tags:        []string{"history"},
		Errors:      []int{http.StatusUnprocessableEntity},
	}, h.AppendHistory)

	huma.Register(api, huma.Operation{
		OperationID: "get-history",
		Method:      http.MethodGet,
		Path:        "/api/v1/history/{id}",
		Summary:     "Get a history record by ID",
		Tags:        []string{"history"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetHistory)

	huma.Register(api, huma.Operation{
		OperationID: "delete-history",
		Method:      http.MethodDelete,
		Path:        "/api/v1/history/{id}",
		Summary:     "Delete a history record",
		Description: "Removes one record; deleting an absent id succeeds.",
		Tags:        []string{"history"},
	}, h.DeleteHistory)

	huma.Register(api, huma.Operation{
		OperationID: "clear-history",
		Method:      http.MethodDelete,
		Path:        "/api/v1/history",
		Summary:     "Clear the history log",
		Tags:        []string{"history"},
	}, h.ClearHistory)
}
