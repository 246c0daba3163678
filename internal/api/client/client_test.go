package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/rwxiao/shop-pricer/pkg/types"
)

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.ListHistory(context.Background(), HistoryFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListHistory(context.Background(), HistoryFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (HTTP 500)")
}

func TestClient_ListHistory(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/history", r.URL.Path)
		assert.Equal(t, "pdd_group", r.URL.Query().Get("type"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(HistoryPage{
			Records: []domain.HistoryRecord{{ID: "r1", Type: domain.CalcGroup}},
			Total:   1,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	page, err := c.ListHistory(context.Background(), HistoryFilter{
		Type:  "pdd_group",
		Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "r1", page.Records[0].ID)
}

func TestClient_AppendRecord(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/history", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var rec domain.HistoryRecord
		err := json.NewDecoder(r.Body).Decode(&rec)
		assert.NoError(t, err)
		rec.ID = "r-created"

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rec)
	}))
	defer srv.Close()

	c := New(srv.URL)
	r := &domain.HistoryRecord{Type: domain.CalcGroup, SupplyPrice: 10}
	require.NoError(t, c.AppendRecord(context.Background(), r))

	// The server-assigned id comes back into the record.
	assert.Equal(t, "r-created", r.ID)
}

func TestClient_DeleteHistory(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/history/r1", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.DeleteHistory(context.Background(), "r1"))
}

func TestClient_ClearHistory(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/history", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.ClearHistory(context.Background()))
}

func TestClient_ParseBatch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/batch/parse", r.URL.Path)

		var req BatchParseRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		assert.NoError(t, err)
		assert.Contains(t, req.Text, "¥10")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(BatchParseResult{
			Rows:  []domain.ProductRow{{ID: "p1", Spec: "红色", SupplyPrice: 10}},
			Total: 1,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.ParseBatch(context.Background(), BatchParseRequest{Text: "红色\n¥10"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, "红色", result.Rows[0].Spec)
}
