package handlers_test

import (
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rwxiao/shop-pricer/internal/api/handlers"
)

func newBatchAPI(t *testing.T) humatest.TestAPI {
	t.Helper()

	_, api := humatest.New(t)
	handlers.RegisterBatchRoutes(api, handlers.NewBatchHandler(testLogger()))
	return api
}

func TestParseBatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantBody   []string
	}{
		{
			name: "spec and price pairs become rows",
			body: map[string]any{
				"text": "红色 加大款\n¥10\n5件可售\n0\n蓝色 常规款\n¥20",
			},
			wantStatus: 200,
			wantBody: []string{
				`"total":2`,
				`"spec":"红色 加大款"`,
				`"supply_price":10`,
				`"spec":"蓝色 常规款"`,
			},
		},
		{
			name: "sell price prices every row",
			body: map[string]any{
				"text":           "红色\n¥10",
				"sell_price":     15,
				"price_addition": 6,
			},
			wantStatus: 200,
			wantBody: []string{
				`"group_price":21`,
				`"discounted_sell_price":14.79`,
			},
		},
		{
			name: "unparseable text yields zero rows",
			body: map[string]any{
				"text": "nothing here\nat all",
			},
			wantStatus: 200,
			wantBody:   []string{`"total":0`},
		},
		{
			name:       "empty text rejected by validation",
			body:       map[string]any{"text": ""},
			wantStatus: 422,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := newBatchAPI(t)
			resp := api.Post("/api/v1/batch/parse", tt.body)
			require.Equal(t, tt.wantStatus, resp.Code)
			for _, want := range tt.wantBody {
				assert.Contains(t, resp.Body.String(), want)
			}
		})
	}
}
