package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// HistorySize returns a timeseries panel showing the history log size
// against the retention cap.
func HistorySize() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("History Size").
		Description("Records currently in the history log (cap is 50)").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`pricer_history_size{job="shop-pricer"}`, "records", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// EvictionsRate returns a timeseries panel showing cap evictions per second.
func EvictionsRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Evictions Rate").
		Description("Oldest-record evictions per second as the cap is enforced").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum(rate(pricer_history_evictions_total{job="shop-pricer"}[5m]))`,
			"evictions/s", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
