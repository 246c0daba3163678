package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// CalculationsRate returns a timeseries panel showing completed calculations
// per second, broken down by calculator type.
func CalculationsRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Calculations Rate").
		Description("Completed calculations per second by calculator type").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum(rate(pricer_calculations_total{job="shop-pricer"}[5m])) by (type)`,
			"{{type}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// CalculationErrors returns a stat panel showing rejected calculator inputs
// over the past 24 hours.
func CalculationErrors() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Rejected Inputs (24h)").
		Description("Calculator requests rejected for insufficient input in the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`increase(pricer_calculation_errors_total{job="shop-pricer"}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// SavesRate returns a timeseries panel showing history saves per second,
// broken down by calculator type.
func SavesRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("History Saves Rate").
		Description("Records appended to the history log per second by calculator type").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(
			`sum(rate(pricer_history_saves_total{job="shop-pricer"}[5m])) by (type)`,
			"{{type}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
