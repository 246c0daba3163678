package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/bargauge"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// BatchParseRate returns a timeseries panel showing vendor-text parses per
// second.
func BatchParseRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Batch Parse Rate").
		Description("Vendor-text parse requests per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum(rate(pricer_batch_parses_total{job="shop-pricer"}[5m]))`,
			"parses/s", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// BatchRowsDistribution returns a bar gauge panel showing how many rows
// vendor texts parse into.
func BatchRowsDistribution() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Rows per Parse").
		Description("Distribution of parsed row counts per vendor text (0-50)").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			`sum(increase(pricer_batch_rows_parsed_bucket{job="shop-pricer"}[1h])) by (le)`,
			"{{le}}", "A",
		)).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}
