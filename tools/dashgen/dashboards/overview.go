// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/rwxiao/shop-pricer/tools/dashgen/panels"
)

// BuildOverview constructs the Shop Pricer Overview dashboard with all
// metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Shop Pricer Overview").
		Uid("pricer-overview").
		Tags([]string{"pricer", "shop-pricer"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.HistoryFillGauge()).
		WithPanel(panels.UptimeStat()))

	// Row 2: HTTP.
	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	// Row 3: Calculators.
	b.WithRow(dashboard.NewRowBuilder("Calculators").
		WithPanel(panels.CalculationsRate()).
		WithPanel(panels.CalculationErrors()).
		WithPanel(panels.SavesRate()))

	// Row 4: Batch Parsing.
	b.WithRow(dashboard.NewRowBuilder("Batch Parsing").
		WithPanel(panels.BatchParseRate()).
		WithPanel(panels.BatchRowsDistribution()))

	// Row 5: History.
	b.WithRow(dashboard.NewRowBuilder("History").
		WithPanel(panels.HistorySize()).
		WithPanel(panels.EvictionsRate()))

	// Row 6: Alerts.
	b.WithRow(dashboard.NewRowBuilder("Alerts").
		WithPanel(panels.LossAlertsRate()).
		WithPanel(panels.NotificationFailures()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
