package main

import "errors"

// KnownMetrics is the set of metric names exported by shop-pricer plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"pricer_http_request_duration_seconds": true,
	"pricer_http_requests_total":           true,

	// Health metrics.
	"pricer_healthz_up": true,
	"pricer_readyz_up":  true,

	// Calculator metrics.
	"pricer_calculations_total":       true,
	"pricer_calculation_errors_total": true,

	// Batch parser metrics.
	"pricer_batch_parses_total": true,
	"pricer_batch_rows_parsed":  true,

	// History metrics.
	"pricer_history_size":            true,
	"pricer_history_evictions_total": true,
	"pricer_history_saves_total":     true,

	// Alert metrics.
	"pricer_loss_alerts_total":           true,
	"pricer_notification_failures_total": true,

	// Recording rules.
	"pricer:http_requests:rate5m": true,
	"pricer:http_errors:rate5m":   true,
	"pricer:calculations:rate5m":  true,
	"pricer:history_saves:rate5m": true,
	"pricer:loss_alerts:rate5m":   true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
