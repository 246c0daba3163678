package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "pricer-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "pricer-recording",
					Rules: []Rule{
						{
							Record: "pricer:http_requests:rate5m",
							Expr:   `sum(rate(pricer_http_requests_total[5m]))`,
						},
						{
							Record: "pricer:http_errors:rate5m",
							Expr:   `sum(rate(pricer_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "pricer:calculations:rate5m",
							Expr:   `sum(rate(pricer_calculations_total[5m]))`,
						},
						{
							Record: "pricer:history_saves:rate5m",
							Expr:   `sum(rate(pricer_history_saves_total[5m]))`,
						},
						{
							Record: "pricer:loss_alerts:rate5m",
							Expr:   `rate(pricer_loss_alerts_total[5m])`,
						},
					},
				},
			},
		},
	}
}
