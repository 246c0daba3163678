package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// shop-pricer operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "pricer-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "pricer-alerts",
					Rules: []Rule{
						{
							Alert: "PricerDown",
							Expr:  `absent(up{job="shop-pricer"})`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Shop Pricer is down",
								"description": "The shop-pricer job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert: "PricerReadinessDown",
							Expr:  `pricer_readyz_up == 0`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Shop Pricer readiness check is failing",
								"description": "The readiness probe has been reporting not-ready for more than 2 minutes. The history database is likely unreachable.",
							},
						},
						{
							Alert: "PricerHighErrorRate",
							Expr:  `pricer:http_errors:rate5m / pricer:http_requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on Shop Pricer",
								"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert: "PricerRejectedInputsElevated",
							Expr:  `rate(pricer_calculation_errors_total[5m]) > 1`,
							For:   "10m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Calculator inputs are being rejected at an elevated rate",
								"description": "More than one calculator request per second has been rejected for insufficient input over the last 10 minutes. A client may be sending malformed requests.",
							},
						},
						{
							Alert: "PricerLossAlertsElevated",
							Expr:  `pricer:loss_alerts:rate5m > 0.1`,
							For:   "10m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Negative-profit calculations are elevated",
								"description": "Loss alerts have been firing at more than 0.1/s for 10 minutes. Supply prices or formulas may be off.",
							},
						},
						{
							Alert: "PricerNotificationFailures",
							Expr:  `increase(pricer_notification_failures_total[5m]) > 0`,
							For:   "1m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Notification delivery failures detected",
								"description": "One or more loss alerts (Discord webhooks) have failed to send.",
							},
						},
					},
				},
			},
		},
	}
}
