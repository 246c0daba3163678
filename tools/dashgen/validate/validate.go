// Package validate checks generated dashboards and rule files: every
// PromQL expression must parse, and every metric it selects must be one
// the server actually exports.
package validate

import (
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	promdq "github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/rwxiao/shop-pricer/tools/dashgen/rules"
)

// Result collects validation errors and warnings.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether validation passed.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

// Merge folds another result into this one.
func (r *Result) Merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Dashboard validates every Prometheus target expression in the dashboard.
func Dashboard(d dashboard.Dashboard, known map[string]bool) Result {
	var res Result
	for _, p := range d.Panels {
		if p.RowPanel != nil {
			for i := range p.RowPanel.Panels {
				checkPanel(&p.RowPanel.Panels[i], known, &res)
			}
		}
		if p.Panel != nil {
			checkPanel(p.Panel, known, &res)
		}
	}
	return res
}

// Rules validates every expression in a PrometheusRule CR.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result
	for _, g := range cr.Spec.Groups {
		for _, rule := range g.Rules {
			name := rule.Record
			if name == "" {
				name = rule.Alert
			}
			checkExpr(rule.Expr, fmt.Sprintf("rule %q", name), known, &res)
		}
	}
	return res
}

func checkPanel(p *dashboard.Panel, known map[string]bool, res *Result) {
	title := ""
	if p.Title != nil {
		title = *p.Title
	}
	for _, t := range p.Targets {
		q, ok := t.(promdq.Dataquery)
		if !ok {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("panel %q: non-Prometheus target %T", title, t))
			continue
		}
		checkExpr(q.Expr, fmt.Sprintf("panel %q", title), known, res)
	}
}

func checkExpr(expr, where string, known map[string]bool, res *Result) {
	parsed, err := parser.ParseExpr(expr)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: bad PromQL: %v", where, err))
		return
	}

	parser.Inspect(parsed, func(node parser.Node, _ []parser.Node) error {
		vs, ok := node.(*parser.VectorSelector)
		if !ok || vs.Name == "" {
			return nil
		}
		if !knownMetric(vs.Name, known) {
			res.Errors = append(res.Errors,
				fmt.Sprintf("%s: unknown metric %q", where, vs.Name))
		}
		return nil
	})
}

// knownMetric accepts histogram series suffixes against their base name.
func knownMetric(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range []string{"_bucket", "_sum", "_count"} {
		if base, found := strings.CutSuffix(name, suffix); found && known[base] {
			return true
		}
	}
	return false
}
