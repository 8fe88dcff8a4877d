package breakeven

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/fincalc/internal/calculator"
	"github.com/rgehrsitz/fincalc/internal/money"
	"github.com/shopspring/decimal"
)

// TableFormatter renders solve results for the console
type TableFormatter struct {
	Registry *calculator.Registry
}

// Format renders a single solve
func (tf *TableFormatter) Format(result *Result) string {
	var sb strings.Builder
	req := result.Request
	kind := tf.kind(req.Calculator, req.Vary)

	sb.WriteString("BREAK-EVEN SOLVE\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString(fmt.Sprintf("Calculator:   %s\n", req.Calculator))
	sb.WriteString(fmt.Sprintf("Target:       %s = %s\n", req.Metric, req.Target.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Varying:      %s in [%s, %s]\n", req.Vary, formatInput(kind, req.Min), formatInput(kind, req.Max)))
	sb.WriteString(fmt.Sprintf("Status:       %s\n", formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:   %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:  %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("SOLUTION\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	sb.WriteString(fmt.Sprintf("%-13s %s\n", req.Vary+":", formatInput(kind, result.Value)))
	sb.WriteString(fmt.Sprintf("%-13s %s\n", req.Metric+":", result.Achieved.StringFixed(2)))
	if change, ok := result.Change(); ok {
		sb.WriteString(fmt.Sprintf("Change:       %s%s from %s\n", deltaSymbol(change), formatInput(kind, change.Abs()), formatInput(kind, *result.Baseline)))
	}
	if result.BaselineMetric != nil {
		sb.WriteString(fmt.Sprintf("Baseline:     %s = %s\n", req.Metric, result.BaselineMetric.StringFixed(2)))
	}
	return sb.String()
}

// FormatMulti renders a SolveEach run
func (tf *TableFormatter) FormatMulti(multi *MultiResult) string {
	var sb strings.Builder
	sb.WriteString("BREAK-EVEN OPTIONS\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString(fmt.Sprintf("%-22s %16s %16s  %s\n", "Field", "Solved value", "Metric", "Status"))
	for _, r := range multi.Results {
		kind := tf.kind(r.Request.Calculator, r.Request.Vary)
		sb.WriteString(fmt.Sprintf("%-22s %16s %16s  %s\n",
			r.Request.Vary, formatInput(kind, r.Value), r.Achieved.StringFixed(2), formatStatus(r.Success)))
	}
	for _, f := range multi.Failures {
		sb.WriteString("  ! " + f + "\n")
	}
	if len(multi.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 60) + "\n")
		for i, rec := range multi.Recommendations {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
		}
	}
	return sb.String()
}

// JSONFormatter renders results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format marshals a Result or MultiResult
func (jf *JSONFormatter) Format(v any) (string, error) {
	var (
		data []byte
		err  error
	)
	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal break-even result: %w", err)
	}
	return string(data), nil
}

// recommend lists the successful solves, smallest relative change first
func (s *Solver) recommend(base Request, results []Result) []string {
	type option struct {
		text string
		rel  decimal.Decimal
	}
	var opts []option
	for _, r := range results {
		if !r.Success {
			continue
		}
		kind := kindOf(s.Registry, r.Request.Calculator, r.Request.Vary)
		text := fmt.Sprintf("Set %s to %s", r.Request.Vary, formatInput(kind, r.Value))
		rel := decimal.NewFromInt(1 << 30)
		if change, ok := r.Change(); ok {
			text = fmt.Sprintf("Change %s from %s to %s", r.Request.Vary, formatInput(kind, *r.Baseline), formatInput(kind, r.Value))
			if !r.Baseline.IsZero() {
				rel = change.Div(*r.Baseline).Abs()
			}
		}
		opts = append(opts, option{text: text, rel: rel})
	}
	sort.SliceStable(opts, func(i, j int) bool { return opts[i].rel.LessThan(opts[j].rel) })

	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, fmt.Sprintf("%s to reach %s %s", o.text, base.Metric, base.Target.StringFixed(2)))
	}
	if len(out) == 0 {
		out = append(out, "No single field reaches the target within tolerance; widen the ranges")
	}
	return out
}

func (tf *TableFormatter) kind(calc, field string) calculator.Kind {
	return kindOf(tf.Registry, calc, field)
}

func kindOf(reg *calculator.Registry, calc, field string) calculator.Kind {
	if reg == nil {
		reg = calculator.Default()
	}
	def, ok := reg.Get(calc)
	if !ok {
		return calculator.KindNumber
	}
	f, ok := def.Field(field)
	if !ok {
		return calculator.KindNumber
	}
	return f.Kind
}

func formatInput(kind calculator.Kind, d decimal.Decimal) string {
	switch kind {
	case calculator.KindCurrency:
		return money.FormatDecimalCurrency(d)
	case calculator.KindPercent:
		return d.StringFixed(3) + "%"
	case calculator.KindInteger:
		return d.Round(0).String()
	}
	return d.StringFixed(2)
}

func formatStatus(success bool) string {
	if success {
		return "✓ converged"
	}
	return "✗ not exact"
}

func deltaSymbol(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-"
	}
	return "+"
}
