package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing strategies
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("DEBT PAYOFF STRATEGY COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Base Strategy: %s\n", compSet.BaseStrategy))
	sb.WriteString(fmt.Sprintf("Debts: %d totaling $%s, extra payment $%s/month\n",
		compSet.DebtCount, compSet.StartingDebt.StringFixed(2), compSet.ExtraPayment.StringFixed(2)))
	sb.WriteString("\n")

	nameWidth := 25
	numWidth := 16

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s\n",
		nameWidth, "Strategy",
		numWidth, "Months",
		numWidth, "Total Interest",
		numWidth, "Total Paid"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&alt, nameWidth, numWidth, false))
		}
	}
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.Strategy))
			sb.WriteString(fmt.Sprintf("  Interest:  %s$%s (%s%%)\n",
				tf.deltaSymbol(alt.InterestDiffFromBase),
				alt.InterestDiffFromBase.Abs().StringFixed(2),
				alt.InterestPctFromBase.StringFixed(1)))
			if alt.MonthsDiffFromBase != 0 {
				sign := "+"
				if alt.MonthsDiffFromBase < 0 {
					sign = ""
				}
				sb.WriteString(fmt.Sprintf("  Duration:  %s%d months\n", sign, alt.MonthsDiffFromBase))
			}
			if len(alt.PayoffOrder) > 0 {
				sb.WriteString(fmt.Sprintf("  Order:     %s\n", strings.Join(alt.PayoffOrder, " -> ")))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("* %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (tf *TableFormatter) formatRow(result *StrategyResult, nameWidth, numWidth int, isBase bool) string {
	name := result.Strategy
	if isBase {
		name += " (base)"
	}
	monthsStr := fmt.Sprintf("%d", result.Months)
	if !result.PaidOff {
		monthsStr = "not paid off"
	}
	return fmt.Sprintf("%-*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, monthsStr,
		numWidth, "$"+result.TotalInterest.StringFixed(2),
		numWidth, "$"+result.TotalPaid.StringFixed(2))
}

// deltaSymbol returns "+" for increases and "-" for decreases
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a single-line summary of interest deltas
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseStrategy))
	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if alt.InterestDiffFromBase.IsPositive() {
			change = fmt.Sprintf("+$%s interest", alt.InterestDiffFromBase.StringFixed(2))
		} else if alt.InterestDiffFromBase.IsNegative() {
			change = fmt.Sprintf("-$%s interest", alt.InterestDiffFromBase.Abs().StringFixed(2))
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.Strategy, change))
	}
	return sb.String()
}
