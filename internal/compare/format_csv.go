package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Strategy",
		"Type",
		"Months",
		"Total Interest",
		"Total Paid",
		"Paid Off",
		"Interest Diff from Base",
		"Interest % Change",
		"Months Diff from Base",
		"Payoff Order",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}
	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}
	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (cf *CSVFormatter) formatRow(result *StrategyResult, kind string) []string {
	return []string{
		result.Strategy,
		kind,
		strconv.Itoa(result.Months),
		result.TotalInterest.StringFixed(2),
		result.TotalPaid.StringFixed(2),
		strconv.FormatBool(result.PaidOff),
		result.InterestDiffFromBase.StringFixed(2),
		result.InterestPctFromBase.StringFixed(2),
		strconv.Itoa(result.MonthsDiffFromBase),
		strings.Join(result.PayoffOrder, ";"),
	}
}
