package calculation

import (
	"github.com/rgehrsitz/fincalc/internal/domain"
	"github.com/rgehrsitz/fincalc/internal/money"
	"github.com/shopspring/decimal"
)

// DefaultEmergencyMonths is the usual reserve target in months of expenses
const DefaultEmergencyMonths = 6

// CalculateEmergencyFund measures progress toward targetMonths of expenses.
// A non-positive targetMonths uses DefaultEmergencyMonths.
func CalculateEmergencyFund(monthlyExpenses, currentSavings, monthlySavingsGoal float64, targetMonths int) domain.EmergencyFundResult {
	if targetMonths <= 0 {
		targetMonths = DefaultEmergencyMonths
	}
	target := money.Of(monthlyExpenses).Mul(decimal.NewFromInt(int64(targetMonths)))
	current := money.Of(currentSavings)

	remaining := target.Sub(current)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	progress := money.Hundred
	if target.IsPositive() {
		progress = decimal.Min(money.Hundred, money.Div(current, target).Mul(money.Hundred))
	}
	if progress.IsNegative() {
		progress = decimal.Zero
	}

	timeToGoal := 0
	if remaining.IsPositive() {
		saving := money.Of(monthlySavingsGoal)
		if saving.IsPositive() {
			timeToGoal = int(money.Div(remaining, saving).Ceil().IntPart())
		} else {
			timeToGoal = -1
		}
	}

	return domain.EmergencyFundResult{
		TargetAmount:    money.Cents(target),
		RemainingNeeded: money.Cents(remaining),
		TimeToGoal:      timeToGoal,
		CurrentProgress: money.Cents(progress),
		IsComplete:      !remaining.IsPositive(),
	}
}
