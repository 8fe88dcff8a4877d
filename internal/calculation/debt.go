package calculation

import (
	"fmt"

	"github.com/rgehrsitz/fincalc/internal/domain"
	"github.com/rgehrsitz/fincalc/internal/money"
	"github.com/rgehrsitz/fincalc/internal/sequencing"
	"github.com/shopspring/decimal"
)

// MaxPayoffMonths caps the payoff simulation at 30 years
const MaxPayoffMonths = 360

var paidOffThreshold = decimal.RequireFromString("0.01")

// DebtPayoffPlan is the full outcome of a payoff simulation
type DebtPayoffPlan struct {
	Strategy    string                     `json:"strategy" yaml:"strategy"`
	Projections []domain.MonthlyProjection `json:"projections" yaml:"projections"`
	PayoffOrder []string                   `json:"payoffOrder" yaml:"payoffOrder"`
	Summary     domain.PayoffSummary       `json:"summary" yaml:"summary"`
}

type workingDebt struct {
	name        string
	balance     decimal.Decimal
	monthlyRate decimal.Decimal
	minimum     decimal.Decimal
}

// CalculateDebtPayoff simulates paying debts down month by month with the
// extra payment directed by strategy. The caller's slice is not modified.
func CalculateDebtPayoff(debts []domain.Debt, extraPayment float64, strategy domain.PayoffStrategy) ([]domain.MonthlyProjection, error) {
	plan, err := PlanDebtPayoff(debts, extraPayment, string(strategy))
	if err != nil {
		return nil, err
	}
	return plan.Projections, nil
}

// PlanDebtPayoff resolves the named strategy and runs SimulateDebtPayoff
func PlanDebtPayoff(debts []domain.Debt, extraPayment float64, strategy string) (*DebtPayoffPlan, error) {
	seq, err := sequencing.CreateStrategy(strategy)
	if err != nil {
		return nil, &CalculationError{Operation: "debt_payoff", Message: "strategy", Cause: fmt.Errorf("%w: %v", ErrInvalidInput, err)}
	}
	if extraPayment < 0 {
		return nil, invalid("debt_payoff", "extra payment cannot be negative")
	}
	plan := SimulateDebtPayoff(debts, extraPayment, seq)
	return &plan, nil
}

// SimulateDebtPayoff runs the month loop. Each month every open debt accrues
// interest, receives its minimum payment (capped at its balance), and then the
// whole extra payment goes to the first open debt in strategy order. Debts at
// or below one cent are closed. The loop ends when the total balance drops
// under one cent or after MaxPayoffMonths; a non-zero final TotalBalance
// means the debts cannot be cleared within 30 years.
func SimulateDebtPayoff(debts []domain.Debt, extraPayment float64, strategy sequencing.SequencingStrategy) DebtPayoffPlan {
	ordered := strategy.Order(debts)
	active := make([]workingDebt, 0, len(ordered))
	starting := decimal.Zero
	outlay := money.Of(extraPayment)
	for _, d := range ordered {
		name := d.Name
		if name == "" {
			name = d.ID
		}
		bal := money.Of(d.Balance)
		starting = starting.Add(bal)
		outlay = outlay.Add(money.Of(d.MinimumPayment))
		active = append(active, workingDebt{
			name:        name,
			balance:     bal,
			monthlyRate: money.MonthlyRate(d.InterestRate),
			minimum:     money.Of(d.MinimumPayment),
		})
	}

	extra := money.Of(extraPayment)
	totalPaid, totalInterest := decimal.Zero, decimal.Zero
	debtsFree := 0
	var order []string
	projections := make([]domain.MonthlyProjection, 0)

	for month := 1; month <= MaxPayoffMonths && len(active) > 0; month++ {
		for i := range active {
			interest := active[i].balance.Mul(active[i].monthlyRate)
			active[i].balance = active[i].balance.Add(interest)
			totalInterest = totalInterest.Add(interest)
		}

		for i := range active {
			pay := decimal.Min(active[i].minimum, active[i].balance)
			if pay.IsPositive() {
				active[i].balance = active[i].balance.Sub(pay)
				totalPaid = totalPaid.Add(pay)
			}
		}

		if extra.IsPositive() {
			for i := range active {
				if active[i].balance.GreaterThan(paidOffThreshold) {
					pay := decimal.Min(extra, active[i].balance)
					active[i].balance = active[i].balance.Sub(pay)
					totalPaid = totalPaid.Add(pay)
					break
				}
			}
		}

		open := active[:0]
		for _, d := range active {
			if d.balance.LessThanOrEqual(paidOffThreshold) {
				debtsFree++
				order = append(order, d.name)
				continue
			}
			open = append(open, d)
		}
		active = open

		totalBalance := decimal.Zero
		for _, d := range active {
			totalBalance = totalBalance.Add(d.balance)
		}

		projections = append(projections, domain.MonthlyProjection{
			Month:         month,
			TotalBalance:  money.Cents(totalBalance),
			TotalPaid:     money.Cents(totalPaid),
			TotalInterest: money.Cents(totalInterest),
			DebtsFree:     debtsFree,
		})

		if totalBalance.LessThan(paidOffThreshold) {
			break
		}
	}

	summary := SummarizePayoff(projections)
	summary.Strategy = domain.PayoffStrategy(strategy.Name())
	summary.PayoffOrder = order
	summary.StartingDebt = money.Cents(starting)
	summary.MonthlyOutlay = money.Cents(outlay)
	summary.ExtraPayment = money.Cents(extra)

	return DebtPayoffPlan{
		Strategy:    strategy.Name(),
		Projections: projections,
		PayoffOrder: order,
		Summary:     summary,
	}
}

// SummarizePayoff reads the final projection of a series
func SummarizePayoff(projections []domain.MonthlyProjection) domain.PayoffSummary {
	if len(projections) == 0 {
		return domain.PayoffSummary{PaidOff: true}
	}
	last := projections[len(projections)-1]
	return domain.PayoffSummary{
		Months:        last.Month,
		TotalInterest: last.TotalInterest,
		TotalPaid:     last.TotalPaid,
		RemainingDebt: last.TotalBalance,
		PaidOff:       last.TotalBalance < 0.01,
		DebtsFree:     last.DebtsFree,
	}
}
