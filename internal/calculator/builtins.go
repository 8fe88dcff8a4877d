package calculator

import (
	"fmt"
	"math"
	"strconv"

	"github.com/rgehrsitz/fincalc/internal/calculation"
	"github.com/rgehrsitz/fincalc/internal/domain"
	"github.com/rgehrsitz/fincalc/internal/money"
	"github.com/rgehrsitz/fincalc/internal/validation"
)

// Builtins returns every built-in calculator definition
func Builtins() []Definition {
	return []Definition{
		mortgageCalculator(),
		loanPaymentCalculator(),
		amortizationCalculator(),
		compoundInterestCalculator(),
		futureValueCalculator(),
		presentValueCalculator(),
		savingsGoalCalculator(),
		irrCalculator(),
		incomeTaxCalculator(),
		debtPayoffCalculator(),
		emergencyFundCalculator(),
	}
}

var (
	required = validation.Required("")
	nonNeg   = validation.Min(0, "Cannot be negative")
	positive = validation.Positive("")
	rate     = validation.Max(100, "Rate cannot exceed 100%")
)

func termYears(max float64) []validation.Rule {
	return []validation.Rule{required, validation.Min(1, "Term must be at least 1 year"), validation.Max(max, fmt.Sprintf("Term cannot exceed %g years", max))}
}

var compoundingOptions = []string{"1", "2", "4", "12", "365"}

func compoundingField() Field {
	return Field{Key: "compounds_per_year", Label: "Compounds per year", Kind: KindInteger, Default: 12, Help: "1, 2, 4, 12 or 365"}
}

func compoundingRule() validation.Rule {
	return validation.Custom("compounding", func(value any, _ validation.Values) bool {
		f, ok := validation.ToFloat(value)
		if !ok {
			return validation.IsEmpty(value)
		}
		for _, o := range compoundingOptions {
			if strconv.Itoa(int(f)) == o {
				return true
			}
		}
		return false
	}, "Compounding must be 1, 2, 4, 12 or 365 times a year")
}

func f(v validation.Values, key string) float64 {
	return v.FloatOr(key, 0)
}

func n(v validation.Values, key string) int {
	i, _ := v.Int(key)
	return i
}

func mortgageCalculator() Definition {
	return Definition{
		ID:          "mortgage",
		Name:        "Mortgage",
		Description: "Monthly housing payment including escrow and PMI",
		Fields: []Field{
			{Key: "home_price", Label: "Home price", Kind: KindCurrency, Default: 350000.0},
			{Key: "down_payment", Label: "Down payment", Kind: KindCurrency, Default: 70000.0},
			{Key: "interest_rate", Label: "Interest rate (%)", Kind: KindPercent, Default: 6.0},
			{Key: "loan_term_years", Label: "Loan term (years)", Kind: KindInteger, Default: 30},
			{Key: "property_tax", Label: "Property tax (annual)", Kind: KindCurrency, Default: 0.0},
			{Key: "insurance", Label: "Home insurance (annual)", Kind: KindCurrency, Default: 0.0},
			{Key: "pmi", Label: "PMI (% of loan per year)", Kind: KindPercent, Default: 0.5, Help: "Charged only when the down payment is under 20%"},
		},
		Rules: map[string][]validation.Rule{
			"home_price":      {required, validation.Positive("Home price must be greater than 0")},
			"down_payment":    {required, nonNeg, validation.AtMostField("home_price", "Down payment cannot exceed the home price")},
			"interest_rate":   {required, nonNeg, validation.Max(30, "Interest rate cannot exceed 30%")},
			"loan_term_years": termYears(50),
			"property_tax":    {nonNeg},
			"insurance":       {nonNeg},
			"pmi":             {nonNeg, validation.Max(5, "PMI cannot exceed 5%")},
		},
		Dependencies: validation.Dependencies{"home_price": {"down_payment"}},
		Compute: func(v validation.Values) (Result, error) {
			r := calculation.CalculateMortgage(domain.MortgageInput{
				HomePrice:     f(v, "home_price"),
				DownPayment:   f(v, "down_payment"),
				InterestRate:  f(v, "interest_rate"),
				LoanTermYears: n(v, "loan_term_years"),
				PropertyTax:   f(v, "property_tax"),
				Insurance:     f(v, "insurance"),
				PMI:           f(v, "pmi"),
			})
			return Result{
				Metrics: []Metric{
					currency("monthly_payment", "Monthly payment", r.MonthlyPayment),
					currency("principal_and_interest", "Principal & interest", r.PrincipalAndInterest),
					currency("monthly_property_tax", "Property tax", r.MonthlyPropertyTax),
					currency("monthly_insurance", "Insurance", r.MonthlyInsurance),
					currency("monthly_pmi", "PMI", r.MonthlyPMI),
					currency("loan_amount", "Loan amount", r.LoanAmount),
					percent("down_payment_percent", "Down payment", r.DownPaymentPercent),
					currency("total_interest", "Total interest", r.TotalInterest),
					currency("total_cost", "Total cost", r.TotalCost),
				},
				Data: r,
			}, nil
		},
	}
}

func loanPaymentCalculator() Definition {
	return Definition{
		ID:          "loan-payment",
		Name:        "Loan payment",
		Description: "Level monthly payment for a loan, optionally leaving a balloon balance",
		Fields: []Field{
			{Key: "principal", Label: "Loan amount", Kind: KindCurrency, Default: 25000.0},
			{Key: "annual_rate", Label: "Annual rate (%)", Kind: KindPercent, Default: 7.0},
			{Key: "years", Label: "Term (years)", Kind: KindInteger, Default: 5},
			{Key: "future_value", Label: "Balance left at end", Kind: KindCurrency, Default: 0.0},
			{Key: "timing", Label: "Payments due", Kind: KindChoice, Default: "end", Options: []string{"end", "start"}},
		},
		Rules: map[string][]validation.Rule{
			"principal":   {required, positive},
			"annual_rate": {required, nonNeg, rate},
			"years":       termYears(40),
			"timing":      {required},
		},
		Compute: func(v validation.Values) (Result, error) {
			timing := calculation.PaymentAtEnd
			if v.String("timing") == "start" {
				timing = calculation.PaymentAtStart
			}
			periods := n(v, "years") * 12
			principal := f(v, "principal")
			periodic := money.Float(money.MonthlyRate(f(v, "annual_rate")))
			pmt, err := calculation.CalculatePMTWithOptions(principal, periodic, periods, -f(v, "future_value"), timing)
			if err != nil {
				return Result{}, err
			}
			payment := money.Round2(-pmt)
			totalPaid := money.Round2(payment * float64(periods))
			interest := money.Round2(totalPaid - principal + f(v, "future_value"))
			return Result{
				Metrics: []Metric{
					currency("monthly_payment", "Monthly payment", payment),
					count("payments", "Number of payments", periods),
					currency("total_paid", "Total paid", totalPaid),
					currency("total_interest", "Total interest", interest),
				},
				Data: map[string]any{"payment": payment, "periods": periods, "totalPaid": totalPaid, "totalInterest": interest},
			}, nil
		},
	}
}

func amortizationCalculator() Definition {
	return Definition{
		ID:          "amortization",
		Name:        "Amortization schedule",
		Description: "Month-by-month split of a fixed loan payment into principal and interest",
		Fields: []Field{
			{Key: "principal", Label: "Loan amount", Kind: KindCurrency, Default: 200000.0},
			{Key: "annual_rate", Label: "Annual rate (%)", Kind: KindPercent, Default: 6.0},
			{Key: "years", Label: "Term (years)", Kind: KindInteger, Default: 30},
		},
		Rules: map[string][]validation.Rule{
			"principal":   {required, positive},
			"annual_rate": {required, nonNeg, rate},
			"years":       termYears(50),
		},
		Compute: func(v validation.Values) (Result, error) {
			schedule := calculation.GenerateAmortizationSchedule(f(v, "principal"), f(v, "annual_rate"), n(v, "years"))
			if len(schedule) == 0 {
				return Result{}, fmt.Errorf("empty amortization schedule")
			}
			sum := calculation.SummarizeSchedule(schedule)
			return Result{
				Metrics: []Metric{
					currency("monthly_payment", "Monthly payment", sum.MonthlyPayment),
					months("months", "Payments", sum.Months),
					currency("total_interest", "Total interest", sum.TotalInterest),
					currency("total_paid", "Total paid", sum.TotalPaid),
				},
				Table: AmortizationTable(schedule),
				Data:  schedule,
			}, nil
		},
	}
}

// AmortizationTable renders a schedule as a table
func AmortizationTable(schedule []domain.AmortizationRow) *Table {
	t := &Table{
		Title:   "Amortization schedule",
		Columns: []string{"Month", "Payment", "Principal", "Interest", "Balance", "Total interest"},
		Rows:    make([][]string, 0, len(schedule)),
	}
	for _, r := range schedule {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(r.Month),
			money.FormatCurrency(r.Payment),
			money.FormatCurrency(r.Principal),
			money.FormatCurrency(r.Interest),
			money.FormatCurrency(r.Balance),
			money.FormatCurrency(r.TotalInterest),
		})
	}
	return t
}

func growthFields(amountKey, amountLabel string, amount float64) []Field {
	return []Field{
		{Key: amountKey, Label: amountLabel, Kind: KindCurrency, Default: amount},
		{Key: "annual_rate", Label: "Annual rate (%)", Kind: KindPercent, Default: 5.0},
		{Key: "years", Label: "Years", Kind: KindNumber, Default: 10.0},
		compoundingField(),
		{Key: "monthly_contribution", Label: "Monthly contribution", Kind: KindCurrency, Default: 0.0},
	}
}

func growthRules(amountKey string) map[string][]validation.Rule {
	return map[string][]validation.Rule{
		amountKey:              {required, nonNeg},
		"annual_rate":          {required, nonNeg, rate},
		"years":                {required, positive, validation.Max(100, "Cannot exceed 100 years")},
		"compounds_per_year":   {required, compoundingRule()},
		"monthly_contribution": {nonNeg},
	}
}

func timeValueInput(v validation.Values, amountKey string) domain.TimeValueInput {
	return domain.TimeValueInput{
		Amount:              f(v, amountKey),
		AnnualRate:          f(v, "annual_rate"),
		Years:               f(v, "years"),
		CompoundsPerYear:    n(v, "compounds_per_year"),
		MonthlyContribution: f(v, "monthly_contribution"),
	}
}

func compoundInterestCalculator() Definition {
	return Definition{
		ID:          "compound-interest",
		Name:        "Compound interest",
		Description: "Growth of a deposit plus monthly contributions",
		Fields:      growthFields("principal", "Initial deposit", 10000),
		Rules:       growthRules("principal"),
		Compute: func(v validation.Values) (Result, error) {
			in := timeValueInput(v, "principal")
			r := calculation.CalculateCompoundInterest(domain.CompoundInterestInput{
				Principal:           in.Amount,
				Rate:                in.AnnualRate,
				CompoundsPerYear:    in.CompoundsPerYear,
				Years:               in.Years,
				MonthlyContribution: in.MonthlyContribution,
			})
			return Result{
				Metrics: []Metric{
					currency("final_amount", "Final amount", r.FinalAmount),
					currency("total_contributions", "Total contributions", r.TotalContributions),
					currency("total_interest", "Interest earned", r.TotalInterest),
					percent("effective_rate", "Effective annual rate", r.EffectiveRate),
				},
				Data: r,
			}, nil
		},
	}
}

func futureValueCalculator() Definition {
	return Definition{
		ID:          "future-value",
		Name:        "Future value",
		Description: "What a present amount and a contribution stream grow to",
		Fields:      growthFields("amount", "Present amount", 10000),
		Rules:       growthRules("amount"),
		Compute: func(v validation.Values) (Result, error) {
			fv := calculation.CalculateFutureValue(timeValueInput(v, "amount"))
			return Result{
				Metrics: []Metric{currency("future_value", "Future value", fv)},
				Data:    map[string]float64{"futureValue": fv},
			}, nil
		},
	}
}

func presentValueCalculator() Definition {
	return Definition{
		ID:          "present-value",
		Name:        "Present value",
		Description: "Amount needed today to reach a future sum, net of planned contributions",
		Fields:      growthFields("future_amount", "Future amount", 100000),
		Rules:       growthRules("future_amount"),
		Compute: func(v validation.Values) (Result, error) {
			pv := calculation.CalculatePresentValue(timeValueInput(v, "future_amount"))
			return Result{
				Metrics: []Metric{currency("present_value", "Present value", pv)},
				Data:    map[string]float64{"presentValue": pv},
			}, nil
		},
	}
}

func savingsGoalCalculator() Definition {
	return Definition{
		ID:          "savings-goal",
		Name:        "Savings goal",
		Description: "Monthly saving needed to reach a goal",
		Fields: []Field{
			{Key: "goal", Label: "Goal", Kind: KindCurrency, Default: 50000.0},
			{Key: "annual_rate", Label: "Annual return (%)", Kind: KindPercent, Default: 4.0},
			{Key: "years", Label: "Years", Kind: KindNumber, Default: 5.0},
			{Key: "current_savings", Label: "Current savings", Kind: KindCurrency, Default: 0.0},
		},
		Rules: map[string][]validation.Rule{
			"goal":            {required, positive},
			"annual_rate":     {required, nonNeg, rate},
			"years":           {required, positive, validation.Max(100, "Cannot exceed 100 years")},
			"current_savings": {nonNeg},
		},
		Compute: func(v validation.Values) (Result, error) {
			monthly := calculation.CalculateRequiredMonthlySavings(f(v, "goal"), f(v, "annual_rate"), f(v, "years"), f(v, "current_savings"))
			projected := calculation.CalculateFutureValue(domain.TimeValueInput{
				Amount:           f(v, "current_savings"),
				AnnualRate:       f(v, "annual_rate"),
				Years:            f(v, "years"),
				CompoundsPerYear: calculation.DefaultCompoundsPerYear,
			})
			return Result{
				Metrics: []Metric{
					currency("monthly_savings", "Required monthly savings", monthly),
					currency("projected_savings", "Current savings grow to", projected),
				},
				Data: map[string]float64{"monthlySavings": monthly, "projectedSavings": projected},
			}, nil
		},
	}
}

func irrCalculator() Definition {
	return Definition{
		ID:          "irr",
		Name:        "Internal rate of return",
		Description: "Rate at which a series of cashflows has zero net present value",
		Fields: []Field{
			{Key: "cashflows", Label: "Cashflows", Kind: KindCashflows, Default: []float64{-10000, 3000, 4200, 6800}, Help: "Period 0 first, comma separated"},
			{Key: "guess", Label: "Starting guess (%)", Kind: KindPercent, Default: calculation.DefaultIRRGuess},
		},
		Rules: map[string][]validation.Rule{
			"cashflows": {
				required,
				validation.NotEmptyList("Enter at least two cashflows"),
				validation.Custom("sign_change", func(value any, _ validation.Values) bool {
					flows, ok := value.([]float64)
					if !ok {
						return false
					}
					pos, neg := false, false
					for _, c := range flows {
						pos = pos || c > 0
						neg = neg || c < 0
					}
					return len(flows) >= 2 && pos && neg
				}, "Cashflows need at least two entries with both an outflow and an inflow"),
			},
			"guess": {validation.Min(-99, "Guess must be above -99%")},
		},
		Compute: func(v validation.Values) (Result, error) {
			flows, _ := v["cashflows"].([]float64)
			guess := v.FloatOr("guess", calculation.DefaultIRRGuess)
			irr, err := calculation.CalculateIRR(flows, guess)
			if err != nil {
				return Result{}, err
			}
			total := 0.0
			for _, c := range flows {
				total += c
			}
			return Result{
				Metrics: []Metric{
					percent("irr", "Internal rate of return", irr),
					count("periods", "Periods", len(flows)-1),
					currency("net_cashflow", "Undiscounted net cashflow", money.Round2(total)),
				},
				Data: map[string]float64{"irr": irr},
			}, nil
		},
	}
}

func incomeTaxCalculator() Definition {
	return Definition{
		ID:          "income-tax",
		Name:        "Income tax",
		Description: "Progressive federal income tax after the standard deduction",
		Fields: []Field{
			{Key: "gross_income", Label: "Gross income", Kind: KindCurrency, Default: 85000.0},
			{Key: "standard_deduction", Label: "Standard deduction", Kind: KindCurrency, Default: 15000.0},
			{Key: "brackets", Label: "Tax brackets", Kind: KindBrackets, Default: calculation.DefaultBrackets2025(), Help: "min-max:rate%, last bracket open (626350+:37)"},
		},
		Rules: map[string][]validation.Rule{
			"gross_income":       {required, nonNeg},
			"standard_deduction": {nonNeg},
			"brackets": {
				validation.NotEmptyList("Enter at least one bracket"),
				validation.Custom("bracket_order", func(value any, _ validation.Values) bool {
					bs, ok := value.([]domain.TaxBracket)
					if !ok {
						return false
					}
					for i, b := range bs {
						if b.Rate < 0 || b.Rate > 1 || b.Max <= b.Min {
							return false
						}
						if i > 0 && b.Min != bs[i-1].Max {
							return false
						}
					}
					return true
				}, "Brackets must be contiguous, ascending, with rates between 0 and 100%"),
			},
		},
		Compute: func(v validation.Values) (Result, error) {
			brackets, _ := v["brackets"].([]domain.TaxBracket)
			tc := calculation.NewFederalTaxCalculator(f(v, "standard_deduction"), brackets)
			b := tc.Calculate(f(v, "gross_income"))
			return Result{
				Metrics: []Metric{
					currency("tax", "Federal tax", b.Tax),
					currency("taxable_income", "Taxable income", b.TaxableIncome),
					percent("effective_rate", "Effective rate", b.EffectiveRate),
					percent("marginal_rate", "Marginal rate", b.MarginalRate),
					currency("after_tax", "After-tax income", b.AfterTax),
				},
				Table: bracketTable(b.TaxableIncome, brackets),
				Data:  b,
			}, nil
		},
	}
}

func bracketTable(taxable float64, brackets []domain.TaxBracket) *Table {
	t := &Table{Title: "Tax by bracket", Columns: []string{"Bracket", "Rate", "Income taxed", "Tax"}}
	for _, b := range brackets {
		if taxable <= b.Min {
			break
		}
		top := math.Min(taxable, b.Max)
		slice := money.Round2(top - b.Min)
		upper := "and up"
		if !math.IsInf(b.Max, 1) {
			upper = money.FormatCurrency(b.Max)
		}
		t.Rows = append(t.Rows, []string{
			money.FormatCurrency(b.Min) + " - " + upper,
			money.FormatPercentage(b.Rate*100, 0),
			money.FormatCurrency(slice),
			money.FormatCurrency(calculation.CalculateProgressiveTax(slice, []domain.TaxBracket{{Min: 0, Max: math.Inf(1), Rate: b.Rate}})),
		})
	}
	return t
}

func debtPayoffCalculator() Definition {
	return Definition{
		ID:          "debt-payoff",
		Name:        "Debt payoff",
		Description: "Month-by-month payoff of several debts using the avalanche or snowball order",
		Fields: []Field{
			{Key: "debts", Label: "Debts", Kind: KindDebts, Default: sampleDebts(), Help: "name:balance:rate:minimum; ..."},
			{Key: "extra_payment", Label: "Extra monthly payment", Kind: KindCurrency, Default: 100.0},
			{Key: "strategy", Label: "Strategy", Kind: KindChoice, Default: string(domain.StrategyAvalanche), Options: []string{string(domain.StrategyAvalanche), string(domain.StrategySnowball)}},
		},
		Rules: map[string][]validation.Rule{
			"debts": {
				validation.NotEmptyList("Add at least one debt"),
				validation.Custom("debt_terms", func(value any, _ validation.Values) bool {
					ds, ok := value.([]domain.Debt)
					if !ok {
						return false
					}
					for _, d := range ds {
						if d.Balance < 0 || d.MinimumPayment < 0 || d.InterestRate < 0 || d.InterestRate > 100 {
							return false
						}
					}
					return true
				}, "Balances, minimum payments and rates must be non-negative"),
			},
			"extra_payment": {required, nonNeg},
			"strategy":      {required},
		},
		Compute: func(v validation.Values) (Result, error) {
			debts, _ := v["debts"].([]domain.Debt)
			plan, err := calculation.PlanDebtPayoff(debts, f(v, "extra_payment"), v.String("strategy"))
			if err != nil {
				return Result{}, err
			}
			s := plan.Summary
			metrics := []Metric{
				months("months", "Time to payoff", s.Months),
				currency("total_interest", "Total interest", s.TotalInterest),
				currency("total_paid", "Total paid", s.TotalPaid),
				currency("monthly_outlay", "Monthly outlay", s.MonthlyOutlay),
				count("debts_free", "Debts paid off", s.DebtsFree),
			}
			if !s.PaidOff {
				metrics = append(metrics, currency("remaining_debt", "Still owed after 30 years", s.RemainingDebt))
			}
			return Result{
				Metrics: metrics,
				Table:   ProjectionTable(plan.Projections),
				Data:    plan,
			}, nil
		},
	}
}

func sampleDebts() []domain.Debt {
	return []domain.Debt{
		{ID: "card", Name: "Credit card", Balance: 5000, MinimumPayment: 100, InterestRate: 20},
		{ID: "auto", Name: "Auto loan", Balance: 2000, MinimumPayment: 50, InterestRate: 10},
	}
}

// ProjectionTable renders a payoff projection series
func ProjectionTable(projections []domain.MonthlyProjection) *Table {
	t := &Table{
		Title:   "Payoff projection",
		Columns: []string{"Month", "Balance", "Total paid", "Total interest", "Debts free"},
		Rows:    make([][]string, 0, len(projections)),
	}
	for _, p := range projections {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(p.Month),
			money.FormatCurrency(p.TotalBalance),
			money.FormatCurrency(p.TotalPaid),
			money.FormatCurrency(p.TotalInterest),
			strconv.Itoa(p.DebtsFree),
		})
	}
	return t
}

func emergencyFundCalculator() Definition {
	return Definition{
		ID:          "emergency-fund",
		Name:        "Emergency fund",
		Description: "Progress toward a cash reserve of several months of expenses",
		Fields: []Field{
			{Key: "monthly_expenses", Label: "Monthly expenses", Kind: KindCurrency, Default: 3000.0},
			{Key: "current_savings", Label: "Current savings", Kind: KindCurrency, Default: 0.0},
			{Key: "monthly_savings", Label: "Monthly savings", Kind: KindCurrency, Default: 500.0},
			{Key: "target_months", Label: "Target (months of expenses)", Kind: KindInteger, Default: calculation.DefaultEmergencyMonths},
		},
		Rules: map[string][]validation.Rule{
			"monthly_expenses": {required, nonNeg},
			"current_savings":  {nonNeg},
			"monthly_savings":  {nonNeg},
			"target_months":    {required, validation.Min(1, "Target at least one month"), validation.Max(24, "Target at most 24 months")},
		},
		Compute: func(v validation.Values) (Result, error) {
			r := calculation.CalculateEmergencyFund(f(v, "monthly_expenses"), f(v, "current_savings"), f(v, "monthly_savings"), n(v, "target_months"))
			return Result{
				Metrics: []Metric{
					currency("target_amount", "Target", r.TargetAmount),
					currency("remaining_needed", "Still needed", r.RemainingNeeded),
					months("time_to_goal", "Time to goal", r.TimeToGoal),
					percent("current_progress", "Progress", r.CurrentProgress),
				},
				Data: r,
			}, nil
		},
	}
}
