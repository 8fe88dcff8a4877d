package calculator

import (
	"testing"

	"github.com/rgehrsitz/fincalc/internal/calculation"
	"github.com/rgehrsitz/fincalc/internal/domain"
	"github.com/rgehrsitz/fincalc/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mount(t *testing.T, id string) *Engine[Result] {
	t.Helper()
	e, err := Default().NewEngine(id)
	require.NoError(t, err)
	return e
}

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{
		"amortization", "compound-interest", "debt-payoff", "emergency-fund",
		"future-value", "income-tax", "irr", "loan-payment", "mortgage",
		"present-value", "savings-goal",
	}, r.IDs())

	_, err := r.NewEngine("retirement")
	assert.EqualError(t, err, "unknown calculator: retirement")

	err = r.Register(Definition{ID: "mortgage", Compute: func(validation.Values) (Result, error) { return Result{}, nil }})
	assert.Error(t, err)
	assert.Error(t, r.Register(Definition{ID: "no-compute"}))
	assert.Error(t, r.Register(Definition{}))
}

func TestMortgageCalculator(t *testing.T) {
	e := mount(t, "mortgage")

	s := e.SetValues(validation.Values{
		"home_price":      "350,000",
		"down_payment":    "70000",
		"interest_rate":   "6",
		"loan_term_years": "30",
	})
	require.True(t, s.IsValid, "%v", s.Errors)
	require.NotNil(t, s.Result)
	assert.Equal(t, "mortgage", s.Result.Calculator)
	assert.Equal(t, 1678.74, s.Result.Value("principal_and_interest"))
	assert.Equal(t, 0.0, s.Result.Value("monthly_pmi"))
	assert.IsType(t, domain.MortgageResult{}, s.Result.Data)

	s = e.UpdateField("down_payment", 35000)
	assert.Equal(t, 131.25, s.Result.Value("monthly_pmi"))

	s = e.UpdateField("down_payment", 400000)
	assert.Nil(t, s.Result)
	msg, ok := validation.FieldError(s.Errors, "down_payment")
	require.True(t, ok)
	assert.Equal(t, "Down payment cannot exceed the home price", msg)

	s = e.UpdateField("home_price", 500000)
	assert.True(t, s.IsValid, "raising the price clears the down payment error")
}

func TestLoanPaymentCalculator(t *testing.T) {
	e := mount(t, "loan-payment")

	s := e.SetValues(validation.Values{"principal": 280000, "annual_rate": 6, "years": 30})
	require.NotNil(t, s.Result)
	assert.Equal(t, 1678.74, s.Result.Value("monthly_payment"))
	assert.Equal(t, 360.0, s.Result.Value("payments"))

	s = e.SetValues(validation.Values{"principal": 12000, "annual_rate": 0, "years": 1, "future_value": 0})
	assert.Equal(t, 1000.0, s.Result.Value("monthly_payment"))
	assert.Equal(t, 0.0, s.Result.Value("total_interest"))

	s = e.UpdateField("timing", "sideways")
	assert.False(t, s.IsValid)
}

func TestLoanPaymentCalculator_RoundsToCents(t *testing.T) {
	e := mount(t, "loan-payment")

	s := e.SetValues(validation.Values{"principal": 25000, "annual_rate": 7, "years": 5})
	require.NotNil(t, s.Result)
	assert.Equal(t, 495.03, s.Result.Value("monthly_payment"))
	assert.Equal(t, 29701.8, s.Result.Value("total_paid"))
	assert.Equal(t, 4701.8, s.Result.Value("total_interest"))
	assert.Equal(t, 495.03, s.Result.Data.(map[string]any)["payment"])
}

func TestAmortizationCalculator(t *testing.T) {
	e := mount(t, "amortization")

	s := e.SetValues(validation.Values{"principal": 10000, "annual_rate": 12, "years": 1})
	require.NotNil(t, s.Result)
	assert.Equal(t, 888.49, s.Result.Value("monthly_payment"))
	assert.Equal(t, 661.85, s.Result.Value("total_interest"))
	require.NotNil(t, s.Result.Table)
	assert.Len(t, s.Result.Table.Rows, 12)
	assert.Equal(t, []string{"1", "$888.49", "$788.49", "$100.00", "$9,211.51", "$100.00"}, s.Result.Table.Rows[0])
}

func TestGrowthCalculators(t *testing.T) {
	ci := mount(t, "compound-interest")
	s := ci.SetValues(validation.Values{"principal": 10000, "annual_rate": 5, "years": 10, "compounds_per_year": 12, "monthly_contribution": 0})
	require.NotNil(t, s.Result)
	assert.Equal(t, 16470.09, s.Result.Value("final_amount"))
	assert.Equal(t, 5.1162, s.Result.Value("effective_rate"))

	s = ci.UpdateField("compounds_per_year", 7)
	assert.False(t, s.IsValid)

	fv := mount(t, "future-value")
	s = fv.SetValues(validation.Values{"amount": 10000, "annual_rate": 5, "years": 10, "compounds_per_year": 12})
	assert.Equal(t, 16470.09, s.Result.Value("future_value"))

	pv := mount(t, "present-value")
	s = pv.SetValues(validation.Values{"future_amount": 16470.09, "annual_rate": 5, "years": 10, "compounds_per_year": 12})
	assert.InDelta(t, 10000, s.Result.Value("present_value"), 0.01)
}

func TestSavingsGoalCalculator(t *testing.T) {
	e := mount(t, "savings-goal")

	s := e.SetValues(validation.Values{"goal": 10000, "annual_rate": 5, "years": 10, "current_savings": 10000})
	require.NotNil(t, s.Result)
	assert.Equal(t, 0.0, s.Result.Value("monthly_savings"))

	s = e.UpdateField("years", 0)
	assert.False(t, s.IsValid)
}

func TestIRRCalculator(t *testing.T) {
	e := mount(t, "irr")

	s := e.UpdateField("cashflows", "-1000, 1100")
	require.NotNil(t, s.Result)
	assert.InDelta(t, 10.0, s.Result.Value("irr"), 0.0001)

	s = e.UpdateField("cashflows", "1000, 1100")
	assert.False(t, s.IsValid)
	msg, _ := validation.FieldError(s.Errors, "cashflows")
	assert.Equal(t, "Cashflows need at least two entries with both an outflow and an inflow", msg)

	// Valid input whose solver fails to converge degrades to no result.
	s = e.UpdateField("cashflows", "-1000, 100, 100")
	assert.True(t, s.IsValid)
	assert.Nil(t, s.Result)
}

func TestIncomeTaxCalculator(t *testing.T) {
	e := mount(t, "income-tax")

	s := e.UpdateField("gross_income", 65000)
	require.NotNil(t, s.Result)
	assert.Equal(t, 5914.0, s.Result.Value("tax"))
	assert.Equal(t, 22.0, s.Result.Value("marginal_rate"))
	require.NotNil(t, s.Result.Table)
	assert.Len(t, s.Result.Table.Rows, 3)
	assert.Equal(t, []string{"$0.00 - $11,925.00", "10%", "$11,925.00", "$1,192.50"}, s.Result.Table.Rows[0])

	s = e.UpdateField("brackets", "0-10000:10, 20000+:20")
	assert.False(t, s.IsValid, "gap between brackets")
}

func TestDebtPayoffCalculator(t *testing.T) {
	e := mount(t, "debt-payoff")

	s := e.SetValues(validation.Values{
		"debts":         "A:5000:20:100; B:2000:10:50",
		"extra_payment": 200,
		"strategy":      "avalanche",
	})
	require.NotNil(t, s.Result)
	assert.Equal(t, 26.0, s.Result.Value("months"))
	assert.Equal(t, 1218.27, s.Result.Value("total_interest"))
	assert.Equal(t, 350.0, s.Result.Value("monthly_outlay"))
	plan, ok := s.Result.Data.(*calculation.DebtPayoffPlan)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, plan.PayoffOrder)

	s = e.UpdateField("strategy", "snowball")
	assert.Equal(t, 1662.46, s.Result.Value("total_interest"))

	s = e.SetValues(validation.Values{"debts": "Stuck:1000:12:10", "extra_payment": 0})
	_, ok = s.Result.Metric("remaining_debt")
	assert.True(t, ok, "unpaid balance reported after the 30 year cap")

	s = e.UpdateField("debts", "")
	assert.False(t, s.IsValid)
}

func TestEmergencyFundCalculator(t *testing.T) {
	e := mount(t, "emergency-fund")

	s := e.SetValues(validation.Values{"monthly_expenses": 3000, "current_savings": 9000, "monthly_savings": 500, "target_months": 6})
	require.NotNil(t, s.Result)
	assert.Equal(t, 18000.0, s.Result.Value("target_amount"))
	assert.Equal(t, 18.0, s.Result.Value("time_to_goal"))
	assert.Equal(t, 50.0, s.Result.Value("current_progress"))
}

func TestDefinitionOptions(t *testing.T) {
	def, ok := Default().Get("mortgage")
	require.True(t, ok)

	e := def.NewEngine(
		WithInitialValues(validation.Values{"home_price": "400,000"}),
		WithRules("down_payment", validation.MustCompileExpr("value >= values.home_price * 0.1", "Put at least 10% down")),
		WithDependencies(validation.Dependencies{"interest_rate": {"pmi"}}),
		WithLogger(NopLogger{}),
	)
	assert.Equal(t, 400000.0, e.State().Values["home_price"])

	s := e.UpdateField("down_payment", 20000)
	msg, ok := validation.FieldError(s.Errors, "down_payment")
	require.True(t, ok)
	assert.Equal(t, "Put at least 10% down", msg)

	fresh := def.NewEngine()
	assert.True(t, fresh.UpdateField("down_payment", 20000).IsValid, "options do not leak into the definition")
}

func TestWithInitialValues_UnparseableValueIsReported(t *testing.T) {
	def, ok := Default().Get("loan-payment")
	require.True(t, ok)

	e := def.NewEngine(WithInitialValues(validation.Values{"principal": "25,000", "future_value": "five thousand"}))
	assert.Equal(t, 25000.0, e.State().Values["principal"])
	assert.Equal(t, "five thousand", e.State().Values["future_value"], "raw input is kept for display")

	assert.False(t, e.Validate())
	s := e.State()
	assert.Equal(t, []validation.Error{{Field: "future_value", Message: "Enter a valid number"}}, s.Errors)
	assert.Nil(t, s.Result)

	assert.Empty(t, e.Reset().Errors)
	assert.False(t, e.Validate(), "reset restores the unparseable initial value")

	s = e.UpdateField("future_value", "5,000")
	assert.True(t, s.IsValid)
	require.NotNil(t, s.Result)
}

func TestWithInitialValues_LaterValueReplacesParseError(t *testing.T) {
	def, ok := Default().Get("loan-payment")
	require.True(t, ok)

	e := def.NewEngine(
		WithInitialValues(validation.Values{"future_value": "five thousand"}),
		WithInitialValues(validation.Values{"future_value": "5000"}),
	)
	assert.True(t, e.Validate())
	require.NotNil(t, e.State().Result)
}
