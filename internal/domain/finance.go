package domain

import (
	"encoding/json"
	"math"
)

// Debt is one balance in a payoff plan. InterestRate is an annual percentage.
type Debt struct {
	ID             string  `json:"id" yaml:"id" toml:"id"`
	Name           string  `json:"name" yaml:"name" toml:"name"`
	Balance        float64 `json:"balance" yaml:"balance" toml:"balance"`
	MinimumPayment float64 `json:"minimumPayment" yaml:"minimumPayment" toml:"minimumPayment"`
	InterestRate   float64 `json:"interestRate" yaml:"interestRate" toml:"interestRate"`
}

// PayoffStrategy selects the order in which extra payments target debts
type PayoffStrategy string

const (
	StrategyAvalanche PayoffStrategy = "avalanche"
	StrategySnowball  PayoffStrategy = "snowball"
)

// MonthlyProjection is the aggregate state of a payoff plan after one month.
// TotalPaid, TotalInterest and DebtsFree are cumulative.
type MonthlyProjection struct {
	Month         int     `json:"month" yaml:"month"`
	TotalBalance  float64 `json:"totalBalance" yaml:"totalBalance"`
	TotalPaid     float64 `json:"totalPaid" yaml:"totalPaid"`
	TotalInterest float64 `json:"totalInterest" yaml:"totalInterest"`
	DebtsFree     int     `json:"debtsFree" yaml:"debtsFree"`
}

// PayoffSummary condenses a projection series
type PayoffSummary struct {
	Strategy      PayoffStrategy `json:"strategy" yaml:"strategy"`
	Months        int            `json:"months" yaml:"months"`
	TotalInterest float64        `json:"totalInterest" yaml:"totalInterest"`
	TotalPaid     float64        `json:"totalPaid" yaml:"totalPaid"`
	RemainingDebt float64        `json:"remainingDebt" yaml:"remainingDebt"`
	PaidOff       bool           `json:"paidOff" yaml:"paidOff"`
	PayoffOrder   []string       `json:"payoffOrder" yaml:"payoffOrder"`
	DebtsFree     int            `json:"debtsFree" yaml:"debtsFree"`
	StartingDebt  float64        `json:"startingDebt" yaml:"startingDebt"`
	MonthlyOutlay float64        `json:"monthlyOutlay" yaml:"monthlyOutlay"`
	ExtraPayment  float64        `json:"extraPayment" yaml:"extraPayment"`
}

// AmortizationRow is one month of a fixed-payment loan schedule
type AmortizationRow struct {
	Month         int     `json:"month" yaml:"month"`
	Payment       float64 `json:"payment" yaml:"payment"`
	Principal     float64 `json:"principal" yaml:"principal"`
	Interest      float64 `json:"interest" yaml:"interest"`
	Balance       float64 `json:"balance" yaml:"balance"`
	TotalInterest float64 `json:"totalInterest" yaml:"totalInterest"`
}

// TaxBracket is a marginal bracket. Rate is a fraction (0.22 for 22%) and
// Max may be +Inf for the top bracket.
type TaxBracket struct {
	Min  float64 `json:"min" yaml:"min" toml:"min"`
	Max  float64 `json:"max" yaml:"max" toml:"max"`
	Rate float64 `json:"rate" yaml:"rate" toml:"rate"`
}

// MarshalJSON writes an unbounded Max as null, since JSON has no infinity.
func (b TaxBracket) MarshalJSON() ([]byte, error) {
	out := struct {
		Min  float64  `json:"min"`
		Max  *float64 `json:"max"`
		Rate float64  `json:"rate"`
	}{Min: b.Min, Rate: b.Rate}
	if !math.IsInf(b.Max, 1) {
		out.Max = &b.Max
	}
	return json.Marshal(out)
}

// CompoundInterestInput drives CalculateCompoundInterest. Rate is an annual
// percentage.
type CompoundInterestInput struct {
	Principal           float64
	Rate                float64
	CompoundsPerYear    int
	Years               float64
	MonthlyContribution float64
}

// CompoundInterestResult reports growth. EffectiveRate is the annual
// percentage yield.
type CompoundInterestResult struct {
	FinalAmount        float64 `json:"finalAmount" yaml:"finalAmount"`
	TotalContributions float64 `json:"totalContributions" yaml:"totalContributions"`
	TotalInterest      float64 `json:"totalInterest" yaml:"totalInterest"`
	EffectiveRate      float64 `json:"effectiveRate" yaml:"effectiveRate"`
}

// TimeValueInput is shared by the future and present value formulas
type TimeValueInput struct {
	Amount              float64
	AnnualRate          float64
	Years               float64
	CompoundsPerYear    int
	MonthlyContribution float64
}

// MortgageInput drives CalculateMortgage. PropertyTax and Insurance are annual
// dollar amounts; PMI is an annual percentage of the loan amount.
type MortgageInput struct {
	HomePrice     float64
	DownPayment   float64
	InterestRate  float64
	LoanTermYears int
	PropertyTax   float64
	Insurance     float64
	PMI           float64
}

// MortgageResult is the composite monthly cost of a home loan
type MortgageResult struct {
	MonthlyPayment       float64 `json:"monthlyPayment" yaml:"monthlyPayment"`
	PrincipalAndInterest float64 `json:"principalAndInterest" yaml:"principalAndInterest"`
	MonthlyPropertyTax   float64 `json:"monthlyPropertyTax" yaml:"monthlyPropertyTax"`
	MonthlyInsurance     float64 `json:"monthlyInsurance" yaml:"monthlyInsurance"`
	MonthlyPMI           float64 `json:"monthlyPmi" yaml:"monthlyPmi"`
	TotalInterest        float64 `json:"totalInterest" yaml:"totalInterest"`
	TotalCost            float64 `json:"totalCost" yaml:"totalCost"`
	LoanAmount           float64 `json:"loanAmount" yaml:"loanAmount"`
	DownPaymentPercent   float64 `json:"downPaymentPercent" yaml:"downPaymentPercent"`
}

// EmergencyFundResult describes progress toward a cash reserve. TimeToGoal
// is in months; -1 means the goal is unreachable at the current savings rate.
type EmergencyFundResult struct {
	TargetAmount    float64 `json:"targetAmount" yaml:"targetAmount"`
	RemainingNeeded float64 `json:"remainingNeeded" yaml:"remainingNeeded"`
	TimeToGoal      int     `json:"timeToGoal" yaml:"timeToGoal"`
	CurrentProgress float64 `json:"currentProgress" yaml:"currentProgress"`
	IsComplete      bool    `json:"isComplete" yaml:"isComplete"`
}
