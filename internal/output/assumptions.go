package output

// DefaultAssumptions lists modeling assumptions rendered in detailed outputs
var DefaultAssumptions = []string{
	"Interest rates are annual percentages compounded monthly unless a calculator says otherwise",
	"Amounts are rounded half-up to the cent after full-precision decimal arithmetic",
	"Debt payoff sends the whole extra payment to one debt at a time, in strategy order, for at most 360 months",
	"Mortgage PMI applies only when the down payment is below 20% of the price",
	"Tax brackets default to the 2025 single-filer federal schedule",
}
