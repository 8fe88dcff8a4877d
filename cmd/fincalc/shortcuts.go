package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/fincalc/internal/calculator"
	"github.com/rgehrsitz/fincalc/internal/compare"
	"github.com/rgehrsitz/fincalc/internal/domain"
	"github.com/rgehrsitz/fincalc/internal/validation"
)

func amortizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "amortize",
		Short: "Print a full amortization schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values := validation.Values{}
			copyFlag(cmd, values, "principal", "principal")
			copyFlag(cmd, values, "rate", "annual_rate")
			copyFlag(cmd, values, "years", "years")
			if !cmd.Flags().Changed("format") {
				a.settings.OutputFormat = "console-full"
			}
			return a.evaluate(cmd, "amortization", values, false)
		},
	}
	cmd.Flags().String("principal", "", "loan amount")
	cmd.Flags().String("rate", "", "annual interest rate in percent")
	cmd.Flags().String("years", "", "term in years")
	return cmd
}

func irrCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "irr <cashflow>...",
		Short: "Internal rate of return of a cashflow series",
		Long:  "Cashflows start at period 0, e.g. fincalc irr -- -10000 3000 4200 6800",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := validation.Values{"cashflows": strings.Join(args, ",")}
			copyFlag(cmd, values, "guess", "guess")
			return a.evaluate(cmd, "irr", values, false)
		},
	}
	cmd.Flags().String("guess", "", "starting rate in percent")
	return cmd
}

func payoffCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payoff",
		Short: "Compare debt payoff strategies",
		Long: "Plans paying off --debts (name:balance:rate:minimum; ...) with --extra per month\n" +
			"under --strategy and compares it against each --against strategy.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetString("debts")
			extra, _ := cmd.Flags().GetFloat64("extra")
			base, _ := cmd.Flags().GetString("strategy")
			against, _ := cmd.Flags().GetStringSlice("against")

			parsed, err := calculator.ParseDebts(raw)
			if err != nil {
				return err
			}
			debts := parsed.([]domain.Debt)
			if len(debts) == 0 {
				return fmt.Errorf("no debts given; use --debts name:balance:rate:minimum;...")
			}

			compSet, err := compare.NewCompareEngine().Compare(cmd.Context(), debts, compare.CompareOptions{
				BaseStrategy: base,
				Alternatives: against,
				ExtraPayment: extra,
			})
			if err != nil {
				return err
			}
			a.recordUsage(cmd.Context(), "debt-payoff")

			format := a.settings.OutputFormat
			var out string
			switch format {
			case "json":
				out, err = (&compare.JSONFormatter{Pretty: true}).Format(compSet)
				out += "\n"
			case "csv":
				out, err = (&compare.CSVFormatter{}).Format(compSet)
			case "compact":
				out = (&compare.TableFormatter{}).FormatCompact(compSet) + "\n"
			default:
				out = (&compare.TableFormatter{}).Format(compSet)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().String("debts", "", "debts as name:balance:rate:minimum; ...")
	cmd.Flags().Float64("extra", 0, "extra monthly payment on top of the minimums")
	cmd.Flags().String("strategy", string(domain.StrategyAvalanche), "base strategy: avalanche, snowball or custom:id,id")
	cmd.Flags().StringSlice("against", []string{string(domain.StrategySnowball)}, "strategies to compare against")
	_ = cmd.MarkFlagRequired("debts")
	return cmd
}

// recordUsage reports a calculator use outside an engine, bounded by the
// engine's record timeout. Failures are logged, never returned.
func (a *app) recordUsage(ctx context.Context, id string) {
	ctx, cancel := context.WithTimeout(ctx, calculator.DefaultRecordTimeout)
	defer cancel()
	if err := a.recorder.RecordCalculatorUsage(ctx, id); err != nil {
		a.logger.Debug("usage recorder failed", "calculator", id, "error", err)
	}
}

// copyFlag copies a string flag into values when the user set it
func copyFlag(cmd *cobra.Command, values validation.Values, flag, key string) {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		values[key] = v
	}
}
