package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/fincalc/internal/breakeven"
	"github.com/rgehrsitz/fincalc/internal/calculator"
	"github.com/rgehrsitz/fincalc/internal/config"
	"github.com/rgehrsitz/fincalc/internal/output"
	"github.com/rgehrsitz/fincalc/internal/transform"
)

func whatifCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whatif <calculator>",
		Short: "Compare a calculation against adjusted inputs",
		Long: "Runs the calculator on its inputs (defaults plus --set) and again after applying\n" +
			"each --apply transform and --template in order.\n" +
			"Transforms: set:field=F,value=V  add:field=F,delta=D  scale:field=F,factor=X  pct:field=F,percent=P\n" +
			"Example: fincalc whatif mortgage --apply add:field=interest_rate,delta=1 --template amount_down_10",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, ok := a.registry.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown calculator: %s (see fincalc list)", args[0])
			}
			templates := transform.TemplatesFor(def)
			if list, _ := cmd.Flags().GetBool("list-templates"); list {
				for _, name := range templates.List() {
					t, _ := templates.Get(name)
					fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", t.Name, t.Description)
				}
				return nil
			}

			sets, _ := cmd.Flags().GetStringArray("set")
			specs, _ := cmd.Flags().GetStringArray("apply")
			names, _ := cmd.Flags().GetStringArray("template")
			save, _ := cmd.Flags().GetBool("save")

			values, err := config.ParseAssignments(sets)
			if err != nil {
				return err
			}
			transforms, err := transform.NewTransformRegistry().ParseTransformSpecs(specs)
			if err != nil {
				return err
			}
			for _, name := range names {
				t, ok := templates.Get(name)
				if !ok {
					return fmt.Errorf("unknown template %q for %s (available: %s)", name, def.ID, strings.Join(templates.List(), ", "))
				}
				transforms = append(transforms, t.Transforms...)
			}
			if len(transforms) == 0 {
				return fmt.Errorf("nothing to change; use --apply or --template")
			}

			base := def.NewEngine(a.engineOptions()...)
			baseState := base.SetValues(values)
			adjusted, err := transform.ApplyTransforms(baseState.Values, transforms)
			if err != nil {
				return err
			}
			alt := def.NewEngine(append(a.engineOptions(), calculator.WithInitialValues(adjusted))...)
			alt.Validate()
			<-base.Recorded()
			<-alt.Recorded()

			report := output.NewReport(def.Name+" what-if").
				Add("base", def.ID, baseState).
				Add("what-if: "+transform.Describe(transforms), def.ID, alt.State())
			return a.writeReport(cmd, report, save)
		},
	}
	cmd.Flags().StringArrayP("set", "s", nil, "base field value as key=value (repeatable)")
	cmd.Flags().StringArray("apply", nil, "transform spec name:param=value,... (repeatable)")
	cmd.Flags().StringArray("template", nil, "built-in transform preset (repeatable)")
	cmd.Flags().Bool("list-templates", false, "list the presets for the calculator")
	cmd.Flags().Bool("save", false, "also write the report to a timestamped file")
	return cmd
}

func solveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve <calculator>",
		Short: "Find the input value that reaches a target result",
		Long: "Bisects --vary over [--min, --max] until --metric equals --target.\n" +
			"Each --also field:min:max solves the same target by varying another field instead.\n" +
			"Example: fincalc solve mortgage --metric monthly_payment --target 2000 --vary home_price --min 200000 --max 800000",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sets, _ := cmd.Flags().GetStringArray("set")
			also, _ := cmd.Flags().GetStringArray("also")
			metric, _ := cmd.Flags().GetString("metric")
			vary, _ := cmd.Flags().GetString("vary")

			values, err := config.ParseAssignments(sets)
			if err != nil {
				return err
			}
			req := breakeven.Request{
				Calculator: args[0],
				Values:     values,
				Vary:       vary,
				Metric:     metric,
			}
			for flag, dst := range map[string]*decimal.Decimal{"target": &req.Target, "min": &req.Min, "max": &req.Max, "tolerance": &req.Tolerance} {
				raw, _ := cmd.Flags().GetString(flag)
				if raw == "" {
					continue
				}
				if *dst, err = decimal.NewFromString(raw); err != nil {
					return fmt.Errorf("invalid --%s %q: %w", flag, raw, err)
				}
			}

			solver := breakeven.NewDefaultSolver(a.registry)
			table := &breakeven.TableFormatter{Registry: a.registry}
			var result any
			var text string
			if len(also) == 0 {
				res, err := solver.Solve(cmd.Context(), req)
				if err != nil {
					return err
				}
				result, text = res, table.Format(res)
			} else {
				ranges := []breakeven.Range{{Field: req.Vary, Min: req.Min, Max: req.Max}}
				for _, spec := range also {
					r, err := parseRange(spec)
					if err != nil {
						return err
					}
					ranges = append(ranges, r)
				}
				multi, err := solver.SolveEach(cmd.Context(), req, ranges)
				if err != nil {
					return err
				}
				result, text = multi, table.FormatMulti(multi)
			}
			a.recordUsage(cmd.Context(), req.Calculator)

			if a.settings.OutputFormat == "json" {
				out, err := (&breakeven.JSONFormatter{Pretty: true}).Format(result)
				if err != nil {
					return err
				}
				text = out + "\n"
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().StringArrayP("set", "s", nil, "field value as key=value (repeatable)")
	cmd.Flags().String("metric", "", "result metric to hit, e.g. monthly_payment")
	cmd.Flags().String("target", "", "target value for the metric")
	cmd.Flags().String("vary", "", "numeric field to solve for")
	cmd.Flags().String("min", "", "lower bound for --vary")
	cmd.Flags().String("max", "", "upper bound for --vary")
	cmd.Flags().String("tolerance", "", "accepted distance from the target (default 0.01)")
	cmd.Flags().StringArray("also", nil, "another field to try as field:min:max (repeatable)")
	for _, f := range []string{"metric", "target", "vary", "min", "max"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

// parseRange reads "field:min:max"
func parseRange(spec string) (breakeven.Range, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return breakeven.Range{}, fmt.Errorf("invalid range %q, expected field:min:max", spec)
	}
	lo, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return breakeven.Range{}, fmt.Errorf("invalid range %q: %w", spec, err)
	}
	hi, err := decimal.NewFromString(strings.TrimSpace(parts[2]))
	if err != nil {
		return breakeven.Range{}, fmt.Errorf("invalid range %q: %w", spec, err)
	}
	return breakeven.Range{Field: strings.TrimSpace(parts[0]), Min: lo, Max: hi}, nil
}
