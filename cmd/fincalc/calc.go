package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/fincalc/internal/calculator"
	"github.com/rgehrsitz/fincalc/internal/config"
	"github.com/rgehrsitz/fincalc/internal/output"
	"github.com/rgehrsitz/fincalc/internal/validation"
)

func listCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the available calculators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			showFields, _ := cmd.Flags().GetBool("fields")
			w := cmd.OutOrStdout()
			for _, d := range a.registry.List() {
				fmt.Fprintf(w, "%-18s %s\n", d.ID, d.Description)
				if !showFields {
					continue
				}
				for _, f := range d.Fields {
					fmt.Fprintf(w, "    %-22s %-10s default %s\n", f.Key, f.Kind, calculator.FormatInput(f.Default))
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("fields", false, "also list each calculator's fields and defaults")
	return cmd
}

func calcCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc <calculator>",
		Short: "Run one calculator",
		Long: "Run one calculator with its defaults overridden by --set key=value.\n" +
			"Example: fincalc calc mortgage --set home_price=400000 --set down_payment=80000",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sets, _ := cmd.Flags().GetStringArray("set")
			save, _ := cmd.Flags().GetBool("save")
			values, err := config.ParseAssignments(sets)
			if err != nil {
				return err
			}
			return a.evaluate(cmd, args[0], values, save)
		},
	}
	cmd.Flags().StringArrayP("set", "s", nil, "field value as key=value (repeatable)")
	cmd.Flags().Bool("save", false, "also write the report to a timestamped file")
	return cmd
}

// evaluate runs one calculator over values and prints the report
func (a *app) evaluate(cmd *cobra.Command, id string, values validation.Values, save bool) error {
	def, ok := a.registry.Get(id)
	if !ok {
		return fmt.Errorf("unknown calculator: %s (see fincalc list)", id)
	}
	for key := range values {
		if _, ok := def.Field(key); !ok {
			return fmt.Errorf("calculator %s has no field %q (fields: %s)", id, key, strings.Join(def.Keys(), ", "))
		}
	}

	engine := def.NewEngine(a.engineOptions()...)
	state := engine.SetValues(values)
	<-engine.Recorded()

	report := output.NewReport(def.Name).Add(def.Name, def.ID, state)
	if err := a.writeReport(cmd, report, save); err != nil {
		return err
	}
	if !state.IsValid || state.Result == nil {
		return errInvalidInputs
	}
	return nil
}

func (a *app) writeReport(cmd *cobra.Command, report *output.Report, save bool) error {
	f := output.GetFormatterByName(a.settings.OutputFormat)
	if f == nil {
		return fmt.Errorf("unknown format %q (available: %s)", a.settings.OutputFormat,
			strings.Join(output.AvailableFormatterNames(), ", "))
	}
	data, err := f.Format(report)
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return err
	}
	if save {
		name, err := output.WriteFormatted(f, report, extensionFor(f.Name()))
		if err != nil {
			return err
		}
		a.logger.Info("report saved", "file", name)
	}
	return nil
}

func extensionFor(format string) string {
	switch format {
	case "json", "yaml", "csv", "html":
		return format
	}
	return "txt"
}
