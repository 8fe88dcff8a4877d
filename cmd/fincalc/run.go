package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/fincalc/internal/calculator"
	"github.com/rgehrsitz/fincalc/internal/config"
	"github.com/rgehrsitz/fincalc/internal/output"
)

func runCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run every calculation in a YAML or TOML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			save, _ := cmd.Flags().GetBool("save")
			strict, _ := cmd.Flags().GetBool("strict")

			parser := config.NewInputParser(a.registry)
			file, err := parser.LoadFromFile(args[0])
			if err != nil {
				return err
			}

			report := output.NewReport(filepath.Base(args[0]))
			engines := make([]*calculator.Engine[calculator.Result], 0, len(file.Runs))
			invalid := 0
			for _, run := range file.Runs {
				def, _ := a.registry.Get(run.Calculator)
				opts, err := config.EngineOptions(run)
				if err != nil {
					return fmt.Errorf("run %s: %w", run.Name, err)
				}
				engine := def.NewEngine(append(opts, a.engineOptions()...)...)
				engines = append(engines, engine)
				if !engine.Validate() {
					invalid++
				}
				report.Add(run.Name, run.Calculator, engine.State())
			}
			for _, e := range engines {
				<-e.Recorded()
			}

			if err := a.writeReport(cmd, report, save); err != nil {
				return err
			}
			if invalid > 0 {
				a.logger.Warn("runs with invalid inputs", "count", invalid, "total", len(file.Runs))
				if strict {
					return errInvalidInputs
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("save", false, "also write the report to a timestamped file")
	cmd.Flags().Bool("strict", false, "exit non-zero when any run has invalid inputs")
	return cmd
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a calculation file without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := config.NewInputParser(a.registry).LoadFromFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d runs\n", args[0], len(file.Runs))
			for _, run := range file.Runs {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-24s %s (%d values, %d extra rules)\n",
					run.Name, run.Calculator, len(run.Values), len(run.Rules))
			}
			return nil
		},
	}
}
