package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/fincalc/internal/calculator"
	"github.com/rgehrsitz/fincalc/internal/config"
	"github.com/rgehrsitz/fincalc/internal/logging"
	"github.com/rgehrsitz/fincalc/internal/usage"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// errInvalidInputs marks a run whose report was printed but failed validation
var errInvalidInputs = errors.New("some calculations have invalid inputs")

// app carries what PersistentPreRunE builds for the subcommands
type app struct {
	settings *config.Settings
	logger   *slog.Logger
	recorder usage.Recorder
	store    usage.Store
	registry *calculator.Registry
}

func (a *app) engineOptions() []calculator.Option {
	return []calculator.Option{
		calculator.WithRecorder(a.recorder),
		calculator.WithLogger(logging.NewPrintf(a.logger)),
	}
}

func (a *app) close() error {
	if c, ok := a.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{registry: calculator.Default()}

	root := &cobra.Command{
		Use:   "fincalc",
		Short: "Personal finance calculators",
		Long: "Mortgage, loan, savings, IRR, tax, debt payoff and emergency fund calculators\n" +
			"with validated inputs, batch files and an HTTP API.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			s, err := config.LoadSettings(path)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				s.LogLevel, _ = cmd.Flags().GetString("log-level")
			}
			if cmd.Flags().Changed("format") {
				s.OutputFormat, _ = cmd.Flags().GetString("format")
			}
			a.settings = s

			a.logger, err = logging.New(cmd.ErrOrStderr(), s.LogLevel, false)
			if err != nil {
				return err
			}
			a.recorder, a.store, err = usage.NewRecorder(s.UsageBackend, s.RedisAddr)
			if err != nil {
				return err
			}
			a.logger.Debug("settings loaded",
				"usage_backend", s.UsageBackend,
				"output_format", s.OutputFormat)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().String("config", "", "settings file (default ./fincalc.yaml or $HOME/.fincalc/fincalc.yaml)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().StringP("format", "f", "console", "output format (console, console-full, json, yaml, csv, html)")

	root.AddCommand(
		listCmd(a),
		calcCmd(a),
		runCmd(a),
		validateCmd(a),
		amortizeCmd(a),
		irrCmd(a),
		payoffCmd(a),
		whatifCmd(a),
		solveCmd(a),
		serveCmd(a),
		usageCmd(a),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fincalc %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
