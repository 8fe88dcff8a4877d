package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/fincalc/internal/calculator"
	"github.com/rgehrsitz/fincalc/internal/config"
	"github.com/rgehrsitz/fincalc/internal/logging"
	"github.com/rgehrsitz/fincalc/internal/tui"
	"github.com/rgehrsitz/fincalc/internal/usage"
)

func main() {
	settingsPath := flag.String("config", "", "settings file")
	logPath := flag.String("log", "", "write logs to this file (the terminal is taken by the UI)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: fincalc-tui [--config file] [--log file] [calculator-id]")
		flag.PrintDefaults()
	}
	flag.Parse()

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger, err := logging.New(logOut, settings.LogLevel, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	recorder, store, err := usage.NewRecorder(settings.UsageBackend, settings.RedisAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}

	model := tui.NewModel(tui.Options{
		Registry:   calculator.Default(),
		Recorder:   recorder,
		Logger:     logging.NewPrintf(logger),
		Calculator: flag.Arg(0),
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
