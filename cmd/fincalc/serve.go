package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/fincalc/internal/api"
	"github.com/rgehrsitz/fincalc/internal/usage"
)

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := a.settings.ListenAddr
			if cmd.Flags().Changed("addr") {
				addr, _ = cmd.Flags().GetString("addr")
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           api.NewHandler(a.registry, a.recorder, a.store, a.logger).Routes(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("listening", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			a.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides listen_addr)")
	return cmd
}

func usageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show how often each calculator has been used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.store == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "usage tracking is disabled (usage_backend: none)")
				return nil
			}
			counts, err := a.store.Counts(cmd.Context())
			if err != nil {
				return fmt.Errorf("read usage counts: %w", err)
			}
			ranked := usage.Ranked(counts)
			if len(ranked) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no calculator usage recorded")
				return nil
			}
			for _, c := range ranked {
				fmt.Fprintf(cmd.OutOrStdout(), "%-18s %d\n", c.CalculatorID, c.Uses)
			}
			return nil
		},
	}
}
