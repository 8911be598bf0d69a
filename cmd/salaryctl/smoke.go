package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/okian/salary/internal/smoke"
	"github.com/okian/salary/pkg/logger"
)

func newSmokeCmd() *cobra.Command {
	var cfg smoke.Config

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run concurrent HTTP checks against a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Verbose {
				logger.SetLevel(slog.LevelDebug)
			}
			cfg.Logger = logger.Named("smoke")
			report, err := smoke.Run(cmd.Context(), cfg)
			if report != nil {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(report); encErr != nil {
					return encErr
				}
			}
			if err != nil {
				return fmt.Errorf("smoke: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:5000", "base URL of the service")
	cmd.Flags().IntVar(&cfg.Requests, "requests", smoke.DefaultRequests, "number of valid triples to submit")
	cmd.Flags().IntVar(&cfg.Workers, "workers", runtime.NumCPU()*2, "number of concurrent workers")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", smoke.DefaultTimeout, "HTTP request timeout")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", 0, "seed for generated inputs (0 derives one from the run id)")
	cmd.Flags().BoolVar(&cfg.Verbose, "verbose", false, "log every request at debug level")
	return cmd
}
