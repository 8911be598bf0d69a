package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/salary/internal/config"
	"github.com/okian/salary/pkg/logger"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// modelFlags are shared by the commands that read the artifact.
type modelFlags struct {
	path   string
	sha256 string
}

// register binds --model and --sha256, defaulting to the server's
// SALARY_MODEL_PATH and SALARY_MODEL_SHA256 so both agree on the artifact.
func (f *modelFlags) register(cmd *cobra.Command) {
	path := os.Getenv(config.EnvPrefix + "MODEL_PATH")
	if path == "" {
		path = config.New().ModelPath
	}
	cmd.Flags().StringVar(&f.path, "model", path, "path to the model artifact (env "+config.EnvPrefix+"MODEL_PATH)")
	cmd.Flags().StringVar(&f.sha256, "sha256", os.Getenv(config.EnvPrefix+"MODEL_SHA256"), "expected artifact checksum (env "+config.EnvPrefix+"MODEL_SHA256)")
}

func newRootCmd() *cobra.Command {
	var (
		logLevel  string
		logFormat string
	)

	root := &cobra.Command{
		Use:           "salaryctl",
		Short:         "salaryctl: operate the salary prediction model and service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithFormat(logFormat), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
				return err
			}
			return logger.SetLevelString(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&logFormat, "log-format", logger.FormatText, "log format: text or json")

	root.AddCommand(
		newPredictCmd(),
		newInspectCmd(),
		newSmokeCmd(),
	)
	return root
}
