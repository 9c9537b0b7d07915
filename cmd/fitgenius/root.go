package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/metalagman/fitgenius/internal/api"
	"github.com/metalagman/fitgenius/internal/config"
	"github.com/metalagman/fitgenius/internal/flow"
	"github.com/metalagman/fitgenius/internal/logging"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	cfgFile    string
	dotEnvFile string
	debug      bool
	cfg        config.Config
	rootCmd    = &cobra.Command{
		Use:           "fitgenius",
		Short:         "fitgenius runs structured AI coaching flows",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (yaml or json)")
	rootCmd.PersistentFlags().StringVar(&dotEnvFile, "env-file", ".env", "dotenv file loaded before the environment")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		loaded, err := config.Load(config.Options{Path: cfgFile, DotEnv: dotEnvFile})
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		logging.Init(debug || cfg.Log.Debug, cfg.Log.Format)
		return nil
	}
	rootCmd.AddCommand(flowsCmd())
	rootCmd.AddCommand(describeCmd())
	rootCmd.AddCommand(invokeCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(mcpCmd())
	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(historyCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func fatal(err error) {
	writeFailure(os.Stderr, err)
}

// writeFailure prints err; flow failures are prefixed with the generic
// message the other surfaces show.
func writeFailure(w io.Writer, err error) {
	if _, ok := flow.AsError(err); ok {
		fmt.Fprintln(w, api.GenericFailure)
	}
	fmt.Fprintln(w, err)
}
