package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mkuznetsov/home-sentry/internal/config"
	"github.com/mkuznetsov/home-sentry/internal/service/server"
	"github.com/mkuznetsov/home-sentry/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// stateFile path where the panel snapshot is persisted.
	stateFile string

	// rootCmd represents the base command for running the dashboard server.
	rootCmd = &cobra.Command{
		Use:   "sentry-server [listen-address]",
		Short: "Run the home security dashboard server.",
		Long: `Starts the backend that owns the security panel: sensors, alarm state and
the event journal. Exposes the command API over HTTP and a live status feed
over WebSocket for browser dashboards.

The server listens on the configured address unless an override is provided
as argument (e.g. :9090, 0.0.0.0:8475). Panel state is persisted to a JSON
snapshot for recovery across restarts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				StateFile:     stateFile,
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the sentry-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVarP(&stateFile, "state-file", "s", "", "path to persist the panel snapshot (overrides config)")
}
