package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mkuznetsov/home-sentry/internal/config"
	domain "github.com/mkuznetsov/home-sentry/internal/domain/security"
	"github.com/mkuznetsov/home-sentry/internal/service/ctl"
	"github.com/mkuznetsov/home-sentry/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// serverURL overrides the server URL from config.
	serverURL string
	// forcedState optionally forces the trigger target state.
	forcedState string

	// rootCmd represents the base command for the operator CLI.
	rootCmd = &cobra.Command{
		Use:   "sentry-ctl",
		Short: "Control the home security dashboard server.",
		Long: `Operator CLI for the home security panel.

Sends commands (arm, disarm, trigger, ack, alarm toggle, clear-logs,
simulation on/off) to a running sentry-server over its HTTP API and prints
the resulting panel status.`,
	}
)

// withClient wraps a command body with config loading and client setup.
func withClient(run func(ctx context.Context, client *ctl.Client) (*domain.Status, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		client, err := ctl.Dial(ctx, &ctl.Options{
			ConfigPath: configPath,
			ServerURL:  serverURL,
		})
		if err != nil {
			return err
		}

		status, err := run(ctx, client)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), ctl.Summarize(status))

		return nil
	}
}

// sensorIDArg parses the required sensor id positional argument.
func sensorIDArg(args []string) (int, error) {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid sensor id %q: %w", args[0], err)
	}

	return id, nil
}

// Execute runs the sentry-ctl CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits,funlen // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&serverURL, "server", "s", "", "server base URL (overrides config)")

	armCmd := &cobra.Command{
		Use:   "arm",
		Short: "Arm the panel.",
		Args:  cobra.NoArgs,
		RunE: withClient(func(ctx context.Context, client *ctl.Client) (*domain.Status, error) {
			return client.Arm(ctx)
		}),
	}

	disarmCmd := &cobra.Command{
		Use:   "disarm",
		Short: "Disarm the panel and silence the alarm.",
		Args:  cobra.NoArgs,
		RunE: withClient(func(ctx context.Context, client *ctl.Client) (*domain.Status, error) {
			return client.Disarm(ctx)
		}),
	}

	triggerCmd := &cobra.Command{
		Use:   "trigger <sensor-id>",
		Short: "Inject an event on a sensor (silences a ringing alarm).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := sensorIDArg(args)
			if err != nil {
				return err
			}

			return withClient(func(ctx context.Context, client *ctl.Client) (*domain.Status, error) {
				return client.Trigger(ctx, id, forcedState)
			})(cmd, args)
		},
	}
	triggerCmd.Flags().StringVarP(&forcedState, "state", "t", "", "force the sensor into this state instead of toggling")

	ackCmd := &cobra.Command{
		Use:   "ack <sensor-id>",
		Short: "Acknowledge a sensor, resetting it to its normal state.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := sensorIDArg(args)
			if err != nil {
				return err
			}

			return withClient(func(ctx context.Context, client *ctl.Client) (*domain.Status, error) {
				return client.Acknowledge(ctx, id)
			})(cmd, args)
		},
	}

	alarmCmd := &cobra.Command{
		Use:   "alarm",
		Short: "Toggle the alarm directly.",
		Args:  cobra.NoArgs,
		RunE: withClient(func(ctx context.Context, client *ctl.Client) (*domain.Status, error) {
			return client.ToggleAlarm(ctx)
		}),
	}

	clearLogsCmd := &cobra.Command{
		Use:   "clear-logs",
		Short: "Clear the panel journal.",
		Args:  cobra.NoArgs,
		RunE: withClient(func(ctx context.Context, client *ctl.Client) (*domain.Status, error) {
			return client.ClearLogs(ctx)
		}),
	}

	simCmd := &cobra.Command{
		Use:       "sim on|off",
		Short:     "Enable or disable the random event simulation.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled := args[0] == "on"

			return withClient(func(ctx context.Context, client *ctl.Client) (*domain.Status, error) {
				return client.SetSimulation(ctx, enabled)
			})(cmd, args)
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Print the current panel status.",
		Args:  cobra.NoArgs,
		RunE: withClient(func(ctx context.Context, client *ctl.Client) (*domain.Status, error) {
			return client.Status(ctx)
		}),
	}

	rootCmd.AddCommand(armCmd, disarmCmd, triggerCmd, ackCmd, alarmCmd, clearLogsCmd, simCmd, statusCmd)
}
