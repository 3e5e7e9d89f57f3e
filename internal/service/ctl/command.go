package ctl

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkuznetsov/home-sentry/internal/config"
	domain "github.com/mkuznetsov/home-sentry/internal/domain/security"
)

// Options configures how sentry-ctl reaches the server.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// ServerURL overrides the server URL from config when specified.
	ServerURL string
}

// Dial loads the configuration and builds a client for the resolved server.
func Dial(_ context.Context, opts *Options) (*Client, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	serverURL := cfg.ServerURL
	if opts.ServerURL != "" {
		serverURL = opts.ServerURL
	}

	return NewClient(serverURL, WithCallTimeout(cfg.Timeout))
}

// recentLogLines bounds the journal excerpt printed by Summarize.
const recentLogLines = 5

// Summarize renders a short human-readable view of the panel status.
func Summarize(status *domain.Status) string {
	var b strings.Builder

	fmt.Fprintf(&b, "armed=%t alarm=%t simulation=%t\n",
		status.Armed, status.AlarmOn, status.SimulationOn)

	for _, sensor := range status.Sensors {
		fmt.Fprintf(&b, "  [%d] %-20s %-7s %s\n", sensor.ID, sensor.Name, sensor.Type, sensor.State)
	}

	if len(status.Logs) > 0 {
		b.WriteString("recent log:\n")

		for i, entry := range status.Logs {
			if i == recentLogLines {
				break
			}

			fmt.Fprintf(&b, "  %s  %s\n", entry.Time.Format("15:04:05"), entry.Message)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
