package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/mkuznetsov/home-sentry/internal/api/rest"
	"github.com/mkuznetsov/home-sentry/internal/api/ws"
	"github.com/mkuznetsov/home-sentry/internal/config"
	"github.com/mkuznetsov/home-sentry/internal/logger"
	repository "github.com/mkuznetsov/home-sentry/internal/repository/snapshot"
	"github.com/mkuznetsov/home-sentry/internal/service/panel"
	"github.com/mkuznetsov/home-sentry/internal/simulation"
)

// Options controls the sentry-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override.
	ListenAddress string
	// StateFile specifies the path to persist the panel snapshot JSON.
	StateFile string
}

// shutdownTimeout bounds the graceful HTTP shutdown on exit.
const shutdownTimeout = 5 * time.Second

// Run starts the dashboard server and blocks until the context is canceled
// or the server stops.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "sentry-server")

	// Load configuration first to get server settings.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	// Command line options override config values.
	listenAddress := cfg.ListenAddress
	if opts.ListenAddress != "" {
		listenAddress = opts.ListenAddress
	}

	stateFile := cfg.StateFile
	if opts.StateFile != "" {
		stateFile = opts.StateFile
	}

	// Initialize the snapshot repository for panel persistence.
	repo := repository.NewFileRepository(stateFile)

	// The hub receives every state change and feeds connected dashboards.
	hub := ws.NewHub(ctx)

	// Create the panel core with state restored from disk.
	svc := panel.NewService(ctx, repo, panel.WithNotifier(hub))

	// The simulation driver runs for the whole process lifetime; the panel's
	// simulation flag decides whether individual ticks fire.
	driver := simulation.NewDriver(svc, cfg.SimulationMinInterval, cfg.SimulationMaxInterval)
	go driver.Run(ctx)

	handler := rest.NewServer(svc, hub, cfg.WebDir)

	httpServer := &http.Server{
		Addr:              listenAddress,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	logger.InfoKV(ctx, "Dashboard server listening",
		"listen_address", listenAddress, "state_file", stateFile)

	// Done channel is closed after Shutdown finishes to ensure we block
	// until in-flight requests complete before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.WarnKV(ctx, "HTTP shutdown incomplete", "error", shutdownErr)
		}

		close(done)
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	<-done

	// Final best-effort snapshot write.
	svc.Close(ctx)

	logger.Info(ctx, "Dashboard server stopped")

	return nil
}
