package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds settings shared by the home-sentry binaries.
type Config struct {
	// ListenAddress is the address the dashboard HTTP server binds to.
	ListenAddress string `yaml:"listen_addr"`
	// ServerURL is the base URL clients use to reach the server API.
	ServerURL string `yaml:"server_url"`
	// StateFile is the path to the JSON file storing the panel snapshot.
	StateFile string `yaml:"state_file"`
	// WebDir optionally points at static dashboard assets to serve at /.
	WebDir string `yaml:"web_dir,omitempty"`
	// LogLevel is the zap log level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty"`
	// Timeout is the duration for client HTTP calls.
	Timeout time.Duration `yaml:"timeout"`
	// SimulationMinInterval is the shortest delay between simulated events.
	SimulationMinInterval time.Duration `yaml:"simulation_min_interval"`
	// SimulationMaxInterval is the longest delay between simulated events.
	SimulationMaxInterval time.Duration `yaml:"simulation_max_interval"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "home-sentry-settings.yaml"

	// DefaultStateFilename is the default filename for the panel snapshot JSON.
	DefaultStateFilename = "home-sentry-state.json"

	// DefaultListenAddress is the default dashboard bind address.
	DefaultListenAddress = ":8475"

	// DefaultServerURL is the default base URL for client calls.
	DefaultServerURL = "http://127.0.0.1:8475"

	// DefaultTimeout is the default duration for client HTTP calls.
	DefaultTimeout = 5 * time.Second

	// DefaultSimulationMinInterval is the default lower bound between simulated events.
	DefaultSimulationMinInterval = 3 * time.Second

	// DefaultSimulationMaxInterval is the default upper bound between simulated events.
	DefaultSimulationMaxInterval = 12 * time.Second

	// DefaultFilePermissions is the default file permission for config and state files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errSimulationBounds is returned when the simulation interval bounds are inverted.
	errSimulationBounds = errors.New("simulation_min_interval must not exceed simulation_max_interval")
)

// Default returns a configuration filled with the documented defaults.
func Default() *Config {
	return &Config{
		ListenAddress:         DefaultListenAddress,
		ServerURL:             DefaultServerURL,
		StateFile:             DefaultStateFilename,
		Timeout:               DefaultTimeout,
		SimulationMinInterval: DefaultSimulationMinInterval,
		SimulationMaxInterval: DefaultSimulationMaxInterval,
	}
}

// Load reads configuration from the provided path and validates essential
// fields. A missing file is not an error: the defaults are returned so the
// binaries run without any setup.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting,
// filling defaults for anything left unset.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}

	if _, err := url.ParseRequestURI(cfg.ServerURL); err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}

	if cfg.StateFile == "" {
		cfg.StateFile = DefaultStateFilename
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.SimulationMinInterval <= 0 {
		cfg.SimulationMinInterval = DefaultSimulationMinInterval
	}

	if cfg.SimulationMaxInterval <= 0 {
		cfg.SimulationMaxInterval = DefaultSimulationMaxInterval
	}

	if cfg.SimulationMinInterval > cfg.SimulationMaxInterval {
		return errSimulationBounds
	}

	return nil
}
