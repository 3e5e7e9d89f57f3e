// Package config defines settings used by the home-sentry binaries and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the dashboard listen address, the snapshot file path
// and the simulation driver interval bounds.
package config
