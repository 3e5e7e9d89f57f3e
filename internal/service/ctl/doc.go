// Package ctl implements the operator client used by sentry-ctl: a thin
// HTTP wrapper over the dashboard API with convenience helpers per command.
package ctl
