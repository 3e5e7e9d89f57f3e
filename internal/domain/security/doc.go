// Package security contains core domain types for the home security panel:
// sensors with per-type state domains, their bounded event history, the
// bounded human-readable journal, and the Snapshot persistence unit.
//
// Types carry Clone helpers to avoid leaking internal references across the
// service boundary.
package security
