// Package ws provides the live dashboard feed: a hub of WebSocket clients
// that receives panel status updates and broadcasts them as JSON frames.
//
// The hub is a pure consumer of the panel core; it implements the panel's
// Notifier interface and never mutates state.
package ws
