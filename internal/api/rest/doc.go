// Package rest exposes the panel command API over HTTP.
//
// It defines the Service interface the transport depends on, keeping the
// panel implementation decoupled from routing, and maps the domain's
// sentinel errors onto HTTP status codes.
package rest
