// Package panel implements the security panel core: the sensor registry,
// the alarm controller and the bounded journal, behind a single command API.
//
// The Service owns the whole state tree; the HTTP transport, the WebSocket
// feed and the simulation driver all funnel through its methods, so every
// command's multi-step update (silence check, transition, journal append,
// arming check, persistence) is atomic with respect to the others.
package panel
