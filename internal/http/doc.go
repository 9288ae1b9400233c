// Package http exposes the scheduler over a JSON HTTP API.
//
// Handlers translate requests into application service calls and map the
// service error taxonomy onto HTTP status codes with Japanese user facing
// messages. Routing uses the standard library mux with explicit method
// dispatch per path.
package http
