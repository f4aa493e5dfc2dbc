// Package http implements the REST and real-time transport of the remote
// store.
//
// Entities of every kind live under /api/{kind}/; change events for one
// (user, kind) pair are pushed over a websocket at /api/events. Request
// tracing, access logging, bearer authentication and response compression
// are handled here before requests reach the service layer. Failures are
// written as a JSON [models.ErrorResponse] whose kind tells the client how to
// react.
package http
