// Package server runs the remote store's HTTP server: startup, signal
// handling and graceful shutdown. Long-lived change streams are closed on
// shutdown together with regular requests.
package server
