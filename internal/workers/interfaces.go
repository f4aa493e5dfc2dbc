// Package workers runs the client's background workers.
// It defines the Worker interface and a Workers aggregate that runs several
// workers for the lifetime of one context.
package workers

import "context"

// Worker is a background job bound to ctx. Run blocks until ctx is done.
type Worker interface {
	Run(ctx context.Context)
}

// Pinger checks that the remote store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnectivityListener is told when the remote store becomes reachable
// again.
type ConnectivityListener interface {
	OnConnectivityRestored(ctx context.Context) error
}
