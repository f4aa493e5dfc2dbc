// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run starts the client application and blocks until exit.
	Run(ctx context.Context) error
}

// BackgroundWorker runs for the lifetime of a session.
type BackgroundWorker interface {
	Run(ctx context.Context)
}

// UI is the interactive front end of a session.
type UI interface {
	// MainLoop blocks until the user quits or ctx is cancelled. logout
	// reports whether the user signed out.
	MainLoop(ctx context.Context) (logout bool, err error)
}
