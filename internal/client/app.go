package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/service"
)

// App drives one session: it starts the engine, runs the UI until the user
// quits or logs out, then ends the session.
type App struct {
	engine  service.SyncEngine
	workers BackgroundWorker
	ui      UI
	userID  string

	revoked     chan struct{}
	revokedOnce sync.Once

	logger *logger.Logger
}

func NewApp(engine service.SyncEngine, workers BackgroundWorker, ui UI, userID string, logger *logger.Logger) *App {
	return &App{
		engine:  engine,
		workers: workers,
		ui:      ui,
		userID:  userID,
		revoked: make(chan struct{}),
		logger:  logger,
	}
}

// OnAuthFailure is registered as the engine's auth failure hook. It stops
// the UI; the session is then closed with its cache wiped.
func (a *App) OnAuthFailure(err error) {
	a.revokedOnce.Do(func() {
		a.logger.Warn().Err(err).Str("func", "*App.OnAuthFailure").Msg("session rejected")
		close(a.revoked)
	})
}

func (a *App) Run(ctx context.Context) error {
	if err := a.engine.OnSessionStart(ctx, a.userID); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	workersCtx, stopWorkers := context.WithCancel(ctx)
	workersDone := make(chan struct{})
	go func() {
		defer close(workersDone)
		if a.workers != nil {
			a.workers.Run(workersCtx)
		}
	}()

	loopCtx, stopLoop := context.WithCancelCause(ctx)
	defer stopLoop(nil)
	go func() {
		select {
		case <-a.revoked:
			stopLoop(ErrSessionRevoked)
		case <-loopCtx.Done():
		}
	}()

	logout, runErr := a.ui.MainLoop(loopCtx)

	stopWorkers()
	<-workersDone

	revoked := errors.Is(context.Cause(loopCtx), ErrSessionRevoked)
	if revoked {
		logout, runErr = true, ErrSessionRevoked
	}

	// ctx may already be cancelled; ending the session must still complete
	if err := a.engine.OnSessionEnd(context.WithoutCancel(ctx), logout); err != nil {
		a.logger.Err(err).Str("func", "*App.Run").Msg("error ending session")
	}

	return runErr
}
