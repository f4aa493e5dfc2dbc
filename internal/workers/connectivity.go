package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
)

const defaultConnectivityInterval = 10 * time.Second

// ConnectivityWorker pings the remote store every interval and notifies
// the listener on each offline to online transition.
type ConnectivityWorker struct {
	pinger   Pinger
	listener ConnectivityListener
	interval time.Duration

	online atomic.Bool

	logger *logger.Logger
}

// NewConnectivityWorker starts in the online state: session start already
// replays the pending log.
func NewConnectivityWorker(pinger Pinger, listener ConnectivityListener, interval time.Duration, logger *logger.Logger) *ConnectivityWorker {
	if interval <= 0 {
		interval = defaultConnectivityInterval
	}

	w := &ConnectivityWorker{
		pinger:   pinger,
		listener: listener,
		interval: interval,
		logger:   logger,
	}
	w.online.Store(true)

	return w
}

// Online reports the result of the last check.
func (w *ConnectivityWorker) Online() bool {
	return w.online.Load()
}

func (w *ConnectivityWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

func (w *ConnectivityWorker) check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, w.interval)
	err := w.pinger.Ping(pingCtx)
	cancel()

	if ctx.Err() != nil {
		return
	}

	if err != nil {
		if w.online.Swap(false) {
			w.logger.Warn().Err(err).Str("func", "*ConnectivityWorker.check").Msg("remote store is unreachable")
		}
		return
	}

	if w.online.Swap(true) {
		return
	}

	w.logger.Info().Str("func", "*ConnectivityWorker.check").Msg("remote store is reachable again")
	if err = w.listener.OnConnectivityRestored(ctx); err != nil && !errors.Is(err, context.Canceled) {
		w.logger.Err(err).Str("func", "*ConnectivityWorker.check").Msg("replay after reconnect failed")
	}
}
