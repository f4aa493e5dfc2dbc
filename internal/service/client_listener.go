package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/models"
)

const listenerBuffer = 64

// refresher is the part of the scheduler the listener talks to.
type refresher interface {
	RequestRefresh(ctx context.Context, force bool) (RefreshDecision, error)
}

// changeListener turns push notifications of one entity kind into
// non-forced refresh requests. The transport callback only posts a message;
// a single goroutine forwards it to the scheduler, so the callback never
// blocks the transport and never touches sync state.
type changeListener struct {
	kind      models.EntityKind
	scheduler refresher
	logger    *logger.Logger

	events chan models.RemoteEventKind
	stop   chan struct{}
	done   chan struct{}

	closed    atomic.Bool
	startOnce sync.Once
	stopOnce  sync.Once
}

func newChangeListener(ctx context.Context, kind models.EntityKind, scheduler refresher, log *logger.Logger) *changeListener {
	l := &changeListener{
		kind:      kind,
		scheduler: scheduler,
		logger:    log,
		events:    make(chan models.RemoteEventKind, listenerBuffer),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	l.start(ctx)
	return l
}

func (l *changeListener) start(ctx context.Context) {
	l.startOnce.Do(func() {
		go l.forward(ctx)
	})
}

// onRemoteChange is the transport callback. Events of other kinds and events
// arriving after close are ignored; when the buffer is full the event is
// dropped, as a refresh request is already waiting.
func (l *changeListener) onRemoteChange(kind models.EntityKind, event models.RemoteEventKind) {
	if l.closed.Load() || kind != l.kind {
		return
	}

	select {
	case l.events <- event:
	default:
		l.logger.Debug().Str("event", string(event)).Msg("change event dropped, refresh already pending")
	}
}

func (l *changeListener) forward(ctx context.Context) {
	defer close(l.done)

	for {
		select {
		case <-l.stop:
			return
		case <-ctx.Done():
			return
		case event := <-l.events:
			if l.closed.Load() {
				return
			}
			decision, err := l.scheduler.RequestRefresh(ctx, false)
			l.logger.Debug().Err(err).
				Str("event", string(event)).
				Stringer("decision", decision).
				Msg("remote change forwarded")
		}
	}
}

// close stops forwarding and waits for the forwarding goroutine. No refresh
// is requested by the listener after close returns.
func (l *changeListener) close() {
	l.stopOnce.Do(func() {
		l.closed.Store(true)
		close(l.stop)
	})
	<-l.done
}
