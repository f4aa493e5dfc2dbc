package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/models"
)

type wsSubscription struct {
	kind    models.EntityKind
	handler ChangeHandler

	cancel context.CancelFunc
	done   chan struct{}

	logger *logger.Logger
}

// Kind implements [Subscription].
func (s *wsSubscription) Kind() models.EntityKind {
	return s.kind
}

// Subscribe implements [RemoteStore]. It returns immediately; the websocket
// to /api/events is dialed in the background and redialed with capped
// exponential backoff whenever it drops, so a subscription taken while
// offline starts delivering once the remote store becomes reachable.
func (h *httpRemoteStore) Subscribe(ctx context.Context, userID string, kind models.EntityKind, handler ChangeHandler) (Subscription, error) {
	op := "subscribe " + kind.String()
	if err := h.checkUser(op, userID); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, models.NewSyncError(models.ErrorKindValidation, op, errors.New("nil change handler"))
	}

	wsURL, err := h.eventsURL(kind)
	if err != nil {
		return nil, models.NewSyncError(models.ErrorKindValidation, op, err)
	}

	// the subscription outlives the ctx of the call that created it
	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sub := &wsSubscription{
		kind:    kind,
		handler: handler,
		cancel:  cancel,
		done:    make(chan struct{}),
		logger:  h.logger,
	}

	h.subsMu.Lock()
	h.subs[sub] = struct{}{}
	h.subsMu.Unlock()

	go h.run(subCtx, sub, wsURL)

	return sub, nil
}

// Unsubscribe implements [RemoteStore]. It blocks until the delivery
// goroutine has exited.
func (h *httpRemoteStore) Unsubscribe(sub Subscription) {
	ws, ok := sub.(*wsSubscription)
	if !ok {
		h.logger.Warn().Err(ErrUnknownSubscription).Msg("unsubscribe ignored")
		return
	}

	h.subsMu.Lock()
	_, known := h.subs[ws]
	delete(h.subs, ws)
	h.subsMu.Unlock()
	if !known {
		return
	}

	ws.cancel()
	<-ws.done
}

func (h *httpRemoteStore) run(ctx context.Context, sub *wsSubscription, wsURL string) {
	defer close(sub.done)

	backoff := h.newBackoff()
	for {
		connected, err := h.listen(ctx, sub, wsURL)
		if ctx.Err() != nil {
			return
		}
		if connected {
			backoff = h.newBackoff()
		}

		delay, stop := backoff.Next()
		if stop {
			return
		}

		sub.logger.Warn().Err(err).
			Str("entity_kind", sub.kind.String()).
			Dur("redial_in", delay).
			Msg("change subscription dropped")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (h *httpRemoteStore) newBackoff() retry.Backoff {
	return retry.WithCappedDuration(h.maxRedialDelay, retry.NewExponential(h.redialDelay))
}

// listen dials once and delivers events until the connection fails. The
// returned flag reports whether the dial succeeded.
func (h *httpRemoteStore) listen(ctx context.Context, sub *wsSubscription, wsURL string) (bool, error) {
	conn, resp, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + h.token}},
	})
	if err != nil {
		if resp != nil {
			return false, fmt.Errorf("dial events: http %d: %w", resp.StatusCode, err)
		}
		return false, fmt.Errorf("dial events: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	sub.logger.Debug().Str("entity_kind", sub.kind.String()).Msg("change subscription connected")

	for {
		var event models.ChangeEvent
		if err = wsjson.Read(ctx, conn, &event); err != nil {
			return true, fmt.Errorf("read event: %w", err)
		}
		if event.EntityKind != sub.kind {
			continue
		}
		if ctx.Err() != nil {
			return true, ctx.Err()
		}
		sub.handler(event.EntityKind, event.Event)
	}
}

func (h *httpRemoteStore) eventsURL(kind models.EntityKind) (string, error) {
	u, err := url.Parse(h.baseURL + "/api/events")
	if err != nil {
		return "", err
	}

	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.RawQuery = url.Values{"kind": []string{kind.String()}}.Encode()

	return u.String(), nil
}
