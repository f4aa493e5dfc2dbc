package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/utils"
	"github.com/MKhiriev/go-link-keeper/models"
)

// events streams the change events of one entity kind of the caller as JSON
// messages until either side closes the connection.
func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, ErrMissingUser)
		return
	}
	kind, err := models.ParseEntityKind(r.URL.Query().Get("kind"))
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Err(err).Str("func", "*Handler.events").Msg("websocket upgrade failed")
		return
	}
	defer conn.CloseNow()

	events, cancel := h.services.EventBroker.Subscribe(userID, kind)
	defer cancel()

	// clients never send; reading only handles control frames
	ctx := conn.CloseRead(r.Context())

	log = &logger.Logger{Logger: log.With().Str("user_id", userID).Str("entity_kind", kind.String()).Logger()}
	log.Debug().Msg("change stream opened")

	ping := time.NewTicker(h.pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("change stream closed by client")
			return

		case event, open := <-events:
			if !open {
				conn.Close(websocket.StatusGoingAway, "stream ended")
				return
			}
			if err = writeEvent(ctx, conn, event); err != nil {
				if !errors.Is(err, context.Canceled) {
					log.Warn().Err(err).Msg("change event not delivered")
				}
				return
			}

		case <-ping.C:
			pingCtx, stop := context.WithTimeout(ctx, eventsWriteTimeout)
			err = conn.Ping(pingCtx)
			stop()
			if err != nil {
				log.Debug().Err(err).Msg("change stream peer is gone")
				return
			}
		}
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, event models.ChangeEvent) error {
	ctx, cancel := context.WithTimeout(ctx, eventsWriteTimeout)
	defer cancel()

	return wsjson.Write(ctx, conn, event)
}
