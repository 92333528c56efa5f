package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	eventsWSReadLimit  = 4 << 10
	eventsWSPongWait   = 60 * time.Second
	eventsWSPingPeriod = 50 * time.Second
	eventsWSWriteWait  = 10 * time.Second
)

var eventsWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Events handles GET /v1/events, a websocket stream of notifications as JSON text frames.
// Client frames are read only to observe pings and close.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	if h.events == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "notifications are not enabled")
		return
	}
	conn, err := eventsWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("events ws upgrade failed")
		return
	}
	defer conn.Close()

	notifications, unsubscribe := h.events.Subscribe()
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(eventsWSReadLimit)
		conn.SetReadDeadline(time.Now().Add(eventsWSPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(eventsWSPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Debug().Err(err).Msg("events ws read")
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(eventsWSPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case n, ok := <-notifications:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(eventsWSWriteWait))
			if err := conn.WriteJSON(n); err != nil {
				log.Debug().Err(err).Msg("events ws write")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(eventsWSWriteWait)); err != nil {
				return
			}
		}
	}
}
