package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/bbernstein/onair-go/internal/services/pubsub"
)

const (
	wsWriteWait    = 10 * time.Second
	wsPingInterval = 10 * time.Second
	wsPongWait     = 2 * wsPingInterval
	wsBufferSize   = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for WebSocket
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// wsMessage wraps every frame pushed to clients.
type wsMessage struct {
	Type      pubsub.Topic `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
	Data      any          `json:"data"`
}

// handlePlayoutSocket streams sequencer status, starting with the current one.
func (a *API) handlePlayoutSocket(w http.ResponseWriter, r *http.Request) {
	a.stream(w, r, pubsub.TopicPlayoutStatus, "", a.Sequencer.Status())
}

// handleRundownSocket streams updates of one rundown.
func (a *API) handleRundownSocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rd, err := a.RundownService.Get(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.stream(w, r, pubsub.TopicRundownUpdated, id, rd)
}

func (a *API) stream(w http.ResponseWriter, r *http.Request, topic pubsub.Topic, filter string, initial any) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer func() { _ = conn.Close() }()

	sub := a.PubSub.Subscribe(topic, filter, wsBufferSize)
	defer a.PubSub.Unsubscribe(sub)

	log := a.logger.With().Str("topic", string(topic)).Str("subscriber", sub.ID).Logger()
	log.Debug().Msg("websocket connected")
	defer func() {
		if n := sub.Dropped(); n > 0 {
			log.Warn().Int64("dropped", n).Msg("websocket client fell behind, updates dropped")
		}
	}()

	// Reader: only needed to process control frames and notice disconnects.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(data any) error {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(wsMessage{Type: topic, Timestamp: time.Now().UTC(), Data: data})
	}
	if err := send(initial); err != nil {
		return
	}

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-sub.Channel:
			if !ok {
				return
			}
			if err := send(msg); err != nil {
				log.Debug().Err(err).Msg("websocket write failed")
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			log.Debug().Msg("websocket disconnected")
			return
		case <-r.Context().Done():
			return
		}
	}
}
