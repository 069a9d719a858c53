package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = 30 * time.Second
	wsMaxMessageSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checks are left to the CORS layer in front of the router.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is what the server pushes: a state snapshot or a rejected command.
type wsMessage struct {
	Type  string         `json:"type"`
	State *stateResponse `json:"state,omitempty"`
	Error string         `json:"error,omitempty"`
}

// socket serves a control channel: every state change is pushed as JSON
// and incoming commands run through the same transitions as the form posts.
func (h *SessionHandler) socket(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	hub, ok := h.store.Broadcaster(sess.ID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Str("session_id", sess.ID).Msg("failed to upgrade websocket connection")
		return
	}
	defer conn.Close()

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	conn.SetReadLimit(wsMaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	rejected := make(chan string, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("session_id", sess.ID).Msg("websocket closed unexpectedly")
				}
				return
			}
			var cmd command
			if err := json.Unmarshal(data, &cmd); err != nil {
				reject(rejected, "invalid command: "+err.Error())
				continue
			}
			if err := apply(sess, cmd, h.store.Now()); err != nil {
				reject(rejected, err.Error())
				continue
			}
			h.store.Changed(sess.ID)
		}
	}()

	send := func(msg wsMessage) error {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(msg)
	}
	sendState := func() error {
		state := buildState(sess.Snapshot(h.store.Now()))
		return send(wsMessage{Type: "state", State: &state})
	}

	if err := sendState(); err != nil {
		return
	}

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case _, open := <-sub:
			if !open {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"),
					time.Now().Add(wsWriteWait))
				return
			}
			if err := sendState(); err != nil {
				return
			}
		case msg := <-rejected:
			if err := send(wsMessage{Type: "error", Error: msg}); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}

func reject(ch chan<- string, msg string) {
	select {
	case ch <- msg:
	default:
	}
}
