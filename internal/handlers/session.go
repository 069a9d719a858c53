package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"clockdown/internal/game"
	"clockdown/internal/viewmodel"
	"clockdown/internal/views"
)

type SessionHandler struct {
	store          *game.Store
	requestTimeout time.Duration
}

func NewSessionHandler(store *game.Store, requestTimeout time.Duration) *SessionHandler {
	return &SessionHandler{store: store, requestTimeout: requestTimeout}
}

func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/s/{id}", func(r chi.Router) {
		// Long-lived streams stay outside the request timeout.
		r.Get("/stream", h.stream)
		r.Get("/ws", h.socket)

		r.Group(func(r chi.Router) {
			if h.requestTimeout > 0 {
				r.Use(middleware.Timeout(h.requestTimeout))
			}
			r.Get("/", h.page)
			r.Get("/screen", h.screenFragment)
			r.Get("/state", h.state)
			r.Post("/players", h.action(actionAdd))
			r.Post("/players/{index}/remove", h.action(actionRemove))
			r.Post("/players/{index}/select", h.action(actionSelect))
			r.Post("/start", h.action(actionStart))
			r.Post("/pause", h.action(actionPause))
			r.Post("/reset", h.action(actionReset))
		})
	})
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	sess, ok := h.store.GetSession(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	return sess, true
}

func (h *SessionHandler) page(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	snap := sess.Snapshot(h.store.Now())
	render(w, r, views.Page(viewmodel.Page{
		Title:     "Clockdown",
		SessionID: sess.ID,
		Screen:    buildScreen(snap),
	}))
}

func (h *SessionHandler) screenFragment(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	render(w, r, views.Screen(buildScreen(sess.Snapshot(h.store.Now()))))
}

func (h *SessionHandler) state(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, buildState(sess.Snapshot(h.store.Now())))
}

// action returns a handler that applies one transition and answers with a
// redirect for plain forms, 204 for script requests or the new state for JSON clients.
func (h *SessionHandler) action(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := h.session(w, r)
		if !ok {
			return
		}
		cmd := command{Action: name}
		if raw := chi.URLParam(r, "index"); raw != "" {
			index, err := strconv.Atoi(raw)
			if err != nil {
				http.Error(w, errBadIndex.Error(), statusFor(errBadIndex))
				return
			}
			cmd.Index = index
		}

		now := h.store.Now()
		if err := apply(sess, cmd, now); err != nil {
			log.Warn().Err(err).Str("session_id", sess.ID).Str("action", name).Msg("transition rejected")
			if wantsJSON(r) {
				writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
				return
			}
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		h.store.Changed(sess.ID)
		log.Debug().Str("session_id", sess.ID).Str("action", name).Int("index", cmd.Index).Msg("transition applied")

		switch {
		case wantsJSON(r):
			writeJSON(w, http.StatusOK, buildState(sess.Snapshot(now)))
		case r.Header.Get("Hx-Request") == "true":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Redirect(w, r, "/s/"+sess.ID, http.StatusSeeOther)
		}
	}
}

func (h *SessionHandler) stream(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	hub, ok := h.store.Broadcaster(sess.ID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	sendScreen := func() {
		snap := sess.Snapshot(h.store.Now())
		writeSSE(w, "screen", renderToString(r, views.Screen(buildScreen(snap))))
		flusher.Flush()
	}
	sendScreen()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case _, open := <-sub:
			if !open {
				return
			}
			sendScreen()
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}
