package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"clockdown/internal/game"
)

type HomeHandler struct {
	store *game.Store
}

func NewHomeHandler(store *game.Store) *HomeHandler {
	return &HomeHandler{store: store}
}

func (h *HomeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Post("/sessions", h.createSession)
	r.Get("/healthz", h.health)
}

// home opens a fresh welcome screen.
func (h *HomeHandler) home(w http.ResponseWriter, r *http.Request) {
	sess := h.store.CreateSession()
	http.Redirect(w, r, "/s/"+sess.ID, http.StatusSeeOther)
}

func (h *HomeHandler) createSession(w http.ResponseWriter, r *http.Request) {
	sess := h.store.CreateSession()
	if wantsJSON(r) {
		writeJSON(w, http.StatusCreated, buildState(sess.Snapshot(h.store.Now())))
		return
	}
	http.Redirect(w, r, "/s/"+sess.ID, http.StatusSeeOther)
}

func (h *HomeHandler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Error().Err(err).Msg("failed to write health check response")
	}
}
