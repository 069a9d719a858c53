package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"

	"clockdown/internal/clockdown"
	"clockdown/internal/game"
)

func render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to render")
		http.Error(w, "failed to render", http.StatusInternalServerError)
	}
}

func renderToString(r *http.Request, component templ.Component) string {
	var buf bytes.Buffer
	if err := component.Render(r.Context(), &buf); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to render fragment")
	}
	return buf.String()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode json response")
	}
}

func writeSSE(w http.ResponseWriter, event string, data string) {
	_, _ = w.Write([]byte("event: " + event + "\n"))
	for _, line := range strings.Split(data, "\n") {
		_, _ = w.Write([]byte("data: " + line + "\n"))
	}
	_, _ = w.Write([]byte("\n"))
}

var (
	errUnknownAction = errors.New("unknown action")
	errBadIndex      = errors.New("player index must be an integer")
)

// statusFor maps transition errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, clockdown.ErrPrecondition),
		errors.Is(err, errUnknownAction),
		errors.Is(err, errBadIndex):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrWrongPhase):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
