package handlers

import (
	"strconv"
	"strings"
	"time"

	"clockdown/internal/game"
	"clockdown/internal/viewmodel"
)

func buildScreen(snap game.Snapshot) viewmodel.Screen {
	screen := viewmodel.Screen{SessionID: snap.ID, Phase: snap.Phase}
	switch snap.Phase {
	case game.PhaseWelcome:
		screen.Welcome = buildWelcome(snap)
	case game.PhaseClock:
		screen.Clock = buildClock(snap)
	}
	return screen
}

func buildWelcome(snap game.Snapshot) *viewmodel.WelcomeScreen {
	previews := make([]viewmodel.PlayerPreview, 0, len(snap.Roster))
	for _, p := range snap.Roster {
		color := string(p.Color)
		previews = append(previews, viewmodel.PlayerPreview{
			Index: p.Index,
			Color: color,
			Class: "player-preview player-" + color,
		})
	}
	return &viewmodel.WelcomeScreen{
		SessionID:       snap.ID,
		Previews:        previews,
		Capacity:        snap.Capacity,
		CanAddPlayer:    snap.CanAddPlayer,
		CanRemovePlayer: snap.CanRemovePlayer,
	}
}

func buildClock(snap game.Snapshot) *viewmodel.ClockScreen {
	screen := &viewmodel.ClockScreen{
		SessionID:  snap.ID,
		Paused:     snap.Paused,
		PauseLabel: "Pause",
		Players:    make([]viewmodel.PlayerSection, 0, len(snap.Players)),
	}
	if snap.Paused {
		screen.PauseLabel = "Resume"
		screen.PauseClass = "paused"
	}
	for _, p := range snap.Players {
		color := string(p.Color)
		classes := []string{"player-section", "player-" + color}
		if p.IsActive {
			classes = append(classes, "active")
		}
		if p.IsThinking {
			classes = append(classes, "thinking")
		}
		if p.IsPaused {
			classes = append(classes, "paused")
		}
		// Before anyone has gone, every seat invites a first click.
		label := formatSeconds(p.DisplaySeconds)
		if !snap.Started {
			label = "start"
		}
		screen.Players = append(screen.Players, viewmodel.PlayerSection{
			Index:    p.Index,
			DOMID:    "player-" + strconv.Itoa(p.Index),
			Color:    color,
			Class:    strings.Join(classes, " "),
			Label:    label,
			Seconds:  p.DisplaySeconds,
			Active:   p.IsActive,
			Thinking: p.IsThinking,
			Paused:   p.IsPaused,
		})
	}
	return screen
}

func formatSeconds(seconds int) string {
	return strconv.Itoa(seconds) + `"`
}

// stateResponse is the JSON projection served to API and WebSocket clients.
type stateResponse struct {
	SessionID    string        `json:"session_id"`
	Phase        string        `json:"phase"`
	Capacity     int           `json:"capacity"`
	CanAddPlayer bool          `json:"can_add_player"`
	Started      bool          `json:"started"`
	Paused       bool          `json:"paused"`
	Players      []playerState `json:"players"`
}

type playerState struct {
	Index          int    `json:"index"`
	Color          string `json:"color"`
	DisplaySeconds int    `json:"display_seconds"`
	ElapsedMs      int64  `json:"elapsed_ms"`
	IsActive       bool   `json:"is_active"`
	IsThinking     bool   `json:"is_thinking"`
	IsPaused       bool   `json:"is_paused"`
}

func buildState(snap game.Snapshot) stateResponse {
	state := stateResponse{
		SessionID:    snap.ID,
		Phase:        snap.Phase,
		Capacity:     snap.Capacity,
		CanAddPlayer: snap.CanAddPlayer,
		Started:      snap.Started,
		Paused:       snap.Paused,
	}
	if snap.Phase == game.PhaseClock {
		state.Players = make([]playerState, 0, len(snap.Players))
		for _, p := range snap.Players {
			state.Players = append(state.Players, playerState{
				Index:          p.Index,
				Color:          string(p.Color),
				DisplaySeconds: p.DisplaySeconds,
				ElapsedMs:      p.Elapsed.Milliseconds(),
				IsActive:       p.IsActive,
				IsThinking:     p.IsThinking,
				IsPaused:       p.IsPaused,
			})
		}
		return state
	}
	state.Players = make([]playerState, 0, len(snap.Roster))
	for _, p := range snap.Roster {
		state.Players = append(state.Players, playerState{Index: p.Index, Color: string(p.Color)})
	}
	return state
}

// command is one requested transition, from a form post or a WebSocket message.
type command struct {
	Action string `json:"action"`
	Index  int    `json:"index"`
}

const (
	actionAdd    = "add"
	actionRemove = "remove"
	actionStart  = "start"
	actionSelect = "select"
	actionPause  = "pause"
	actionReset  = "reset"
)

// apply funnels every mutation through the session's transition methods.
func apply(sess *game.Session, cmd command, now time.Time) error {
	switch cmd.Action {
	case actionAdd:
		_, err := sess.AddPlayer(now)
		return err
	case actionRemove:
		_, err := sess.RemovePlayer(cmd.Index, now)
		return err
	case actionStart:
		return sess.Start(now)
	case actionSelect:
		return sess.SelectPlayer(cmd.Index, now)
	case actionPause:
		return sess.TogglePause(now)
	case actionReset:
		sess.Reset(now)
		return nil
	}
	return errUnknownAction
}
