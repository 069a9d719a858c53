package clockdown

import (
	"errors"
	"fmt"
	"time"

	"clockdown/pkg/realtime"
)

// ErrPrecondition reports a caller bug: an invalid roster handed to
// StartGame, an uninitialized State, or a seat index outside the roster.
var ErrPrecondition = errors.New("clockdown: precondition violated")

const noActive = -1

type seat struct {
	Player
	watch realtime.Stopwatch
}

// State is the running clock: per-player banked time, the single active
// player and the global pause flag. Transitions return a new State and leave
// the receiver untouched.
type State struct {
	seats  []seat
	active int
	paused bool
}

// StartGame seeds the engine from a finalized roster. Every player starts
// thinking at zero and nobody is active.
func StartGame(r Roster) (State, error) {
	players, err := r.Finalize()
	if err != nil {
		return State{}, err
	}
	seats := make([]seat, len(players))
	for i, p := range players {
		seats[i] = seat{Player: p}
	}
	return State{seats: seats, active: noActive}, nil
}

// Len returns the number of players.
func (s State) Len() int {
	return len(s.seats)
}

// Players returns the seats in roster order.
func (s State) Players() []Player {
	players := make([]Player, len(s.seats))
	for i, st := range s.seats {
		players[i] = st.Player
	}
	return players
}

// Active returns the index of the active player, if any.
func (s State) Active() (int, bool) {
	if len(s.seats) == 0 || s.active == noActive {
		return 0, false
	}
	return s.active, true
}

// Paused reports whether the whole clock is frozen.
func (s State) Paused() bool {
	return s.paused
}

// Started reports whether any player has been selected yet.
func (s State) Started() bool {
	_, ok := s.Active()
	return ok
}

// SelectPlayer handles a click on player i.
//
// With nobody active, i becomes active. When i is already active its time is
// banked and the clock passes to (i+1) mod n. Clicking any other player, or
// clicking while paused, changes nothing.
func (s State) SelectPlayer(i int, now time.Time) (State, error) {
	if len(s.seats) == 0 {
		return s, fmt.Errorf("%w: engine not started", ErrPrecondition)
	}
	if i < 0 || i >= len(s.seats) {
		return s, fmt.Errorf("%w: player %d outside roster of %d", ErrPrecondition, i, len(s.seats))
	}
	if s.paused {
		return s, nil
	}

	switch s.active {
	case noActive:
		next := s.clone()
		next.seats[i].watch.Start(now)
		next.active = i
		return next, nil
	case i:
		next := s.clone()
		next.seats[i].watch.Stop(now)
		to := (i + 1) % len(next.seats)
		next.seats[to].watch.Start(now)
		next.active = to
		return next, nil
	default:
		return s, nil
	}
}

// TogglePause flips the global pause flag. Pausing banks the active player's
// live time; resuming restarts accrual from that banked value at now.
func (s State) TogglePause(now time.Time) State {
	if len(s.seats) == 0 {
		return s
	}
	next := s.clone()
	next.paused = !s.paused
	if next.active == noActive {
		return next
	}
	if next.paused {
		next.seats[next.active].watch.Stop(now)
	} else {
		next.seats[next.active].watch.Start(now)
	}
	return next
}

// Elapsed returns player i's accumulated time as of now.
func (s State) Elapsed(i int, now time.Time) time.Duration {
	if i < 0 || i >= len(s.seats) {
		return 0
	}
	return s.seats[i].watch.Elapsed(now)
}

// PlayerView is the read projection a view renders one player from.
type PlayerView struct {
	Index          int
	Color          Color
	Elapsed        time.Duration
	DisplaySeconds int
	IsActive       bool
	IsThinking     bool
	IsPaused       bool
}

// Snapshot projects the state at now. It never mutates the state, so two
// reads with the same now are identical, and while paused every read is.
func (s State) Snapshot(now time.Time) []PlayerView {
	views := make([]PlayerView, len(s.seats))
	for i, st := range s.seats {
		elapsed := st.watch.Elapsed(now)
		active := i == s.active
		views[i] = PlayerView{
			Index:          i,
			Color:          st.Color,
			Elapsed:        elapsed,
			DisplaySeconds: int(elapsed / time.Second),
			IsActive:       active,
			IsThinking:     !active && !s.paused,
			IsPaused:       s.paused,
		}
	}
	return views
}

// NextTick returns when the active player's displayed seconds next change.
// It returns false when nothing is accruing.
func (s State) NextTick(now time.Time) (time.Time, bool) {
	if s.paused || s.active == noActive || len(s.seats) == 0 {
		return time.Time{}, false
	}
	return s.seats[s.active].watch.NextWake(now)
}

func (s State) clone() State {
	seats := make([]seat, len(s.seats))
	copy(seats, s.seats)
	s.seats = seats
	return s
}
