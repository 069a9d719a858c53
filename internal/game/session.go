package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"clockdown/internal/clockdown"
)

const (
	PhaseWelcome = "welcome"
	PhaseClock   = "clock"
)

// ErrWrongPhase is returned when an action does not apply to the current screen.
var ErrWrongPhase = errors.New("game: action not allowed in this phase")

// Session is one Clockdown table. It moves from the welcome screen (roster
// editing) to the clock screen and back on reset. All transitions go through
// its methods and hold its lock, so readers never see a half-applied one.
type Session struct {
	mu           sync.Mutex
	ID           string
	CreatedAt    time.Time
	lastActivity time.Time
	phase        string
	capacity     int
	roster       clockdown.Roster
	clock        clockdown.State
}

// NewSession creates a session on the welcome screen with a two-player roster.
func NewSession(id string, capacity int, now time.Time) *Session {
	return &Session{
		ID:           id,
		CreatedAt:    now,
		lastActivity: now,
		phase:        PhaseWelcome,
		capacity:     capacity,
		roster:       clockdown.NewRoster(capacity),
	}
}

// Phase returns the current screen.
func (s *Session) Phase() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// LastActivity returns when the session last changed.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// AddPlayer adds a seat on the welcome screen. It reports whether the roster
// grew; at capacity it is a silent no-op.
func (s *Session) AddPlayer(now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseWelcome {
		return false, fmt.Errorf("add player: %w", ErrWrongPhase)
	}
	before := s.roster.Len()
	s.roster = s.roster.AddPlayer()
	s.lastActivity = now
	return s.roster.Len() > before, nil
}

// RemovePlayer removes seat i on the welcome screen.
func (s *Session) RemovePlayer(i int, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseWelcome {
		return false, fmt.Errorf("remove player: %w", ErrWrongPhase)
	}
	before := s.roster.Len()
	s.roster = s.roster.RemovePlayer(i)
	s.lastActivity = now
	return s.roster.Len() < before, nil
}

// Start hands the roster to the clock engine and switches to the clock screen.
func (s *Session) Start(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseWelcome {
		return fmt.Errorf("start: %w", ErrWrongPhase)
	}
	state, err := clockdown.StartGame(s.roster)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	s.clock = state
	s.phase = PhaseClock
	s.lastActivity = now
	return nil
}

// SelectPlayer forwards a player click to the engine.
func (s *Session) SelectPlayer(i int, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseClock {
		return fmt.Errorf("select player: %w", ErrWrongPhase)
	}
	state, err := s.clock.SelectPlayer(i, now)
	if err != nil {
		return fmt.Errorf("select player: %w", err)
	}
	s.clock = state
	s.lastActivity = now
	return nil
}

// TogglePause pauses or resumes the whole clock.
func (s *Session) TogglePause(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseClock {
		return fmt.Errorf("toggle pause: %w", ErrWrongPhase)
	}
	s.clock = s.clock.TogglePause(now)
	s.lastActivity = now
	return nil
}

// Reset discards the running clock and returns to the welcome screen with a
// fresh two-player roster.
func (s *Session) Reset(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseWelcome
	s.roster = clockdown.NewRoster(s.capacity)
	s.clock = clockdown.State{}
	s.lastActivity = now
}

// NextTick returns when the displayed clock next changes.
func (s *Session) NextTick(now time.Time) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseClock {
		return time.Time{}, false
	}
	return s.clock.NextTick(now)
}

// Snapshot captures the state needed for rendering either screen.
type Snapshot struct {
	ID              string
	Phase           string
	Capacity        int
	CanAddPlayer    bool
	CanRemovePlayer bool
	Started         bool
	Paused          bool
	Roster          []clockdown.Player
	Players         []clockdown.PlayerView
}

// Snapshot returns a consistent view of the session at now.
func (s *Session) Snapshot(now time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:       s.ID,
		Phase:    s.phase,
		Capacity: s.roster.Capacity(),
	}
	switch s.phase {
	case PhaseWelcome:
		snap.Roster = s.roster.Players()
		snap.CanAddPlayer = !s.roster.Full()
		snap.CanRemovePlayer = s.roster.Len() > clockdown.MinPlayers
	case PhaseClock:
		snap.Roster = s.clock.Players()
		snap.Players = s.clock.Snapshot(now)
		snap.Started = s.clock.Started()
		snap.Paused = s.clock.Paused()
	}
	return snap
}
