package game

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"clockdown/pkg/realtime"
)

const (
	// EventScreen means the phase or roster changed.
	EventScreen realtime.Event = "screen"
	// EventClock means a displayed time changed.
	EventClock realtime.Event = "clock"
)

// Store holds sessions and delegates to realtime.RoomStore for broadcast and ticking.
type Store struct {
	r        *realtime.RoomStore[*Session]
	capacity int
}

// NewStore creates an in-memory session store. capacity is the roster cap
// for new sessions; a nil clock means the wall clock.
func NewStore(clock clockwork.Clock, capacity int) *Store {
	return &Store{
		r:        realtime.NewRoomStore[*Session](clock),
		capacity: capacity,
	}
}

// Now returns the store clock's current instant in UTC.
func (s *Store) Now() time.Time {
	return s.r.Clock().Now().UTC()
}

// CreateSession registers a new session and starts its clock loop.
func (s *Store) CreateSession() *Session {
	sess := NewSession(uuid.NewString(), s.capacity, s.Now())
	s.r.Create(sess.ID, sess)
	s.EnsureClockLoop(sess.ID)
	log.Info().Str("session_id", sess.ID).Msg("session created")
	return sess
}

// GetSession returns a session by ID if it exists.
func (s *Store) GetSession(id string) (*Session, bool) {
	room, ok := s.r.Get(id)
	if !ok {
		return nil, false
	}
	return room.State, true
}

// DeleteSession removes a session, stops its loop and disconnects its streams.
func (s *Store) DeleteSession(id string) {
	s.r.Delete(id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.r.Len()
}

// Broadcaster returns the stream broadcaster for a session.
func (s *Store) Broadcaster(id string) (*realtime.Broadcaster, bool) {
	return s.r.Broadcaster(id)
}

// Publish notifies subscribers of a session with a typed event.
func (s *Store) Publish(id string, event realtime.Event) {
	s.r.Publish(id, event)
}

// Changed publishes a screen update and lets the clock loop reschedule.
// Call it after every successful transition.
func (s *Store) Changed(id string) {
	s.r.Publish(id, EventScreen)
	s.WakeClockLoop(id)
}

// EnsureClockLoop starts the tick loop for a session if not already running.
// The loop publishes EventClock at every whole-second change of the active
// player's time and idles while nothing accrues. It never mutates the session.
func (s *Store) EnsureClockLoop(id string) {
	getState := func() *Session {
		sess, ok := s.GetSession(id)
		if !ok {
			return nil
		}
		return sess
	}
	tick := func(sess *Session, now time.Time) (time.Time, []realtime.Event, bool) {
		if sess == nil {
			return time.Time{}, nil, true
		}
		next, ok := sess.NextTick(now)
		if !ok {
			return time.Time{}, nil, false
		}
		return next, []realtime.Event{EventClock}, false
	}
	s.r.RunLoop(id, getState, tick)
}

// WakeClockLoop unblocks the clock loop so it recomputes its next tick.
func (s *Store) WakeClockLoop(id string) {
	s.r.Wake(id)
}

// Sweep deletes sessions idle for longer than ttl that nobody is watching.
// It returns the number removed.
func (s *Store) Sweep(now time.Time, ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	var stale []string
	s.r.Each(func(room *realtime.Room[*Session]) {
		if now.Sub(room.State.LastActivity()) <= ttl {
			return
		}
		if hub, ok := s.r.Broadcaster(room.ID); ok && hub.Len() > 0 {
			return
		}
		stale = append(stale, room.ID)
	})
	for _, id := range stale {
		s.r.Delete(id)
		log.Info().Str("session_id", id).Msg("idle session swept")
	}
	return len(stale)
}
