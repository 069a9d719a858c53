package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Room holds state and a broadcaster for one room.
type Room[T any] struct {
	ID    string
	State T
	hub   *Broadcaster
}

// RoomStore manages rooms, their broadcasters and their timing loops.
type RoomStore[T any] struct {
	clock clockwork.Clock
	mu    sync.RWMutex
	rooms map[string]*Room[T]
	loops map[string]context.CancelFunc
	wakes map[string]chan struct{}
}

// NewRoomStore creates an empty room store driven by clock.
// A nil clock means the real wall clock.
func NewRoomStore[T any](clock clockwork.Clock) *RoomStore[T] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RoomStore[T]{
		clock: clock,
		rooms: make(map[string]*Room[T]),
		loops: make(map[string]context.CancelFunc),
		wakes: make(map[string]chan struct{}),
	}
}

// Clock returns the clock the store's loops run on.
func (s *RoomStore[T]) Clock() clockwork.Clock {
	return s.clock
}

// Create adds a room with the given id and state, and a new Broadcaster.
func (s *RoomStore[T]) Create(id string, state T) *Room[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &Room[T]{ID: id, State: state, hub: NewBroadcaster()}
	s.rooms[id] = r
	return r
}

// Get returns the room by ID if it exists.
func (s *RoomStore[T]) Get(id string) (*Room[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	return r, ok
}

// Each calls fn for a snapshot of the current rooms.
func (s *RoomStore[T]) Each(fn func(r *Room[T])) {
	s.mu.RLock()
	rooms := make([]*Room[T], 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.mu.RUnlock()
	for _, r := range rooms {
		fn(r)
	}
}

// Len returns the number of rooms.
func (s *RoomStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// Delete removes the room, stops its loop and closes its subscribers.
func (s *RoomStore[T]) Delete(id string) {
	s.mu.Lock()
	r, ok := s.rooms[id]
	delete(s.rooms, id)
	cancel, looping := s.loops[id]
	s.mu.Unlock()
	if looping {
		cancel()
	}
	if ok && r.hub != nil {
		r.hub.Close()
	}
}

// Publish notifies subscribers of the room's broadcaster.
// Publishing to an unknown room is a no-op.
func (s *RoomStore[T]) Publish(id string, event Event) {
	if hub, ok := s.Broadcaster(id); ok {
		hub.Publish(event)
	}
}

// Broadcaster returns the broadcaster for the room.
func (s *RoomStore[T]) Broadcaster(id string) (*Broadcaster, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, false
	}
	if r.hub == nil {
		r.hub = NewBroadcaster()
	}
	return r.hub, true
}

// TickFunc is called by RunLoop to determine the next wake time and events to publish.
// A zero next means sleep until woken. stop true means exit the loop.
type TickFunc[T any] func(state T, now time.Time) (next time.Time, events []Event, stop bool)

// RunLoop starts a timing loop for the room. If a loop already exists for id, it is not started again.
func (s *RoomStore[T]) RunLoop(id string, getState func() T, tick TickFunc[T]) {
	s.mu.Lock()
	if _, ok := s.loops[id]; ok {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	wake := make(chan struct{}, 1)
	s.loops[id] = cancel
	s.wakes[id] = wake
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.loops, id)
			delete(s.wakes, id)
			s.mu.Unlock()
			cancel()
		}()

		for {
			now := s.clock.Now().UTC()
			next, events, stop := tick(getState(), now)
			if stop {
				return
			}
			for _, e := range events {
				s.Publish(id, e)
			}

			if next.IsZero() {
				select {
				case <-ctx.Done():
					return
				case <-wake:
					continue
				}
			}

			wait := next.Sub(now)
			if wait < 0 {
				wait = 0
			}
			timer := s.clock.NewTimer(wait)
			select {
			case <-ctx.Done():
				stopAndDrain(timer)
				return
			case <-timer.Chan():
			case <-wake:
				stopAndDrain(timer)
			}
		}
	}()
}

// Looping reports whether a loop is running for the room.
func (s *RoomStore[T]) Looping(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.loops[id]
	return ok
}

// Wake unblocks the room's loop so it recomputes immediately.
func (s *RoomStore[T]) Wake(id string) {
	s.mu.RLock()
	wake, ok := s.wakes[id]
	s.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case wake <- struct{}{}:
	default:
	}
}

func stopAndDrain(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
