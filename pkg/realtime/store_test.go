package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestNewRoomStore(t *testing.T) {
	s := NewRoomStore[string](nil)
	if s == nil {
		t.Fatal("NewRoomStore returned nil")
	}
	if s.Clock() == nil {
		t.Error("nil clock should default to the real clock")
	}
}

func TestRoomStore_Create_Get(t *testing.T) {
	s := NewRoomStore[string](clockwork.NewFakeClock())
	s.Create("room1", "state1")
	room, ok := s.Get("room1")
	if !ok {
		t.Fatal("Get returned false for existing room")
	}
	if room.ID != "room1" {
		t.Errorf("room ID %q, want room1", room.ID)
	}
	if room.State != "state1" {
		t.Errorf("room State %q, want state1", room.State)
	}

	_, ok = s.Get("nonexistent")
	if ok {
		t.Error("Get should return false for missing ID")
	}
	if s.Len() != 1 {
		t.Errorf("Len %d, want 1", s.Len())
	}
}

func TestRoomStore_Publish(t *testing.T) {
	s := NewRoomStore[string](clockwork.NewFakeClock())
	s.Create("r1", "x")
	hub, ok := s.Broadcaster("r1")
	if !ok {
		t.Fatal("Broadcaster returned false for existing room")
	}
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	s.Publish("r1", "event1")
	got := <-ch
	if got != "event1" {
		t.Errorf("got %q, want event1", got)
	}
}

func TestRoomStore_BroadcasterUnknownRoom(t *testing.T) {
	s := NewRoomStore[string](clockwork.NewFakeClock())
	if _, ok := s.Broadcaster("missing"); ok {
		t.Error("Broadcaster should return false for unknown room")
	}
	// Must not panic or create the room
	s.Publish("missing", "x")
	if s.Len() != 0 {
		t.Errorf("Len %d, want 0", s.Len())
	}
}

func TestRoomStore_DeleteClosesSubscribers(t *testing.T) {
	s := NewRoomStore[string](clockwork.NewFakeClock())
	s.Create("r1", "x")
	hub, _ := s.Broadcaster("r1")
	ch := hub.Subscribe()

	s.Delete("r1")
	if _, ok := s.Get("r1"); ok {
		t.Error("room should be gone after Delete")
	}
	if _, open := <-ch; open {
		t.Error("subscriber should be closed after Delete")
	}
}

func TestRoomStore_Each(t *testing.T) {
	s := NewRoomStore[int](clockwork.NewFakeClock())
	s.Create("a", 1)
	s.Create("b", 2)
	sum := 0
	s.Each(func(r *Room[int]) { sum += r.State })
	if sum != 3 {
		t.Errorf("sum %d, want 3", sum)
	}
}

func TestRoomStore_Wake_NoPanicWhenNoLoop(t *testing.T) {
	s := NewRoomStore[string](clockwork.NewFakeClock())
	s.Wake("nonexistent")
}

func TestRoomStore_RunLoop_PublishesOnTimer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewRoomStore[string](clock)
	s.Create("r1", "x")
	hub, _ := s.Broadcaster("r1")
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	ticks := make(chan time.Time, 10)
	s.RunLoop("r1", func() string { return "x" }, func(_ string, now time.Time) (time.Time, []Event, bool) {
		ticks <- now
		return now.Add(time.Second), []Event{"clock"}, false
	})
	defer s.Delete("r1")

	// First pass runs immediately.
	<-ticks
	if got := <-ch; got != "clock" {
		t.Fatalf("got %q, want clock", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := clock.BlockUntilContext(ctx, 1); err != nil {
		t.Fatalf("loop never armed its timer: %v", err)
	}
	clock.Advance(time.Second)
	<-ticks
	if got := <-ch; got != "clock" {
		t.Errorf("got %q, want clock", got)
	}
}

func TestRoomStore_RunLoop_IdleUntilWake(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewRoomStore[string](clock)
	s.Create("r1", "x")

	ticks := make(chan struct{}, 10)
	s.RunLoop("r1", func() string { return "x" }, func(_ string, _ time.Time) (time.Time, []Event, bool) {
		ticks <- struct{}{}
		return time.Time{}, nil, false
	})
	defer s.Delete("r1")
	<-ticks

	if !s.Looping("r1") {
		t.Fatal("loop should be running")
	}
	// Starting again is ignored.
	s.RunLoop("r1", func() string { return "x" }, func(_ string, _ time.Time) (time.Time, []Event, bool) {
		t.Error("second loop must not run")
		return time.Time{}, nil, true
	})

	s.Wake("r1")
	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("Wake did not rerun the tick")
	}
}

func TestRoomStore_RunLoop_StopExits(t *testing.T) {
	s := NewRoomStore[string](clockwork.NewFakeClock())
	s.Create("r1", "x")
	done := make(chan struct{})
	s.RunLoop("r1", func() string { return "x" }, func(_ string, _ time.Time) (time.Time, []Event, bool) {
		close(done)
		return time.Time{}, nil, true
	})
	<-done
	deadline := time.Now().Add(2 * time.Second)
	for s.Looping("r1") {
		if time.Now().After(deadline) {
			t.Fatal("loop did not exit after stop")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
