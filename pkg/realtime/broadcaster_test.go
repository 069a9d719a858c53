package realtime

import (
	"testing"
)

func TestNewBroadcaster(t *testing.T) {
	b := NewBroadcaster()
	if b == nil {
		t.Fatal("NewBroadcaster returned nil")
	}
	if b.Len() != 0 {
		t.Errorf("Len %d, want 0", b.Len())
	}
}

func TestBroadcaster_PublishDeliversToSubscriber(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish("clock")
	got := <-ch
	if got != "clock" {
		t.Errorf("got event %q, want %q", got, "clock")
	}
}

func TestBroadcaster_PublishDeliversToMultipleSubscribers(t *testing.T) {
	b := NewBroadcaster()
	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	defer b.Unsubscribe(ch1)
	defer b.Unsubscribe(ch2)

	b.Publish("screen")
	if got := <-ch1; got != "screen" {
		t.Errorf("ch1 got %q, want screen", got)
	}
	if got := <-ch2; got != "screen" {
		t.Errorf("ch2 got %q, want screen", got)
	}
}

func TestBroadcaster_PublishDropsWhenBufferFull(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for i := 0; i < subscriberBuffer+5; i++ {
		b.Publish("clock")
	}
	if len(ch) != subscriberBuffer {
		t.Errorf("buffered %d events, want %d", len(ch), subscriberBuffer)
	}
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	b.Unsubscribe(ch)
	_, open := <-ch
	if open {
		t.Error("channel should be closed after Unsubscribe")
	}
	// Second unsubscribe must not panic on double close
	b.Unsubscribe(ch)
}

func TestBroadcaster_UnsubscribeRemovesFromDelivery(t *testing.T) {
	b := NewBroadcaster()
	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	b.Unsubscribe(ch1)
	b.Publish("screen")
	if got := <-ch2; got != "screen" {
		t.Errorf("ch2 got %q, want screen", got)
	}
	if b.Len() != 1 {
		t.Errorf("Len %d, want 1", b.Len())
	}
	b.Unsubscribe(ch2)
}

func TestBroadcaster_Close(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	b.Close()
	if _, open := <-ch; open {
		t.Error("subscriber channel should be closed after Close")
	}
	late := b.Subscribe()
	if _, open := <-late; open {
		t.Error("subscribe after Close should return a closed channel")
	}
	b.Close()
	b.Publish("clock")
}
