package messagestore

import (
	"testing"

	"github.com/emberline/keel/internal/model"
)

func TestNotifierDeliversInOrder(t *testing.T) {
	n := NewNotifier()
	defer n.Close()

	tap, cancel := n.Tap()
	defer cancel()

	n.Publish([]model.Event{{GlobalID: 1}, {GlobalID: 2}, {GlobalID: 3}})

	for want := uint64(1); want <= 3; want++ {
		got := <-tap
		if got.GlobalID != want {
			t.Errorf("received global id %d, want %d", got.GlobalID, want)
		}
	}
}

func TestNotifierDropsWhenFull(t *testing.T) {
	n := NewNotifier()
	defer n.Close()

	tap, cancel := n.Tap()
	defer cancel()

	// Publish past the tap buffer without receiving; Publish must not block.
	for i := 0; i < tapBuffer+10; i++ {
		n.Publish([]model.Event{{GlobalID: uint64(i + 1)}})
	}

	// The receiver sees a prefix of the sequence, never a reorder.
	last := uint64(0)
	for i := 0; i < tapBuffer; i++ {
		got := <-tap
		if got.GlobalID <= last {
			t.Fatalf("reordered delivery: %d after %d", got.GlobalID, last)
		}
		last = got.GlobalID
	}
}

func TestNotifierCancelStopsDelivery(t *testing.T) {
	n := NewNotifier()
	defer n.Close()

	tap, cancel := n.Tap()
	cancel()

	if _, ok := <-tap; ok {
		t.Error("cancelled tap received an event")
	}

	// Publishing after cancel must not panic.
	n.Publish([]model.Event{{GlobalID: 1}})
}

func TestNotifierCloseClosesTaps(t *testing.T) {
	n := NewNotifier()
	tap, cancel := n.Tap()
	defer cancel()

	n.Close()
	if _, ok := <-tap; ok {
		t.Error("tap still open after notifier close")
	}

	// Tap after close returns a closed channel.
	late, _ := n.Tap()
	if _, ok := <-late; ok {
		t.Error("tap opened after close received an event")
	}
}
