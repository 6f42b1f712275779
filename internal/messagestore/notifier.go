package messagestore

import (
	"sync"

	"github.com/emberline/keel/internal/model"
)

// tapBuffer is the per-tap channel capacity. A tap that falls further behind
// than this misses events and is expected to catch up from the store.
const tapBuffer = 256

// Notifier fans appended events out to live taps. Shared by every store
// backend; Publish is called after the append transaction commits, still
// inside the append critical section so taps observe global id order.
type Notifier struct {
	mu     sync.Mutex
	taps   map[int]chan model.Event
	nextID int
	closed bool
}

// NewNotifier returns an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{taps: make(map[int]chan model.Event)}
}

// Tap registers a new receiver. The cancel function unregisters it and closes
// the channel.
func (n *Notifier) Tap() (<-chan model.Event, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan model.Event, tapBuffer)
	if n.closed {
		close(ch)
		return ch, func() {}
	}

	id := n.nextID
	n.nextID++
	n.taps[id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if tap, ok := n.taps[id]; ok {
			delete(n.taps, id)
			close(tap)
		}
	}
	return ch, cancel
}

// Publish delivers events to every tap. Never blocks: a tap whose buffer is
// full misses the event and recovers from the store.
func (n *Notifier) Publish(events []model.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ev := range events {
		for _, tap := range n.taps {
			select {
			case tap <- ev:
			default:
			}
		}
	}
}

// Close closes every tap channel.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	for id, tap := range n.taps {
		delete(n.taps, id)
		close(tap)
	}
}
