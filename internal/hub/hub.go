// Package hub delivers events to named subscribers: historical replay from
// the durable cursor, then live tailing of the store's post-append
// notifications. Delivery is at-least-once, in global id order.
package hub

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/emberline/keel/internal/messagestore"
	"github.com/emberline/keel/internal/model"
)

// catchUpBatch is the read size while replaying from the store.
const catchUpBatch = 256

// outBuffer is the per-subscriber delivery buffer. When the subscriber
// stalls past it, live events overflow the tap and the hub falls back to
// reading from the store, so nothing is lost.
const outBuffer = 64

// Hub tracks active subscriptions and durable cursors.
type Hub struct {
	store  messagestore.Store
	logger *slog.Logger

	mu     sync.Mutex
	active map[string]*Subscription
	closed bool
}

// New creates the hub on top of the store.
func New(store messagestore.Store, logger *slog.Logger) *Hub {
	return &Hub{
		store:  store,
		logger: logger,
		active: make(map[string]*Subscription),
	}
}

// Subscribe registers the named subscriber and starts delivery from its
// durable cursor. A name can hold only one active subscription at a time;
// the previous one must disconnect first.
func (h *Hub) Subscribe(ctx context.Context, name string, filter model.Filter) (*Subscription, error) {
	if name == "" {
		return nil, &model.InvalidInputError{Field: "name", Reason: "must not be empty"}
	}

	cursor, err := h.store.LoadCursor(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load cursor %q: %w", name, err)
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, &model.InvalidInputError{Field: "name", Reason: "hub shut down"}
	}
	if _, ok := h.active[name]; ok {
		h.mu.Unlock()
		return nil, &model.InvalidInputError{Field: "name", Reason: "already subscribed"}
	}
	sub := &Subscription{
		hub:    h,
		name:   name,
		filter: filter,
		out:    make(chan model.Event, outBuffer),
		stop:   make(chan struct{}),
	}
	h.active[name] = sub
	h.mu.Unlock()

	go sub.run(cursor.NextGlobalID())
	return sub, nil
}

// Acknowledge durably advances the named cursor. Regressing acks are
// no-ops; the subscription need not be active.
func (h *Hub) Acknowledge(ctx context.Context, name string, globalID uint64) error {
	if name == "" {
		return &model.InvalidInputError{Field: "name", Reason: "must not be empty"}
	}
	return h.store.SaveCursor(ctx, name, globalID)
}

// Unsubscribe disconnects the named subscriber if active and deletes its
// cursor.
func (h *Hub) Unsubscribe(ctx context.Context, name string) error {
	h.mu.Lock()
	sub := h.active[name]
	h.mu.Unlock()
	if sub != nil {
		sub.Close()
	}
	return h.store.DeleteCursor(ctx, name)
}

// Shutdown disconnects every subscriber. Cursors are retained at their last
// persisted position.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	h.closed = true
	subs := make([]*Subscription, 0, len(h.active))
	for _, sub := range h.active {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}

func (h *Hub) remove(name string, sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active[name] == sub {
		delete(h.active, name)
	}
}

// Subscription is one live delivery channel for a named subscriber.
type Subscription struct {
	hub    *Hub
	name   string
	filter model.Filter
	out    chan model.Event
	stop   chan struct{}
	once   sync.Once
}

// Events is the delivery channel. Closed when the subscription ends.
func (s *Subscription) Events() <-chan model.Event { return s.out }

// Close disconnects the subscriber. The cursor keeps its last persisted
// position; a later Subscribe resumes from there.
func (s *Subscription) Close() {
	s.once.Do(func() { close(s.stop) })
}

// run drives the replay/live state machine. next is the first global id not
// yet considered; it advances over every scanned event, matching or not.
func (s *Subscription) run(next uint64) {
	defer close(s.out)
	defer s.hub.remove(s.name, s)

	// Tap before reading so events appended during replay are not missed.
	tap, cancelTap := s.hub.store.Tap()
	defer cancelTap()

	for {
		caughtUp, err := s.catchUp(&next)
		if err != nil {
			s.hub.logger.Error("subscription replay failed", "subscriber", s.name, "err", err)
			return
		}
		if !caughtUp {
			return // stopped
		}

		// live returns true on a detected gap, sending us back into
		// catch-up; false when the subscription is over.
		if !s.live(&next, tap) {
			return
		}
	}
}

// catchUp replays matching events from the store until the log is exhausted.
// Returns false if the subscription stopped mid-replay.
func (s *Subscription) catchUp(next *uint64) (bool, error) {
	ctx := context.Background()
	for {
		events, err := s.hub.store.ReadAll(ctx, *next, catchUpBatch)
		if err != nil {
			return false, err
		}
		if len(events) == 0 {
			return true, nil
		}
		for _, ev := range events {
			if s.filter.Matches(&ev) {
				select {
				case s.out <- ev:
				case <-s.stop:
					return false, nil
				}
			}
			*next = ev.GlobalID + 1
		}
		if len(events) < catchUpBatch {
			return true, nil
		}
	}
}

// live consumes the store tap. Returns true when a gap is detected and the
// caller should fall back to catch-up; false when the subscription is
// stopping or the store closed.
func (s *Subscription) live(next *uint64, tap <-chan model.Event) bool {
	for {
		select {
		case ev, open := <-tap:
			if !open {
				return false
			}
			if ev.GlobalID < *next {
				continue // already delivered during catch-up
			}
			if ev.GlobalID > *next {
				// The tap overflowed while we were blocked; re-read
				// the missed range from the store.
				return true
			}
			if s.filter.Matches(&ev) {
				select {
				case s.out <- ev:
				case <-s.stop:
					return false
				}
			}
			*next = ev.GlobalID + 1
		case <-s.stop:
			return false
		}
	}
}
