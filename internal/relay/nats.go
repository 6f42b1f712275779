package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/emberline/keel/internal/messagestore"
	"github.com/emberline/keel/internal/model"
)

// subjectPrefix is the NATS subject namespace for relayed events. The full
// subject is "keel.events.<category>".
const subjectPrefix = "keel.events."

// NATSPublisher publishes JSON-encoded events to per-category NATS subjects.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to NATS at the given URL.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSPublisher{conn: nc}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, event *model.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	return p.conn.Publish(subjectPrefix+event.StreamName.Category(), data)
}

func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}

// Pump consumes a store tap and forwards every event to the publisher until
// the tap closes or ctx is cancelled. Delivery to the broker is best-effort;
// failures are logged, and a tap overflow is caught up from the store so the
// broker sees every event at least once.
type Pump struct {
	store     messagestore.Store
	publisher Publisher
	logger    *slog.Logger
	done      chan struct{}
}

// StartPump begins relaying in the background.
func StartPump(ctx context.Context, store messagestore.Store, publisher Publisher, logger *slog.Logger) *Pump {
	p := &Pump{
		store:     store,
		publisher: publisher,
		logger:    logger,
		done:      make(chan struct{}),
	}
	// Tap before returning so events appended after StartPump are relayed.
	tap, cancel := store.Tap()
	go p.run(ctx, tap, cancel)
	return p
}

// Wait blocks until the pump has stopped.
func (p *Pump) Wait() {
	<-p.done
}

func (p *Pump) run(ctx context.Context, tap <-chan model.Event, cancel func()) {
	defer close(p.done)
	defer cancel()

	next := uint64(0)
	for {
		select {
		case ev, ok := <-tap:
			if !ok {
				return
			}
			if ev.GlobalID < next {
				continue
			}
			if ev.GlobalID > next && next > 0 {
				// Missed events while behind; re-read the gap.
				if !p.catchUp(ctx, &next, ev.GlobalID) {
					return
				}
			}
			p.publish(ctx, &ev)
			next = ev.GlobalID + 1
		case <-ctx.Done():
			return
		}
	}
}

// catchUp relays the store range [next, until) and reports whether the pump
// should continue.
func (p *Pump) catchUp(ctx context.Context, next *uint64, until uint64) bool {
	for *next < until {
		events, err := p.store.ReadAll(ctx, *next, 256)
		if err != nil {
			p.logger.Error("relay catch-up failed", "err", err)
			return false
		}
		if len(events) == 0 {
			return true
		}
		for _, ev := range events {
			if ev.GlobalID >= until {
				return true
			}
			p.publish(ctx, &ev)
			*next = ev.GlobalID + 1
		}
	}
	return true
}

func (p *Pump) publish(ctx context.Context, ev *model.Event) {
	if err := p.publisher.Publish(ctx, ev); err != nil {
		p.logger.Warn("relay publish failed", "global_id", ev.GlobalID, "err", err)
	}
}
