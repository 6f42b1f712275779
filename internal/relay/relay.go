// Package relay forwards appended events to an external broker so
// downstream projections outside the runtime can consume them without
// holding a gRPC subscription.
package relay

import (
	"context"

	"github.com/emberline/keel/internal/model"
)

// Publisher pushes one event to the broker.
type Publisher interface {
	Publish(ctx context.Context, event *model.Event) error
	Close() error
}

// NoopPublisher is a Publisher that does nothing.
type NoopPublisher struct{}

func (n *NoopPublisher) Publish(ctx context.Context, event *model.Event) error {
	return nil
}

func (n *NoopPublisher) Close() error {
	return nil
}
