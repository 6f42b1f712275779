// Package client wraps the gRPC surface for the CLI.
package client

import (
	"context"

	"github.com/emberline/keel/internal/model"
)

// ExecuteResult is the CLI-facing outcome of one command.
type ExecuteResult struct {
	Success bool
	Message string
	Events  []model.Event
}

// PublishResult reports a stored module version.
type PublishResult struct {
	Success bool
	Message string
	Version uint64
}

// RuntimeClient is the operations the CLI needs from a runtime.
type RuntimeClient interface {
	Execute(ctx context.Context, category, id, command, payload, causationID string) (*ExecuteResult, error)
	Publish(ctx context.Context, name string, module []byte) (*PublishResult, error)
	Subscribe(ctx context.Context, name string, filter model.Filter) (<-chan model.Event, error)
	Acknowledge(ctx context.Context, name string, globalID uint64) error
	Close() error
}
