// Package messagestore defines the persistence interface for the event log
// and the durable subscription cursors.
package messagestore

import (
	"context"

	"github.com/emberline/keel/internal/model"
)

// Store is the append-only message store. Appends to different streams may
// proceed in parallel; within one stream the caller holds the write
// exclusively (one actor per entity) and the expected-sequence check is
// defense-in-depth.
type Store interface {
	// Append atomically persists the proposed events at the tail of the
	// stream. expectedSequence must equal the current stream length; on
	// mismatch a *model.ConflictError carrying the current length is
	// returned and nothing is written. Each persisted event receives a
	// fresh, strictly increasing global id, and is published to the live
	// tap after commit.
	Append(ctx context.Context, stream model.StreamName, expectedSequence uint64, proposed []model.ProposedEvent) ([]model.Event, error)

	// ReadStream returns events of one stream in ascending sequence order,
	// starting at fromSequence. Empty if the stream does not exist or is
	// shorter than fromSequence. limit <= 0 means no limit.
	ReadStream(ctx context.Context, stream model.StreamName, fromSequence uint64, limit int) ([]model.Event, error)

	// ReadCategory returns events whose stream belongs to the category, in
	// ascending global id order, starting at fromGlobalID.
	ReadCategory(ctx context.Context, category string, fromGlobalID uint64, limit int) ([]model.Event, error)

	// ReadAll returns events across all streams in ascending global id
	// order, starting at fromGlobalID.
	ReadAll(ctx context.Context, fromGlobalID uint64, limit int) ([]model.Event, error)

	// StreamLength returns the number of events in the stream, which equals
	// the next sequence to be assigned.
	StreamLength(ctx context.Context, stream model.StreamName) (uint64, error)

	// LoadCursor returns the named subscriber cursor. A cursor that has
	// never been saved is returned with Acked=false.
	LoadCursor(ctx context.Context, name string) (*model.Cursor, error)

	// SaveCursor durably advances the named cursor. Saves that would move
	// the cursor backwards are ignored.
	SaveCursor(ctx context.Context, name string, globalID uint64) error

	// DeleteCursor removes the named cursor (explicit unsubscribe).
	DeleteCursor(ctx context.Context, name string) error

	// Tap returns a channel of events observed after their append commits,
	// in global id order, plus a cancel function. A slow receiver may miss
	// events; receivers detect the gap from the global ids and catch up
	// with ReadAll.
	Tap() (<-chan model.Event, func())

	Close() error
}
