package model

import (
	"encoding/json"
	"time"
)

// Event is a persisted event record. GlobalID is unique and monotonic across
// the whole store; Sequence starts at 0 for each stream and increments by one
// per append.
type Event struct {
	ID         string          `json:"id"`
	GlobalID   uint64          `json:"global_id"`
	Sequence   uint64          `json:"position"`
	StreamName StreamName      `json:"stream_name"`
	EventType  string          `json:"event_type"`
	Data       json.RawMessage `json:"data"`
	Metadata   Metadata        `json:"metadata,omitempty"`
	Time       time.Time       `json:"time"`
}

// Metadata carries optional key/value context attached to an event. The
// runtime only interprets the causation id; everything else is opaque.
type Metadata map[string]string

// MetadataCausationID is the metadata key holding the idempotency key of the
// command that produced the event.
const MetadataCausationID = "causation_id"

// CausationID returns the causation id recorded on the event, if any.
func (e *Event) CausationID() string {
	return e.Metadata[MetadataCausationID]
}

// ProposedEvent is an event emitted by a module that has not yet been
// persisted. The store assigns id, sequences, and timestamp on append.
type ProposedEvent struct {
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
	Metadata  Metadata        `json:"metadata,omitempty"`
}
