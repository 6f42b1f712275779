// Package archive exports the event log as JSONL for backup and offline
// analysis, on a timer or on demand.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/emberline/keel/internal/messagestore"
	"github.com/emberline/keel/internal/model"
)

// exportBatch is the read size while walking the log.
const exportBatch = 512

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version    string    `json:"version"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	EventCount int       `json:"event_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ExportJSONL writes the whole event log to w in global id order: a header
// record followed by one event record per line.
func ExportJSONL(ctx context.Context, store messagestore.Store, w io.Writer) error {
	var events []model.Event
	from := uint64(0)
	for {
		batch, err := store.ReadAll(ctx, from, exportBatch)
		if err != nil {
			return fmt.Errorf("read events from %d: %w", from, err)
		}
		if len(batch) == 0 {
			break
		}
		events = append(events, batch...)
		from = batch[len(batch)-1].GlobalID + 1
		if len(batch) < exportBatch {
			break
		}
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(header{
		Version:    "1",
		Type:       "header",
		Timestamp:  time.Now().UTC(),
		EventCount: len(events),
	}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range events {
		if err := enc.Encode(record{Type: "event", Data: &events[i]}); err != nil {
			return fmt.Errorf("write event %d: %w", events[i].GlobalID, err)
		}
	}
	return nil
}
