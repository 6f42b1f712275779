package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/emberline/keel/internal/model"
)

func proposed(eventType string, data string) model.ProposedEvent {
	return model.ProposedEvent{EventType: eventType, Data: json.RawMessage(data)}
}

func TestAppendAndReadStream(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	first, err := s.Append(ctx, "Counter-c1", 0, []model.ProposedEvent{
		proposed("Incremented", `{"amount":3}`),
		proposed("Incremented", `{"amount":2}`),
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("appended %d events, want 2", len(first))
	}
	if first[0].Sequence != 0 || first[1].Sequence != 1 {
		t.Errorf("sequences = %d,%d, want 0,1", first[0].Sequence, first[1].Sequence)
	}
	if first[1].GlobalID <= first[0].GlobalID {
		t.Errorf("global ids not increasing: %d then %d", first[0].GlobalID, first[1].GlobalID)
	}

	events, err := s.ReadStream(ctx, "Counter-c1", 0, 0)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("read %d events, want 2", len(events))
	}
	for i, ev := range events {
		if ev.Sequence != uint64(i) {
			t.Errorf("event %d has sequence %d", i, ev.Sequence)
		}
	}

	length, err := s.StreamLength(ctx, "Counter-c1")
	if err != nil {
		t.Fatalf("stream length: %v", err)
	}
	if length != 2 {
		t.Errorf("stream length = %d, want 2", length)
	}
}

func TestAppendConflict(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	if _, err := s.Append(ctx, "Counter-c1", 0, []model.ProposedEvent{proposed("Incremented", `{}`)}); err != nil {
		t.Fatalf("append: %v", err)
	}

	_, err := s.Append(ctx, "Counter-c1", 0, []model.ProposedEvent{proposed("Incremented", `{}`)})
	if !model.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	var ce *model.ConflictError
	if !errors.As(err, &ce) || ce.CurrentSequence != 1 {
		t.Errorf("conflict error carries current sequence %d, want 1", ce.CurrentSequence)
	}

	// The failed append must not have written anything.
	length, _ := s.StreamLength(ctx, "Counter-c1")
	if length != 1 {
		t.Errorf("stream length after conflict = %d, want 1", length)
	}
}

func TestReadCategory(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	s.Append(ctx, "Counter-c1", 0, []model.ProposedEvent{proposed("Incremented", `{}`)}) //nolint:errcheck
	s.Append(ctx, "Order-o1", 0, []model.ProposedEvent{proposed("Placed", `{}`)})        //nolint:errcheck
	s.Append(ctx, "Counter-c2", 0, []model.ProposedEvent{proposed("Incremented", `{}`)}) //nolint:errcheck

	events, err := s.ReadCategory(ctx, "Counter", 0, 0)
	if err != nil {
		t.Fatalf("read category: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("read %d events, want 2", len(events))
	}
	for _, ev := range events {
		if !ev.StreamName.InCategory("Counter") {
			t.Errorf("event from stream %s leaked into Counter category read", ev.StreamName)
		}
	}
	if events[0].GlobalID >= events[1].GlobalID {
		t.Errorf("category read not in global id order")
	}
}

func TestTapReceivesAppendedEvents(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	tap, cancel := s.Tap()
	defer cancel()

	persisted, err := s.Append(ctx, "Counter-c1", 0, []model.ProposedEvent{proposed("Incremented", `{}`)})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	got := <-tap
	if got.GlobalID != persisted[0].GlobalID {
		t.Errorf("tap delivered global id %d, want %d", got.GlobalID, persisted[0].GlobalID)
	}
}

func TestCursors(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	c, err := s.LoadCursor(ctx, "proj1")
	if err != nil {
		t.Fatalf("load cursor: %v", err)
	}
	if c.Acked {
		t.Error("fresh cursor reports acked")
	}
	if c.NextGlobalID() != 0 {
		t.Errorf("fresh cursor NextGlobalID = %d, want 0", c.NextGlobalID())
	}

	if err := s.SaveCursor(ctx, "proj1", 5); err != nil {
		t.Fatalf("save cursor: %v", err)
	}
	// Regressing saves are ignored.
	if err := s.SaveCursor(ctx, "proj1", 3); err != nil {
		t.Fatalf("save cursor: %v", err)
	}

	c, _ = s.LoadCursor(ctx, "proj1")
	if !c.Acked || c.LastAckedGlobalID != 5 {
		t.Errorf("cursor = %+v, want acked at 5", c)
	}

	if err := s.DeleteCursor(ctx, "proj1"); err != nil {
		t.Fatalf("delete cursor: %v", err)
	}
	c, _ = s.LoadCursor(ctx, "proj1")
	if c.Acked {
		t.Error("deleted cursor still acked")
	}
}

// TestStoreProperties checks the quantified invariants over random append
// workloads: dense per-stream sequences, globally unique and increasing
// global ids, and stream order agreeing with global order.
func TestStoreProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	genBatches := gen.SliceOf(gopter.CombineGens(
		gen.IntRange(0, 3), // stream selector
		gen.IntRange(1, 4), // batch size
	).Map(func(vals []interface{}) [2]int {
		return [2]int{vals[0].(int), vals[1].(int)}
	}))

	properties.Property("append workload preserves invariants", prop.ForAll(
		func(batches [][2]int) bool {
			s := New()
			defer s.Close()
			ctx := context.Background()

			lengths := make(map[model.StreamName]uint64)
			for _, b := range batches {
				stream := model.StreamName(fmt.Sprintf("Counter-s%d", b[0]))
				batch := make([]model.ProposedEvent, b[1])
				for i := range batch {
					batch[i] = proposed("Ticked", `{}`)
				}
				if _, err := s.Append(ctx, stream, lengths[stream], batch); err != nil {
					return false
				}
				lengths[stream] += uint64(b[1])
			}

			all, err := s.ReadAll(ctx, 0, 0)
			if err != nil {
				return false
			}

			seenGlobal := make(map[uint64]bool)
			lastGlobal := uint64(0)
			nextSeq := make(map[model.StreamName]uint64)
			for _, ev := range all {
				if seenGlobal[ev.GlobalID] {
					return false // duplicate global id
				}
				seenGlobal[ev.GlobalID] = true
				if ev.GlobalID <= lastGlobal {
					return false // ReadAll not ascending
				}
				lastGlobal = ev.GlobalID
				if ev.Sequence != nextSeq[ev.StreamName] {
					return false // gap or reorder within stream
				}
				nextSeq[ev.StreamName]++
			}
			for stream, want := range lengths {
				if nextSeq[stream] != want {
					return false
				}
			}
			return true
		},
		genBatches,
	))

	properties.TestingRun(t)
}
