package model

import (
	"encoding/json"
	"testing"
)

func TestNewStreamName(t *testing.T) {
	s, err := NewStreamName("Counter", "c1")
	if err != nil {
		t.Fatalf("NewStreamName returned unexpected error: %v", err)
	}
	if s != "Counter-c1" {
		t.Errorf("stream name = %q, want %q", s, "Counter-c1")
	}
	if got := s.Category(); got != "Counter" {
		t.Errorf("Category() = %q, want %q", got, "Counter")
	}
	if got := s.EntityID(); got != "c1" {
		t.Errorf("EntityID() = %q, want %q", got, "c1")
	}
}

func TestNewStreamName_IDWithDashes(t *testing.T) {
	// Only the first dash splits category from id.
	s, err := NewStreamName("Counter", "a-b-c")
	if err != nil {
		t.Fatalf("NewStreamName returned unexpected error: %v", err)
	}
	if got := s.EntityID(); got != "a-b-c" {
		t.Errorf("EntityID() = %q, want %q", got, "a-b-c")
	}
}

func TestNewStreamName_Invalid(t *testing.T) {
	if _, err := NewStreamName("", "c1"); err == nil {
		t.Error("empty category accepted")
	}
	if _, err := NewStreamName("Counter", ""); err == nil {
		t.Error("empty id accepted")
	}
	if _, err := NewStreamName("Counter-x", "c1"); err == nil {
		t.Error("category containing a dash accepted")
	}
	if _, err := NewStreamName("9lives", "c1"); err == nil {
		t.Error("category starting with a digit accepted")
	}
}

func TestCommandValidate(t *testing.T) {
	cmd := &Command{
		Category: "Counter",
		ID:       "c1",
		Name:     "Increment",
		Payload:  json.RawMessage(`{"amount":3}`),
	}
	if err := cmd.Validate(); err != nil {
		t.Fatalf("valid command rejected: %v", err)
	}

	bad := *cmd
	bad.Payload = json.RawMessage(`{"amount":`)
	if err := bad.Validate(); err == nil {
		t.Error("truncated JSON payload accepted")
	}

	bad = *cmd
	bad.ID = ""
	if err := bad.Validate(); err == nil {
		t.Error("empty id accepted")
	}

	bad = *cmd
	bad.Name = ""
	if err := bad.Validate(); err == nil {
		t.Error("empty command name accepted")
	}
}

func TestFilterMatches(t *testing.T) {
	ev := &Event{
		StreamName: "Counter-c1",
		EventType:  "Incremented",
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter matches all", nil, true},
		{"exact match", Filter{{Category: "Counter", EventType: "Incremented"}}, true},
		{"any category", Filter{{Category: AnyCategory, EventType: "Incremented"}}, true},
		{"wrong category", Filter{{Category: "Order", EventType: "Incremented"}}, false},
		{"wrong type", Filter{{Category: "Counter", EventType: "Decremented"}}, false},
		{"one of several", Filter{
			{Category: "Order", EventType: "Placed"},
			{Category: "Counter", EventType: "Incremented"},
		}, true},
	}
	for _, tt := range tests {
		if got := tt.filter.Matches(ev); got != tt.want {
			t.Errorf("%s: Matches() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCursorNextGlobalID(t *testing.T) {
	fresh := &Cursor{SubscriberName: "proj1"}
	if got := fresh.NextGlobalID(); got != 0 {
		t.Errorf("fresh cursor NextGlobalID() = %d, want 0", got)
	}

	acked := &Cursor{SubscriberName: "proj1", LastAckedGlobalID: 7, Acked: true}
	if got := acked.NextGlobalID(); got != 8 {
		t.Errorf("acked cursor NextGlobalID() = %d, want 8", got)
	}
}

func TestEventCausationID(t *testing.T) {
	ev := &Event{Metadata: Metadata{MetadataCausationID: "abc"}}
	if got := ev.CausationID(); got != "abc" {
		t.Errorf("CausationID() = %q, want %q", got, "abc")
	}
	if got := (&Event{}).CausationID(); got != "" {
		t.Errorf("CausationID() on bare event = %q, want empty", got)
	}
}
