package aggregate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/emberline/keel/internal/messagestore/memory"
	"github.com/emberline/keel/internal/model"
	"github.com/emberline/keel/internal/wasm"
)

// fakeInstance is a counter aggregate implemented directly in Go, mirroring
// the behavior of the counter wasm fixture.
type fakeInstance struct {
	count      int
	applied    int
	failHandle error
	closed     bool
}

type counterPayload struct {
	Amount int `json:"amount"`
	Count  int `json:"count"`
}

func (f *fakeInstance) Apply(ctx context.Context, events []model.Event) error {
	for _, ev := range events {
		var p counterPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return err
		}
		f.count = p.Count
		f.applied++
	}
	return nil
}

func (f *fakeInstance) Handle(ctx context.Context, name string, payload, contextJSON []byte) (*wasm.HandleResult, error) {
	if f.failHandle != nil {
		return nil, f.failHandle
	}

	var p counterPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, err
	}

	switch name {
	case "Increment":
		data, _ := json.Marshal(counterPayload{Amount: p.Amount, Count: f.count + p.Amount})
		return &wasm.HandleResult{Events: []model.ProposedEvent{{
			EventType: "Incremented",
			Data:      data,
		}}}, nil
	case "Decrement":
		if f.count-p.Amount < 0 {
			return nil, &model.DomainError{Code: "NEGATIVE_COUNT", Message: "count would go negative"}
		}
		data, _ := json.Marshal(counterPayload{Amount: p.Amount, Count: f.count - p.Amount})
		return &wasm.HandleResult{Events: []model.ProposedEvent{{
			EventType: "Decremented",
			Data:      data,
		}}}, nil
	case "Noop":
		return &wasm.HandleResult{Ignored: true, IgnoreReason: "nothing to do"}, nil
	default:
		return nil, fmt.Errorf("unknown command %q", name)
	}
}

func (f *fakeInstance) Close(ctx context.Context) error {
	f.closed = true
	return nil
}

type fakeFactory struct {
	instances []*fakeInstance
	fail      error
}

func (ff *fakeFactory) instantiate(ctx context.Context, stream model.StreamName) (Instance, error) {
	if ff.fail != nil {
		return nil, ff.fail
	}
	inst := &fakeInstance{}
	ff.instances = append(ff.instances, inst)
	return inst, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func startActor(t *testing.T) (*Actor, *memory.MemoryStore, *fakeFactory) {
	t.Helper()
	store := memory.New()
	factory := &fakeFactory{}
	a := New("Counter-c1", store, factory.instantiate, 5*time.Second, testLogger())
	t.Cleanup(func() {
		a.Drain()
		store.Close()
	})
	return a, store, factory
}

func execute(t *testing.T, a *Actor, cmd *model.Command) Result {
	t.Helper()
	reply, err := a.Submit(context.Background(), cmd)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	select {
	case res := <-reply:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("no reply from actor")
		return Result{}
	}
}

func increment(amount int) *model.Command {
	payload, _ := json.Marshal(counterPayload{Amount: amount})
	return &model.Command{Category: "Counter", ID: "c1", Name: "Increment", Payload: payload}
}

func TestExecuteAppendsEvents(t *testing.T) {
	a, store, _ := startActor(t)

	res := execute(t, a, increment(3))
	if res.Err != nil {
		t.Fatalf("execute: %v", res.Err)
	}
	if len(res.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(res.Events))
	}
	if res.Events[0].Sequence != 0 {
		t.Errorf("first event sequence = %d", res.Events[0].Sequence)
	}

	res = execute(t, a, increment(2))
	if res.Err != nil {
		t.Fatalf("execute: %v", res.Err)
	}
	if res.Events[0].Sequence != 1 {
		t.Errorf("second event sequence = %d", res.Events[0].Sequence)
	}

	var p counterPayload
	if err := json.Unmarshal(res.Events[0].Data, &p); err != nil {
		t.Fatal(err)
	}
	if p.Count != 5 {
		t.Errorf("count = %d, want 5", p.Count)
	}

	length, _ := store.StreamLength(context.Background(), "Counter-c1")
	if length != 2 {
		t.Errorf("stream length = %d, want 2", length)
	}
}

func TestHydrationReplaysStream(t *testing.T) {
	store := memory.New()
	defer store.Close()
	ctx := context.Background()

	// Pre-existing history: count reached 5.
	data1, _ := json.Marshal(counterPayload{Amount: 3, Count: 3})
	data2, _ := json.Marshal(counterPayload{Amount: 2, Count: 5})
	_, err := store.Append(ctx, "Counter-c1", 0, []model.ProposedEvent{
		{EventType: "Incremented", Data: data1},
		{EventType: "Incremented", Data: data2},
	})
	if err != nil {
		t.Fatal(err)
	}

	factory := &fakeFactory{}
	a := New("Counter-c1", store, factory.instantiate, 5*time.Second, testLogger())
	defer a.Drain()

	res := execute(t, a, increment(1))
	if res.Err != nil {
		t.Fatalf("execute: %v", res.Err)
	}
	if res.Events[0].Sequence != 2 {
		t.Errorf("sequence after hydration = %d, want 2", res.Events[0].Sequence)
	}
	var p counterPayload
	json.Unmarshal(res.Events[0].Data, &p) //nolint:errcheck
	if p.Count != 6 {
		t.Errorf("count after hydration = %d, want 6", p.Count)
	}
	if factory.instances[0].applied != 3 {
		t.Errorf("instance applied %d events, want 3", factory.instances[0].applied)
	}
}

func TestDomainErrorDoesNotPoison(t *testing.T) {
	a, store, factory := startActor(t)

	payload, _ := json.Marshal(counterPayload{Amount: 1})
	res := execute(t, a, &model.Command{Category: "Counter", ID: "c1", Name: "Decrement", Payload: payload})

	var de *model.DomainError
	if !errors.As(res.Err, &de) {
		t.Fatalf("expected domain error, got %v", res.Err)
	}
	if de.Code != "NEGATIVE_COUNT" {
		t.Errorf("code = %q", de.Code)
	}

	length, _ := store.StreamLength(context.Background(), "Counter-c1")
	if length != 0 {
		t.Errorf("stream length after rejected command = %d, want 0", length)
	}

	// The actor keeps its instance: the next command works without rehydration.
	res = execute(t, a, increment(2))
	if res.Err != nil {
		t.Fatalf("execute after domain error: %v", res.Err)
	}
	if len(factory.instances) != 1 {
		t.Errorf("actor rehydrated after domain error: %d instances", len(factory.instances))
	}
}

func TestSystemErrorPoisons(t *testing.T) {
	a, _, factory := startActor(t)

	// Hydrate with a healthy instance first.
	if res := execute(t, a, increment(1)); res.Err != nil {
		t.Fatalf("execute: %v", res.Err)
	}

	factory.instances[0].failHandle = errors.New("guest trapped")
	res := execute(t, a, increment(1))
	if !errors.Is(res.Err, model.ErrInternal) {
		t.Fatalf("expected internal error, got %v", res.Err)
	}

	// Next command rehydrates on a fresh instance and succeeds.
	res = execute(t, a, increment(2))
	if res.Err != nil {
		t.Fatalf("execute after poisoning: %v", res.Err)
	}
	if len(factory.instances) != 2 {
		t.Fatalf("expected rehydration, got %d instances", len(factory.instances))
	}
	var p counterPayload
	json.Unmarshal(res.Events[0].Data, &p) //nolint:errcheck
	if p.Count != 3 {
		t.Errorf("count = %d, want 3", p.Count)
	}
}

func TestConflictDefenseRehydratesAndRetries(t *testing.T) {
	a, store, factory := startActor(t)
	ctx := context.Background()

	if res := execute(t, a, increment(1)); res.Err != nil {
		t.Fatalf("execute: %v", res.Err)
	}

	// Out-of-band append behind the actor's back.
	data, _ := json.Marshal(counterPayload{Amount: 4, Count: 5})
	if _, err := store.Append(ctx, "Counter-c1", 1, []model.ProposedEvent{
		{EventType: "Incremented", Data: data},
	}); err != nil {
		t.Fatal(err)
	}

	res := execute(t, a, increment(2))
	if res.Err != nil {
		t.Fatalf("execute after out-of-band append: %v", res.Err)
	}
	if res.Events[0].Sequence != 2 {
		t.Errorf("sequence = %d, want 2", res.Events[0].Sequence)
	}
	var p counterPayload
	json.Unmarshal(res.Events[0].Data, &p) //nolint:errcheck
	if p.Count != 7 {
		t.Errorf("count = %d, want 7 (5 rehydrated + 2)", p.Count)
	}
	if len(factory.instances) != 2 {
		t.Errorf("expected one rehydration, got %d instances", len(factory.instances))
	}
}

func TestIdempotentRetryReplaysEvents(t *testing.T) {
	a, store, _ := startActor(t)

	cmd := increment(3)
	cmd.CausationID = "abc"
	first := execute(t, a, cmd)
	if first.Err != nil {
		t.Fatalf("execute: %v", first.Err)
	}

	retry := increment(3)
	retry.CausationID = "abc"
	second := execute(t, a, retry)
	if second.Err != nil {
		t.Fatalf("retry: %v", second.Err)
	}

	if len(second.Events) != len(first.Events) {
		t.Fatalf("retry returned %d events, want %d", len(second.Events), len(first.Events))
	}
	if second.Events[0].GlobalID != first.Events[0].GlobalID {
		t.Error("retry returned different events")
	}

	// Appended at most once.
	length, _ := store.StreamLength(context.Background(), "Counter-c1")
	if length != 1 {
		t.Errorf("stream length = %d, want 1", length)
	}
}

func TestIgnoredCommand(t *testing.T) {
	a, store, _ := startActor(t)

	res := execute(t, a, &model.Command{
		Category: "Counter", ID: "c1", Name: "Noop", Payload: json.RawMessage(`{}`),
	})
	if res.Err != nil {
		t.Fatalf("execute: %v", res.Err)
	}
	if !res.Ignored || res.IgnoreReason != "nothing to do" {
		t.Errorf("result = %+v, want ignored", res)
	}
	length, _ := store.StreamLength(context.Background(), "Counter-c1")
	if length != 0 {
		t.Errorf("ignored command appended %d events", length)
	}
}

func TestIgnoredCommandRetryReplaysIgnoredResult(t *testing.T) {
	a, store, _ := startActor(t)

	noop := &model.Command{
		Category: "Counter", ID: "c1", Name: "Noop",
		Payload: json.RawMessage(`{}`), CausationID: "noop-1",
	}
	first := execute(t, a, noop)
	if first.Err != nil {
		t.Fatalf("execute: %v", first.Err)
	}
	if !first.Ignored {
		t.Fatal("first result not ignored")
	}

	// Later events must not leak into the replayed result.
	if res := execute(t, a, increment(2)); res.Err != nil {
		t.Fatalf("execute: %v", res.Err)
	}

	retry := execute(t, a, noop)
	if retry.Err != nil {
		t.Fatalf("retry: %v", retry.Err)
	}
	if !retry.Ignored || retry.IgnoreReason != "nothing to do" {
		t.Errorf("retry result = %+v, want ignored with original reason", retry)
	}
	if len(retry.Events) != 0 {
		t.Errorf("retry returned %d events, want 0", len(retry.Events))
	}

	// The module ran once; the retry appended nothing.
	length, _ := store.StreamLength(context.Background(), "Counter-c1")
	if length != 1 {
		t.Errorf("stream length = %d, want 1", length)
	}
}

func TestCausationMetadataOnEvents(t *testing.T) {
	a, _, _ := startActor(t)

	cmd := increment(1)
	cmd.CausationID = "cause-1"
	res := execute(t, a, cmd)
	if res.Err != nil {
		t.Fatalf("execute: %v", res.Err)
	}
	if got := res.Events[0].CausationID(); got != "cause-1" {
		t.Errorf("event causation id = %q, want %q", got, "cause-1")
	}
}

func TestDrainRejectsNewCommands(t *testing.T) {
	store := memory.New()
	defer store.Close()
	factory := &fakeFactory{}
	a := New("Counter-c1", store, factory.instantiate, 5*time.Second, testLogger())

	if res := execute(t, a, increment(1)); res.Err != nil {
		t.Fatalf("execute: %v", res.Err)
	}

	a.Drain()

	if _, err := a.Submit(context.Background(), increment(1)); !errors.Is(err, ErrDraining) {
		t.Errorf("submit after drain = %v, want ErrDraining", err)
	}
	if !factory.instances[0].closed {
		t.Error("instance not closed on drain")
	}
}

func TestInstantiationFailureSurfacesInternal(t *testing.T) {
	store := memory.New()
	defer store.Close()
	factory := &fakeFactory{fail: errors.New("no such module")}
	a := New("Counter-c1", store, factory.instantiate, 5*time.Second, testLogger())
	defer a.Drain()

	res := execute(t, a, increment(1))
	if !errors.Is(res.Err, model.ErrInternal) {
		t.Errorf("expected internal error, got %v", res.Err)
	}
}

func TestCausationRing(t *testing.T) {
	r := newCausationRing(2)
	r.record("a", 0, 1)
	r.record("b", 1, 2)
	if _, ok := r.lookup("a"); !ok {
		t.Error("entry a missing")
	}
	r.record("c", 3, 1) // evicts a
	if _, ok := r.lookup("a"); ok {
		t.Error("entry a survived past capacity")
	}
	if e, ok := r.lookup("c"); !ok || e.fromSequence != 3 {
		t.Errorf("entry c = %+v, %v", e, ok)
	}
	if _, ok := r.lookup(""); ok {
		t.Error("empty causation id matched")
	}

	r.recordIgnored("d", 4, "stale")
	if e, ok := r.lookup("d"); !ok || !e.ignored || e.ignoreReason != "stale" || e.count != 0 {
		t.Errorf("ignored entry d = %+v, %v", e, ok)
	}
}
