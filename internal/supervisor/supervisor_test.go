package supervisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/emberline/keel/internal/aggregate"
	"github.com/emberline/keel/internal/messagestore/memory"
	"github.com/emberline/keel/internal/model"
	"github.com/emberline/keel/internal/wasm"
)

// echoInstance appends one event per command, tagging it with the entity id
// so tests can tell instances apart.
type echoInstance struct {
	stream  model.StreamName
	applied int
}

func (e *echoInstance) Apply(ctx context.Context, events []model.Event) error {
	e.applied += len(events)
	return nil
}

func (e *echoInstance) Handle(ctx context.Context, name string, payload, contextJSON []byte) (*wasm.HandleResult, error) {
	data, _ := json.Marshal(map[string]string{"entity": e.stream.EntityID(), "command": name})
	return &wasm.HandleResult{Events: []model.ProposedEvent{{EventType: "Echoed", Data: data}}}, nil
}

func (e *echoInstance) Close(ctx context.Context) error { return nil }

type trackingFactory struct {
	mu      sync.Mutex
	created map[model.StreamName]int
}

func newTrackingFactory() *trackingFactory {
	return &trackingFactory{created: make(map[model.StreamName]int)}
}

func (f *trackingFactory) instantiate(ctx context.Context, stream model.StreamName) (aggregate.Instance, error) {
	f.mu.Lock()
	f.created[stream]++
	f.mu.Unlock()
	return &echoInstance{stream: stream}, nil
}

func (f *trackingFactory) count(stream model.StreamName) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created[stream]
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func command(id string) *model.Command {
	return &model.Command{
		Category: "Counter",
		ID:       id,
		Name:     "Tick",
		Payload:  json.RawMessage(`{}`),
	}
}

func TestRouteCreatesActorOnDemand(t *testing.T) {
	store := memory.New()
	defer store.Close()
	factory := newTrackingFactory()
	s := New(store, factory.instantiate, 8, 5*time.Second, testLogger())
	defer s.Shutdown()

	res, err := s.Route(context.Background(), command("c1"))
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if res.Err != nil {
		t.Fatalf("command failed: %v", res.Err)
	}
	if len(res.Events) != 1 {
		t.Fatalf("got %d events", len(res.Events))
	}
	if s.Live() != 1 {
		t.Errorf("live actors = %d, want 1", s.Live())
	}
}

func TestRouteReusesActor(t *testing.T) {
	store := memory.New()
	defer store.Close()
	factory := newTrackingFactory()
	s := New(store, factory.instantiate, 8, 5*time.Second, testLogger())
	defer s.Shutdown()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := s.Route(ctx, command("c1")); err != nil {
			t.Fatalf("route %d: %v", i, err)
		}
	}

	if got := factory.count("Counter-c1"); got != 1 {
		t.Errorf("instantiated %d times, want 1", got)
	}
	events, _ := store.ReadStream(ctx, "Counter-c1", 0, 0)
	if len(events) != 3 {
		t.Errorf("stream has %d events, want 3", len(events))
	}
}

func TestConcurrentBirthSharesOneActor(t *testing.T) {
	store := memory.New()
	defer store.Close()
	factory := newTrackingFactory()
	s := New(store, factory.instantiate, 8, 5*time.Second, testLogger())
	defer s.Shutdown()

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := s.Route(context.Background(), command("fresh"))
			if err == nil {
				err = res.Err
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("route %d: %v", i, err)
		}
	}
	if got := factory.count("Counter-fresh"); got != 1 {
		t.Errorf("concurrent birth created %d instances, want 1", got)
	}

	// All 16 events landed with dense sequences.
	events, _ := store.ReadStream(context.Background(), "Counter-fresh", 0, 0)
	if len(events) != n {
		t.Fatalf("stream has %d events, want %d", len(events), n)
	}
	for i, ev := range events {
		if ev.Sequence != uint64(i) {
			t.Errorf("event %d has sequence %d", i, ev.Sequence)
		}
	}
}

func TestLRUEviction(t *testing.T) {
	store := memory.New()
	defer store.Close()
	factory := newTrackingFactory()
	s := New(store, factory.instantiate, 2, 5*time.Second, testLogger())
	defer s.Shutdown()

	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		if _, err := s.Route(ctx, command(id)); err != nil {
			t.Fatalf("route %s: %v", id, err)
		}
	}

	// Population is bounded; the oldest actor was evicted.
	if s.Live() != 2 {
		t.Errorf("live actors = %d, want 2", s.Live())
	}

	// Commands for the evicted entity still work: a successor is spawned
	// and rehydrates from the store.
	if _, err := s.Route(ctx, command("a")); err != nil {
		t.Fatalf("route to evicted entity: %v", err)
	}
	if got := factory.count("Counter-a"); got != 2 {
		t.Errorf("entity a instantiated %d times, want 2", got)
	}
	events, _ := store.ReadStream(ctx, "Counter-a", 0, 0)
	if len(events) != 2 {
		t.Errorf("stream a has %d events, want 2", len(events))
	}
}

func TestEvictionUnderLoadLosesNoCommands(t *testing.T) {
	store := memory.New()
	defer store.Close()
	factory := newTrackingFactory()
	// Capacity 1 forces an eviction on nearly every distinct entity.
	s := New(store, factory.instantiate, 1, 5*time.Second, testLogger())
	defer s.Shutdown()

	const perEntity = 5
	entities := []string{"a", "b", "c", "d"}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var failures []error
	for _, id := range entities {
		for i := 0; i < perEntity; i++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				res, err := s.Route(context.Background(), command(id))
				if err == nil {
					err = res.Err
				}
				if err != nil {
					mu.Lock()
					failures = append(failures, err)
					mu.Unlock()
				}
			}(id)
		}
	}
	wg.Wait()

	if len(failures) > 0 {
		t.Fatalf("%d commands failed, first: %v", len(failures), failures[0])
	}
	for _, id := range entities {
		stream := model.StreamName(fmt.Sprintf("Counter-%s", id))
		events, _ := store.ReadStream(context.Background(), stream, 0, 0)
		if len(events) != perEntity {
			t.Errorf("stream %s has %d events, want %d", stream, len(events), perEntity)
		}
		for i, ev := range events {
			if ev.Sequence != uint64(i) {
				t.Errorf("stream %s event %d has sequence %d", stream, i, ev.Sequence)
			}
		}
	}
}

func TestShutdownRejectsCommands(t *testing.T) {
	store := memory.New()
	defer store.Close()
	factory := newTrackingFactory()
	s := New(store, factory.instantiate, 4, 5*time.Second, testLogger())

	if _, err := s.Route(context.Background(), command("c1")); err != nil {
		t.Fatalf("route: %v", err)
	}

	s.Shutdown()

	if _, err := s.Route(context.Background(), command("c1")); !errors.Is(err, ErrShutdown) {
		t.Errorf("route after shutdown = %v, want ErrShutdown", err)
	}
	if s.Live() != 0 {
		t.Errorf("live actors after shutdown = %d", s.Live())
	}
}

func TestRouteRejectsInvalidCommand(t *testing.T) {
	store := memory.New()
	defer store.Close()
	s := New(store, newTrackingFactory().instantiate, 4, 5*time.Second, testLogger())
	defer s.Shutdown()

	_, err := s.Route(context.Background(), &model.Command{Category: "", ID: "x", Name: "Tick", Payload: json.RawMessage(`{}`)})
	var ie *model.InvalidInputError
	if !errors.As(err, &ie) {
		t.Errorf("expected invalid input, got %v", err)
	}
}
