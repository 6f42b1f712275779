package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/emberline/keel/internal/messagestore/memory"
	"github.com/emberline/keel/internal/model"
)

// startTestNATS starts an embedded NATS server and returns its client URL.
func startTestNATS(t *testing.T) string {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	srv, err := natsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("starting embedded NATS: %v", err)
	}
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv.ClientURL()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNoopPublisher(t *testing.T) {
	var _ Publisher = (*NoopPublisher)(nil)
	pub := &NoopPublisher{}
	if err := pub.Publish(context.Background(), &model.Event{}); err != nil {
		t.Fatalf("noop publish: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("noop close: %v", err)
	}
}

func TestNATSPublisher_ImplementsPublisher(t *testing.T) {
	var _ Publisher = (*NATSPublisher)(nil)
}

func TestPumpRelaysAppendedEvents(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	// Subscribe to capture relayed messages.
	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting subscriber: %v", err)
	}
	defer nc.Close()

	ch := make(chan *nats.Msg, 8)
	sub, err := nc.ChanSubscribe("keel.events.Counter", ch)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer sub.Unsubscribe() //nolint:errcheck
	nc.Flush()

	store := memory.New()
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pump := StartPump(ctx, store, pub, testLogger())

	persisted, err := store.Append(ctx, "Counter-c1", 0, []model.ProposedEvent{{
		EventType: "Incremented",
		Data:      json.RawMessage(`{"amount":3}`),
	}})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	select {
	case msg := <-ch:
		var ev model.Event
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			t.Fatalf("unmarshal relayed event: %v", err)
		}
		if ev.GlobalID != persisted[0].GlobalID {
			t.Errorf("relayed global id = %d, want %d", ev.GlobalID, persisted[0].GlobalID)
		}
		if ev.EventType != "Incremented" {
			t.Errorf("relayed type = %q", ev.EventType)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for relayed event")
	}

	cancel()
	pump.Wait()
}

func TestPumpStopsWhenStoreCloses(t *testing.T) {
	store := memory.New()
	pump := StartPump(context.Background(), store, &NoopPublisher{}, testLogger())
	store.Close()

	done := make(chan struct{})
	go func() {
		pump.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pump did not stop after store close")
	}
}
