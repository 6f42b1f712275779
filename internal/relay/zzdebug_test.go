package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/emberline/keel/internal/messagestore/memory"
	"github.com/emberline/keel/internal/model"
)

func TestDebugPump(t *testing.T) {
	url := startTestNATS(t)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

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
	defer sub.Unsubscribe()
	nc.Flush()

	store := memory.New()
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pump := StartPump(ctx, store, pub, logger)
	_ = pump
	time.Sleep(200 * time.Millisecond)

	persisted, err := store.Append(ctx, "Counter-c1", 0, []model.ProposedEvent{{
		EventType: "Incremented",
		Data:      json.RawMessage(`{"amount":3}`),
	}})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	t.Logf("persisted global id = %d", persisted[0].GlobalID)

	select {
	case msg := <-ch:
		t.Logf("got msg: %s", msg.Data)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout")
	}
}
