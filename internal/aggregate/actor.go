// Package aggregate runs one actor per live entity. The actor serializes all
// commands for its entity, owns the wasm instance, and is the only writer of
// the entity's stream.
package aggregate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/emberline/keel/internal/messagestore"
	"github.com/emberline/keel/internal/model"
	"github.com/emberline/keel/internal/wasm"
)

// hydrateChunk is the read batch size during cold-start replay.
const hydrateChunk = 256

// causationWindow bounds the idempotency set of recently seen causation ids.
const causationWindow = 64

// Instance is the slice of the wasm instance surface the actor drives.
// Satisfied by *wasm.Instance; tests substitute fakes.
type Instance interface {
	Apply(ctx context.Context, events []model.Event) error
	Handle(ctx context.Context, name string, payload, contextJSON []byte) (*wasm.HandleResult, error)
	Close(ctx context.Context) error
}

// Instantiator creates a fresh instance for a stream. Used at actor birth
// and again whenever the actor rehydrates.
type Instantiator func(ctx context.Context, stream model.StreamName) (Instance, error)

// Result is the reply to one executed command.
type Result struct {
	Events       []model.Event
	Ignored      bool
	IgnoreReason string
	Err          error
}

// ErrDraining is returned by Submit once the actor has begun shutting down.
// The router re-queues the command on a successor actor.
var ErrDraining = errors.New("actor draining")

type request struct {
	cmd   *model.Command
	reply chan Result
}

// Actor is the single-writer command loop for one entity.
type Actor struct {
	stream      model.StreamName
	store       messagestore.Store
	newInstance Instantiator
	logger      *slog.Logger
	callTimeout time.Duration

	mailbox chan request
	done    chan struct{}

	mu       sync.Mutex
	draining bool

	// Loop-private state, touched only by run().
	instance Instance
	lastSeq  *uint64
	recent   *causationRing
	poisoned bool
}

// New creates the actor and starts its command loop. The loop hydrates
// lazily: the wasm instance is created when the first command arrives.
func New(stream model.StreamName, store messagestore.Store, newInstance Instantiator, callTimeout time.Duration, logger *slog.Logger) *Actor {
	a := &Actor{
		stream:      stream,
		store:       store,
		newInstance: newInstance,
		logger:      logger.With("stream", stream.String()),
		callTimeout: callTimeout,
		mailbox:     make(chan request, 16),
		done:        make(chan struct{}),
		recent:      newCausationRing(causationWindow),
		poisoned:    true, // forces hydration before the first command
	}
	go a.run()
	return a
}

// Stream returns the entity stream this actor owns.
func (a *Actor) Stream() model.StreamName { return a.stream }

// Submit enqueues a command. The returned channel receives exactly one
// Result. Sends happen under the mutex so Drain can close the mailbox
// without racing an in-flight send.
func (a *Actor) Submit(ctx context.Context, cmd *model.Command) (<-chan Result, error) {
	reply := make(chan Result, 1)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.draining {
		return nil, ErrDraining
	}
	select {
	case a.mailbox <- request{cmd: cmd, reply: reply}:
		return reply, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Drain stops accepting commands, lets the in-flight mailbox empty, and
// waits for the loop to exit. Events are persisted before each reply, so
// draining never loses state.
func (a *Actor) Drain() {
	a.mu.Lock()
	if a.draining {
		a.mu.Unlock()
		<-a.done
		return
	}
	a.draining = true
	a.mu.Unlock()

	close(a.mailbox)
	<-a.done
}

func (a *Actor) run() {
	defer close(a.done)
	for req := range a.mailbox {
		req.reply <- a.process(req.cmd)
		close(req.reply)
	}
	if a.instance != nil {
		a.closeInstance()
	}
}

func (a *Actor) process(cmd *model.Command) Result {
	ctx := context.Background()

	if a.poisoned {
		if err := a.rehydrate(ctx); err != nil {
			var nf *model.NotFoundError
			if errors.As(err, &nf) {
				// No module for this category; the caller can fix that.
				return Result{Err: nf}
			}
			a.logger.Error("hydration failed", "err", err)
			return Result{Err: model.ErrInternal}
		}
	}

	// Idempotent retry: a recently seen causation id replays the result it
	// produced the first time, without touching the module.
	if entry, ok := a.recent.lookup(cmd.CausationID); ok {
		if entry.count == 0 {
			// Ignored or zero-event outcome; nothing to re-read, and an
			// unbounded ReadStream here would leak later events.
			return Result{Ignored: entry.ignored, IgnoreReason: entry.ignoreReason}
		}
		events, err := a.store.ReadStream(ctx, a.stream, entry.fromSequence, entry.count)
		if err != nil {
			a.logger.Error("idempotent re-read failed", "err", err)
			return Result{Err: model.ErrInternal}
		}
		return Result{Events: events}
	}

	res := a.execute(ctx, cmd)
	if res.Err != nil && model.IsConflict(res.Err) {
		// Another writer touched the stream. That breaks the one-actor
		// invariant, so trust the store: rebuild from it and retry once.
		a.logger.Warn("append conflict, rehydrating", "err", res.Err)
		if err := a.rehydrate(ctx); err != nil {
			a.logger.Error("rehydration after conflict failed", "err", err)
			return Result{Err: model.ErrInternal}
		}
		res = a.execute(ctx, cmd)
		if res.Err != nil && model.IsConflict(res.Err) {
			a.logger.Error("append conflict recurred", "err", res.Err)
			a.poison()
			return Result{Err: model.ErrInternal}
		}
	}
	return res
}

// execute runs one command through the module and persists the outcome.
func (a *Actor) execute(ctx context.Context, cmd *model.Command) Result {
	expected := a.nextSequence()

	contextJSON, err := a.commandContext(cmd, expected)
	if err != nil {
		a.logger.Error("marshal command context", "err", err)
		return Result{Err: model.ErrInternal}
	}

	callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	handled, err := a.instance.Handle(callCtx, cmd.Name, cmd.Payload, contextJSON)
	cancel()
	if err != nil {
		var de *model.DomainError
		if errors.As(err, &de) {
			// The module rejected the command; the actor stays healthy.
			return Result{Err: de}
		}
		a.logger.Error("module handle failed", "command", cmd.Name, "err", err)
		a.poison()
		return Result{Err: model.ErrInternal}
	}

	if handled.Ignored {
		a.recent.recordIgnored(cmd.CausationID, expected, handled.IgnoreReason)
		return Result{Ignored: true, IgnoreReason: handled.IgnoreReason}
	}
	if len(handled.Events) == 0 {
		a.recent.record(cmd.CausationID, expected, 0)
		return Result{}
	}

	proposed := make([]model.ProposedEvent, len(handled.Events))
	for i, ev := range handled.Events {
		if cmd.CausationID != "" {
			ev.Metadata = model.Metadata{model.MetadataCausationID: cmd.CausationID}
		}
		proposed[i] = ev
	}

	persisted, err := a.store.Append(ctx, a.stream, expected, proposed)
	if err != nil {
		if model.IsConflict(err) {
			return Result{Err: err}
		}
		a.logger.Error("append failed", "err", err)
		a.poison()
		return Result{Err: model.ErrInternal}
	}

	// Recorded before apply: the events are already durable, so a retry of
	// this causation id must replay them instead of appending again.
	a.recent.record(cmd.CausationID, expected, len(persisted))

	applyCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	err = a.instance.Apply(applyCtx, persisted)
	cancel()
	if err != nil {
		// The events are durable but the in-memory state is behind; the
		// next command rebuilds from the store.
		a.logger.Error("module apply failed", "err", err)
		a.poison()
		return Result{Err: model.ErrInternal}
	}

	last := persisted[len(persisted)-1].Sequence
	a.lastSeq = &last

	return Result{Events: persisted}
}

// rehydrate rebuilds the wasm instance from the persisted stream, reading in
// bounded chunks.
func (a *Actor) rehydrate(ctx context.Context) error {
	if a.instance != nil {
		a.closeInstance()
	}
	a.lastSeq = nil

	instance, err := a.newInstance(ctx, a.stream)
	if err != nil {
		return fmt.Errorf("instantiate: %w", err)
	}

	from := uint64(0)
	for {
		chunk, err := a.store.ReadStream(ctx, a.stream, from, hydrateChunk)
		if err != nil {
			instance.Close(ctx) //nolint:errcheck
			return fmt.Errorf("read stream from %d: %w", from, err)
		}
		if len(chunk) == 0 {
			break
		}

		applyCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
		err = instance.Apply(applyCtx, chunk)
		cancel()
		if err != nil {
			instance.Close(ctx) //nolint:errcheck
			return fmt.Errorf("apply chunk at %d: %w", from, err)
		}

		last := chunk[len(chunk)-1].Sequence
		a.lastSeq = &last
		from = last + 1
		if len(chunk) < hydrateChunk {
			break
		}
	}

	a.instance = instance
	a.poisoned = false
	return nil
}

func (a *Actor) poison() {
	a.poisoned = true
}

func (a *Actor) closeInstance() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := a.instance.Close(ctx); err != nil {
		a.logger.Warn("closing instance", "err", err)
	}
	a.instance = nil
}

func (a *Actor) nextSequence() uint64 {
	if a.lastSeq == nil {
		return 0
	}
	return *a.lastSeq + 1
}

// commandContext builds the JSON context document passed to the module.
func (a *Actor) commandContext(cmd *model.Command, position uint64) ([]byte, error) {
	doc := struct {
		Position    uint64 `json:"position"`
		CausationID string `json:"causation_id,omitempty"`
		Time        int64  `json:"time"`
	}{
		Position:    position,
		CausationID: cmd.CausationID,
		Time:        time.Now().UnixMilli(),
	}
	return json.Marshal(doc)
}
