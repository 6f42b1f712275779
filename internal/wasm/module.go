package wasm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/emberline/keel/internal/model"
)

// Module is a compiled aggregate module, reusable across instances.
type Module struct {
	host     *Host
	name     string
	compiled wazero.CompiledModule
}

// Name returns the category the module implements.
func (m *Module) Name() string { return m.name }

// Close releases the compiled code.
func (m *Module) Close(ctx context.Context) error {
	return m.compiled.Close(ctx)
}

// Instantiate creates an isolated instance bound to one entity and calls the
// guest constructor with the entity id.
func (m *Module) Instantiate(ctx context.Context, stream model.StreamName) (*Instance, error) {
	// Anonymous instantiation: instances of the same module coexist, each
	// with its own linear memory.
	mod, err := m.host.runtime.InstantiateModule(ctx, m.compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return nil, &LoadError{Name: m.name, Reason: err.Error()}
	}

	inst := &Instance{
		module: m,
		stream: stream,
		mod:    mod,
		alloc:  mod.ExportedFunction("alloc"),
		newFn:  mod.ExportedFunction("new"),
		apply:  mod.ExportedFunction("apply"),
		handle: mod.ExportedFunction("handle"),
	}

	if err := inst.construct(ctx); err != nil {
		mod.Close(ctx) //nolint:errcheck
		return nil, err
	}
	return inst, nil
}

// Instance is one entity's sandboxed state machine. Calls are not
// goroutine-safe; the owning actor serializes them.
type Instance struct {
	module *Module
	stream model.StreamName
	mod    api.Module
	alloc  api.Function
	newFn  api.Function
	apply  api.Function
	handle api.Function
}

// Stream returns the stream this instance is bound to.
func (i *Instance) Stream() model.StreamName { return i.stream }

// Close drops the instance and its memory.
func (i *Instance) Close(ctx context.Context) error {
	return i.mod.Close(ctx)
}

func (i *Instance) construct(ctx context.Context) error {
	id := i.stream.EntityID()
	env, err := i.call(ctx, i.newFn, []byte(id))
	if err != nil {
		return err
	}
	if env.Err != nil {
		return fmt.Errorf("module %s: new(%q): %w", i.module.name, id, env.Err)
	}
	return nil
}

// Apply feeds persisted events into the guest state machine. Events must be
// passed in ascending sequence order, continuing from the last applied
// event.
func (i *Instance) Apply(ctx context.Context, events []model.Event) error {
	if len(events) == 0 {
		return nil
	}

	wire := make([]guestEvent, len(events))
	for idx, ev := range events {
		wire[idx] = guestEvent{EventType: ev.EventType, Payload: string(ev.Data)}
	}
	req, err := json.Marshal(wire)
	if err != nil {
		return fmt.Errorf("marshal apply request: %w", err)
	}

	env, err := i.call(ctx, i.apply, req)
	if err != nil {
		return err
	}
	if env.Err != nil {
		return fmt.Errorf("module %s: apply: %w", i.module.name, env.Err)
	}
	return nil
}

// HandleResult is the outcome of a handle call: either proposed events, or
// an explicit "ignored" with an optional reason.
type HandleResult struct {
	Events       []model.ProposedEvent
	Ignored      bool
	IgnoreReason string
}

// Handle asks the guest to process a command. contextJSON is the runtime
// context document (position, causation id, time). A *model.DomainError is
// returned for guest-reported invariant violations; any other error is a
// system fault.
func (i *Instance) Handle(ctx context.Context, name string, payload []byte, contextJSON []byte) (*HandleResult, error) {
	req, err := json.Marshal(guestCommand{
		Name:    name,
		Payload: string(payload),
		Context: string(contextJSON),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal handle request: %w", err)
	}

	env, err := i.call(ctx, i.handle, req)
	if err != nil {
		return nil, err
	}

	if env.Err != nil {
		if env.Err.IsDomain() {
			return nil, &model.DomainError{Code: env.Err.Code, Message: env.Err.Message}
		}
		return nil, fmt.Errorf("module %s: handle %q: %w", i.module.name, name, env.Err)
	}

	if ok, reason := env.ignored(); ok {
		return &HandleResult{Ignored: true, IgnoreReason: reason}, nil
	}

	var wire []guestEvent
	if err := json.Unmarshal(env.OK, &wire); err != nil {
		return nil, fmt.Errorf("module %s: handle %q returned malformed events: %w", i.module.name, name, err)
	}

	events := make([]model.ProposedEvent, len(wire))
	for idx, w := range wire {
		if !json.Valid([]byte(w.Payload)) {
			return nil, fmt.Errorf("module %s: event %q payload is not valid JSON", i.module.name, w.EventType)
		}
		events[idx] = model.ProposedEvent{
			EventType: w.EventType,
			Data:      json.RawMessage(w.Payload),
		}
	}
	return &HandleResult{Events: events}, nil
}

// call writes the request into guest memory, invokes the export, and decodes
// the result envelope.
func (i *Instance) call(ctx context.Context, fn api.Function, req []byte) (*resultEnvelope, error) {
	ctx = context.WithValue(ctx, entityKey{}, string(i.stream))

	ptr, err := writeToGuest(ctx, i.mod, i.alloc, req)
	if err != nil {
		return nil, err
	}

	res, err := fn.Call(ctx, uint64(ptr), uint64(len(req)))
	if err != nil {
		// Traps and deadline closures surface here.
		return nil, fmt.Errorf("module %s: guest call: %w", i.module.name, err)
	}
	if len(res) != 1 {
		return nil, fmt.Errorf("module %s: guest call returned %d values", i.module.name, len(res))
	}

	out, err := readPacked(i.mod, res[0])
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", i.module.name, err)
	}
	return decodeEnvelope(out)
}
