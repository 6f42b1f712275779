// Package wasm hosts aggregate behavior modules on the wazero runtime. Each
// entity gets its own module instantiation with isolated linear memory; the
// only host function linked into the sandbox is a structured log sink.
package wasm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// Exports every aggregate module must provide.
var requiredExports = []string{"memory", "alloc", "new", "apply", "handle"}

// hostModule is the import namespace offered to guests.
const hostModule = "keel"

// Host owns the wazero runtime and compiles aggregate modules.
type Host struct {
	runtime wazero.Runtime
	logger  *slog.Logger
}

// NewHost creates the wasm engine. Guest calls honor context deadlines: an
// expired context closes the running instance mid-call.
func NewHost(ctx context.Context, logger *slog.Logger) (*Host, error) {
	cfg := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	r := wazero.NewRuntimeWithConfig(ctx, cfg)

	h := &Host{runtime: r, logger: logger}

	_, err := r.NewHostModuleBuilder(hostModule).
		NewFunctionBuilder().
		WithFunc(h.sendEvent).
		Export("send_event").
		Instantiate(ctx)
	if err != nil {
		r.Close(ctx) //nolint:errcheck
		return nil, fmt.Errorf("instantiate host module: %w", err)
	}

	return h, nil
}

// Close tears down the runtime and every live instance.
func (h *Host) Close(ctx context.Context) error {
	return h.runtime.Close(ctx)
}

// Compile validates and compiles module bytes into a reusable Module.
func (h *Host) Compile(ctx context.Context, name string, bytes []byte) (*Module, error) {
	compiled, err := h.runtime.CompileModule(ctx, bytes)
	if err != nil {
		return nil, &LoadError{Name: name, Reason: err.Error()}
	}

	exports := compiled.ExportedFunctions()
	for _, export := range requiredExports {
		if export == "memory" {
			continue
		}
		if _, ok := exports[export]; !ok {
			compiled.Close(ctx) //nolint:errcheck
			return nil, &LoadError{Name: name, Reason: fmt.Sprintf("missing export %q", export)}
		}
	}
	if len(compiled.ExportedMemories()) == 0 {
		compiled.Close(ctx) //nolint:errcheck
		return nil, &LoadError{Name: name, Reason: "missing exported memory"}
	}

	return &Module{host: h, name: name, compiled: compiled}, nil
}

// Validate compiles the bytes and discards the result. Used by Publish to
// reject broken modules before they reach the registry.
func (h *Host) Validate(ctx context.Context, name string, bytes []byte) error {
	mod, err := h.Compile(ctx, name, bytes)
	if err != nil {
		return err
	}
	return mod.Close(ctx)
}

// traceRecord is the JSON document guests pass to send_event.
type traceRecord struct {
	Level   string            `json:"level"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

// entityKey carries the calling instance's stream name through the context
// into host functions. Instances are instantiated anonymously, so the module
// name cannot identify them.
type entityKey struct{}

func callerEntity(ctx context.Context) string {
	if s, ok := ctx.Value(entityKey{}).(string); ok {
		return s
	}
	return "unknown"
}

// sendEvent is the single host function exposed to guests. It funnels
// structured traces out of the sandbox into the runtime's logger.
func (h *Host) sendEvent(ctx context.Context, mod api.Module, ptr, length uint32) {
	entity := callerEntity(ctx)
	data, ok := mod.Memory().Read(ptr, length)
	if !ok {
		h.logger.Warn("module trace out of range", "entity", entity, "ptr", ptr, "len", length)
		return
	}

	var rec traceRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		// Not structured; log the raw text rather than dropping it.
		h.logger.Info("module trace", "entity", entity, "message", string(data))
		return
	}

	attrs := make([]any, 0, 2+2*len(rec.Fields))
	attrs = append(attrs, "entity", entity)
	for k, v := range rec.Fields {
		attrs = append(attrs, k, v)
	}

	switch rec.Level {
	case "debug":
		h.logger.Debug(rec.Message, attrs...)
	case "warn":
		h.logger.Warn(rec.Message, attrs...)
	case "error":
		h.logger.Error(rec.Message, attrs...)
	default:
		h.logger.Info(rec.Message, attrs...)
	}
}
