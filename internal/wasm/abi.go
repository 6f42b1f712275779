package wasm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tetratelabs/wazero/api"
)

// The guest ABI is JSON over linear memory. The host writes request buffers
// into guest memory via the exported alloc, calls the export, and receives a
// packed (ptr << 32 | len) pointing at a guest-owned JSON result envelope.
// The envelope is copied out before the next guest call.

// guestEvent is the wire form of an event crossing the guest boundary in
// either direction.
type guestEvent struct {
	EventType string `json:"event_type"`
	Payload   string `json:"payload"`
}

// guestCommand is the request body for the handle export.
type guestCommand struct {
	Name    string `json:"name"`
	Payload string `json:"payload"`
	Context string `json:"context"`
}

// resultEnvelope is the JSON document every guest call returns.
type resultEnvelope struct {
	OK      json.RawMessage `json:"ok"`
	Ignored json.RawMessage `json:"ignored"`
	Err     *GuestError     `json:"err"`
}

// writeToGuest copies data into guest memory using the module's allocator
// and returns the guest pointer.
func writeToGuest(ctx context.Context, mod api.Module, alloc api.Function, data []byte) (uint32, error) {
	res, err := alloc.Call(ctx, uint64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("guest alloc: %w", err)
	}
	ptr := uint32(res[0])
	if !mod.Memory().Write(ptr, data) {
		return 0, fmt.Errorf("guest alloc returned out-of-range pointer %d (len %d)", ptr, len(data))
	}
	return ptr, nil
}

// readPacked copies the buffer referenced by a packed (ptr << 32 | len)
// result out of guest memory.
func readPacked(mod api.Module, packed uint64) ([]byte, error) {
	ptr := uint32(packed >> 32)
	length := uint32(packed)
	data, ok := mod.Memory().Read(ptr, length)
	if !ok {
		return nil, fmt.Errorf("guest result out of range: ptr=%d len=%d", ptr, length)
	}
	out := make([]byte, length)
	copy(out, data)
	return out, nil
}

// decodeEnvelope parses a guest result buffer.
func decodeEnvelope(data []byte) (*resultEnvelope, error) {
	var env resultEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed guest result %q: %w", truncate(data, 120), err)
	}
	return &env, nil
}

// ignored reports whether the envelope is an ignored-command result, and the
// optional reason.
func (env *resultEnvelope) ignored() (bool, string) {
	if len(env.Ignored) == 0 {
		return false, ""
	}
	var reason *string
	if err := json.Unmarshal(env.Ignored, &reason); err != nil || reason == nil {
		return true, ""
	}
	return true, *reason
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
