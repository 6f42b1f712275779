package model

import "time"

// ModuleEntry is one versioned wasm module in the registry. Immutable once
// written; newer versions of the same name coexist with older ones.
type ModuleEntry struct {
	Name      string    `json:"name"`
	Version   uint64    `json:"version"`
	Bytes     []byte    `json:"-"`
	Checksum  uint64    `json:"checksum"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}
