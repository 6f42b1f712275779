package aggregate

// causationRing remembers the most recent causation ids an actor has
// processed, with the stream range each one produced. Bounded; the oldest
// entry is overwritten when full.
type causationRing struct {
	entries []causationEntry
	next    int
}

type causationEntry struct {
	causationID  string
	fromSequence uint64
	count        int
	ignored      bool
	ignoreReason string
}

func newCausationRing(capacity int) *causationRing {
	return &causationRing{entries: make([]causationEntry, 0, capacity)}
}

// lookup returns the recorded result range for a causation id.
func (r *causationRing) lookup(causationID string) (causationEntry, bool) {
	if causationID == "" {
		return causationEntry{}, false
	}
	for _, e := range r.entries {
		if e.causationID == causationID {
			return e, true
		}
	}
	return causationEntry{}, false
}

// record remembers a processed causation id and what it produced.
func (r *causationRing) record(causationID string, fromSequence uint64, count int) {
	r.put(causationEntry{causationID: causationID, fromSequence: fromSequence, count: count})
}

// recordIgnored remembers a causation id whose command the module ignored,
// so a retry replays the ignored result rather than re-running the command.
func (r *causationRing) recordIgnored(causationID string, fromSequence uint64, reason string) {
	r.put(causationEntry{
		causationID:  causationID,
		fromSequence: fromSequence,
		ignored:      true,
		ignoreReason: reason,
	})
}

func (r *causationRing) put(entry causationEntry) {
	if entry.causationID == "" {
		return
	}
	if len(r.entries) < cap(r.entries) {
		r.entries = append(r.entries, entry)
		return
	}
	r.entries[r.next] = entry
	r.next = (r.next + 1) % len(r.entries)
}
