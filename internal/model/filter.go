package model

// AnyCategory in an EventInterest matches events from every category.
const AnyCategory = "*"

// EventInterest names one (category, event type) pair a subscriber wants.
type EventInterest struct {
	Category  string `json:"category"`
	EventType string `json:"event_type"`
}

// Matches reports whether the event satisfies this interest.
func (i EventInterest) Matches(e *Event) bool {
	if i.Category != AnyCategory && !e.StreamName.InCategory(i.Category) {
		return false
	}
	return i.EventType == e.EventType
}

// Filter is a subscriber's full interest set. An empty filter matches all
// events.
type Filter []EventInterest

// Matches reports whether any interest in the filter matches the event.
func (f Filter) Matches(e *Event) bool {
	if len(f) == 0 {
		return true
	}
	for _, interest := range f {
		if interest.Matches(e) {
			return true
		}
	}
	return false
}
