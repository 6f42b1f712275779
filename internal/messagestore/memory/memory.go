// Package memory implements messagestore.Store entirely in memory. It backs
// tests; nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/emberline/keel/internal/messagestore"
	"github.com/emberline/keel/internal/model"
)

// MemoryStore implements messagestore.Store with plain maps and slices.
type MemoryStore struct {
	mu       sync.RWMutex
	log      []model.Event // ascending global id
	streams  map[model.StreamName][]int
	cursors  map[string]uint64
	nextGID  uint64
	notifier *messagestore.Notifier
}

var _ messagestore.Store = (*MemoryStore)(nil)

// New returns an empty in-memory store. The first global id assigned is 1,
// matching the sqlite backend's autoincrement origin.
func New() *MemoryStore {
	return &MemoryStore{
		streams:  make(map[model.StreamName][]int),
		cursors:  make(map[string]uint64),
		nextGID:  1,
		notifier: messagestore.NewNotifier(),
	}
}

func (s *MemoryStore) Close() error {
	s.notifier.Close()
	return nil
}

func (s *MemoryStore) Tap() (<-chan model.Event, func()) {
	return s.notifier.Tap()
}

func (s *MemoryStore) Append(ctx context.Context, stream model.StreamName, expectedSequence uint64, proposed []model.ProposedEvent) ([]model.Event, error) {
	if len(proposed) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	length := uint64(len(s.streams[stream]))
	if length != expectedSequence {
		return nil, &model.ConflictError{
			StreamName:       stream,
			ExpectedSequence: expectedSequence,
			CurrentSequence:  length,
		}
	}

	now := time.Now().UTC()
	persisted := make([]model.Event, 0, len(proposed))
	for i, p := range proposed {
		ev := model.Event{
			ID:         uuid.NewString(),
			GlobalID:   s.nextGID,
			Sequence:   expectedSequence + uint64(i),
			StreamName: stream,
			EventType:  p.EventType,
			Data:       p.Data,
			Metadata:   p.Metadata,
			Time:       now,
		}
		s.nextGID++
		s.streams[stream] = append(s.streams[stream], len(s.log))
		s.log = append(s.log, ev)
		persisted = append(persisted, ev)
	}

	s.notifier.Publish(persisted)

	return persisted, nil
}

func (s *MemoryStore) ReadStream(ctx context.Context, stream model.StreamName, fromSequence uint64, limit int) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	indexes := s.streams[stream]
	var events []model.Event
	for _, idx := range indexes {
		ev := s.log[idx]
		if ev.Sequence < fromSequence {
			continue
		}
		events = append(events, ev)
		if limit > 0 && len(events) == limit {
			break
		}
	}
	return events, nil
}

func (s *MemoryStore) ReadCategory(ctx context.Context, category string, fromGlobalID uint64, limit int) ([]model.Event, error) {
	return s.readFiltered(fromGlobalID, limit, func(ev *model.Event) bool {
		return ev.StreamName.InCategory(category)
	})
}

func (s *MemoryStore) ReadAll(ctx context.Context, fromGlobalID uint64, limit int) ([]model.Event, error) {
	return s.readFiltered(fromGlobalID, limit, func(*model.Event) bool { return true })
}

func (s *MemoryStore) readFiltered(fromGlobalID uint64, limit int, keep func(*model.Event) bool) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// The log is ascending by global id; binary search for the start.
	start := sort.Search(len(s.log), func(i int) bool {
		return s.log[i].GlobalID >= fromGlobalID
	})

	var events []model.Event
	for _, ev := range s.log[start:] {
		if !keep(&ev) {
			continue
		}
		events = append(events, ev)
		if limit > 0 && len(events) == limit {
			break
		}
	}
	return events, nil
}

func (s *MemoryStore) StreamLength(ctx context.Context, stream model.StreamName) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.streams[stream])), nil
}

func (s *MemoryStore) LoadCursor(ctx context.Context, name string) (*model.Cursor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lastAcked, ok := s.cursors[name]
	if !ok {
		return &model.Cursor{SubscriberName: name}, nil
	}
	return &model.Cursor{SubscriberName: name, LastAckedGlobalID: lastAcked, Acked: true}, nil
}

func (s *MemoryStore) SaveCursor(ctx context.Context, name string, globalID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.cursors[name]; !ok || globalID > current {
		s.cursors[name] = globalID
	}
	return nil
}

func (s *MemoryStore) DeleteCursor(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cursors, name)
	return nil
}
