// Package supervisor owns the live-actor population. It routes each command
// to the single actor for its entity, spawning actors on demand and evicting
// the least-recently-used one when the population exceeds its bound.
package supervisor

import (
	"container/list"
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/emberline/keel/internal/aggregate"
	"github.com/emberline/keel/internal/messagestore"
	"github.com/emberline/keel/internal/model"
)

// ErrShutdown is returned for commands arriving after Shutdown started.
var ErrShutdown = errors.New("supervisor shut down")

// Supervisor maintains the (category, id) -> actor mapping with an LRU bound.
type Supervisor struct {
	store       messagestore.Store
	instantiate aggregate.Instantiator
	capacity    int
	callTimeout time.Duration
	logger      *slog.Logger

	mu     sync.Mutex
	actors map[model.StreamName]*list.Element
	lru    *list.List // front = most recently used; values are *entry
	closed bool
}

type entry struct {
	stream model.StreamName
	actor  *aggregate.Actor
}

// New creates the supervisor. capacity bounds the number of live actors.
func New(store messagestore.Store, instantiate aggregate.Instantiator, capacity int, callTimeout time.Duration, logger *slog.Logger) *Supervisor {
	if capacity < 1 {
		capacity = 1
	}
	return &Supervisor{
		store:       store,
		instantiate: instantiate,
		capacity:    capacity,
		callTimeout: callTimeout,
		logger:      logger,
		actors:      make(map[model.StreamName]*list.Element),
		lru:         list.New(),
	}
}

// Route delivers the command to its entity's actor and waits for the result.
// A command is never lost: if the chosen actor is mid-eviction, it is
// re-queued on the successor.
func (s *Supervisor) Route(ctx context.Context, cmd *model.Command) (aggregate.Result, error) {
	stream, err := cmd.StreamName()
	if err != nil {
		return aggregate.Result{}, err
	}

	for {
		actor, err := s.acquire(stream)
		if err != nil {
			return aggregate.Result{}, err
		}

		reply, err := actor.Submit(ctx, cmd)
		if errors.Is(err, aggregate.ErrDraining) {
			// Lost the race with eviction; drop the stale mapping and
			// spawn the successor.
			s.forget(stream, actor)
			continue
		}
		if err != nil {
			return aggregate.Result{}, err
		}

		select {
		case res, ok := <-reply:
			if !ok {
				// Drained between enqueue and reply; re-queue.
				s.forget(stream, actor)
				continue
			}
			return res, nil
		case <-ctx.Done():
			// The append may still complete; only the response is lost.
			return aggregate.Result{}, ctx.Err()
		}
	}
}

// acquire returns the live actor for the stream, creating it if needed, and
// bumps its recency. Eviction of the LRU actor happens outside the lock.
func (s *Supervisor) acquire(stream model.StreamName) (*aggregate.Actor, error) {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return nil, ErrShutdown
	}

	if elem, ok := s.actors[stream]; ok {
		s.lru.MoveToFront(elem)
		actor := elem.Value.(*entry).actor
		s.mu.Unlock()
		return actor, nil
	}

	actor := aggregate.New(stream, s.store, s.instantiate, s.callTimeout, s.logger)
	s.actors[stream] = s.lru.PushFront(&entry{stream: stream, actor: actor})

	var evicted []*entry
	for s.lru.Len() > s.capacity {
		oldest := s.lru.Back()
		s.lru.Remove(oldest)
		e := oldest.Value.(*entry)
		delete(s.actors, e.stream)
		evicted = append(evicted, e)
	}
	s.mu.Unlock()

	// Draining completes in-flight work; commands that raced onto the
	// evicted actor are re-queued by Route.
	for _, e := range evicted {
		go func(e *entry) {
			s.logger.Debug("evicting actor", "stream", e.stream.String())
			e.actor.Drain()
		}(e)
	}

	return actor, nil
}

// forget removes a stale mapping, but only if it still points at the given
// actor; a successor registered meanwhile is left alone.
func (s *Supervisor) forget(stream model.StreamName, actor *aggregate.Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if elem, ok := s.actors[stream]; ok && elem.Value.(*entry).actor == actor {
		s.lru.Remove(elem)
		delete(s.actors, stream)
	}
}

// Live returns the number of live actors.
func (s *Supervisor) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

// Shutdown drains every live actor and rejects further commands. Safe to
// call more than once.
func (s *Supervisor) Shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	var all []*entry
	for elem := s.lru.Front(); elem != nil; elem = elem.Next() {
		all = append(all, elem.Value.(*entry))
	}
	s.actors = make(map[model.StreamName]*list.Element)
	s.lru.Init()
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, e := range all {
		wg.Add(1)
		go func(e *entry) {
			defer wg.Done()
			e.actor.Drain()
		}(e)
	}
	wg.Wait()
}
