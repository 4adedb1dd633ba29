// Package optimistic applies local state changes before the remote write they stand for
// and undoes them when that write fails.
package optimistic

import (
	"context"
	"sync"
)

// Outcome is the terminal state of a mutation.
type Outcome int

const (
	// Aborted means the mutation never ran because its context ended while it was queued.
	Aborted Outcome = iota
	Confirmed
	RolledBack
)

func (o Outcome) String() string {
	switch o {
	case Confirmed:
		return "confirmed"
	case RolledBack:
		return "rolled_back"
	default:
		return "aborted"
	}
}

// Mutation describes one optimistic change of the state stored under Key.
type Mutation[S any] struct {
	Key string
	// Apply returns the optimistic state. It must not modify its argument in place.
	Apply func(S) S
	// Commit performs the remote write.
	Commit func(ctx context.Context) error
	// Confirm optionally reconciles the optimistic state once Commit succeeded,
	// e.g. swapping a temporary id for the server one.
	Confirm func(S) S
}

// Store keeps state per key. Mutations on the same key run one at a time in arrival order,
// so the snapshot a failed mutation restores is always the state it started from.
type Store[S any] struct {
	mu     sync.RWMutex
	state  map[string]S
	queues map[string]chan struct{}

	// OnChange, when set, is called after every visible state change.
	OnChange func(key string, s S)
}

func NewStore[S any]() *Store[S] {
	return &Store[S]{
		state:  make(map[string]S),
		queues: make(map[string]chan struct{}),
	}
}

// Get returns the current state of key.
func (s *Store[S]) Get(key string) (S, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.state[key]
	return v, ok
}

// Set replaces the state of key, typically with freshly loaded server data.
func (s *Store[S]) Set(key string, v S) {
	s.mu.Lock()
	s.state[key] = v
	s.mu.Unlock()
	s.notify(key, v)
}

func (s *Store[S]) queue(key string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.queues[key]
	if !ok {
		q = make(chan struct{}, 1)
		s.queues[key] = q
	}
	return q
}

// Mutate waits for earlier mutations on the same key, applies m locally, runs the commit,
// and then either keeps the optimistic state or restores the snapshot taken before Apply.
func (s *Store[S]) Mutate(ctx context.Context, m Mutation[S]) (Outcome, error) {
	q := s.queue(m.Key)
	select {
	case q <- struct{}{}:
	case <-ctx.Done():
		return Aborted, ctx.Err()
	}
	defer func() { <-q }()

	s.mu.Lock()
	snapshot, existed := s.state[m.Key]
	next := m.Apply(snapshot)
	s.state[m.Key] = next
	s.mu.Unlock()
	s.notify(m.Key, next)

	if err := m.Commit(ctx); err != nil {
		s.mu.Lock()
		if existed {
			s.state[m.Key] = snapshot
		} else {
			delete(s.state, m.Key)
		}
		s.mu.Unlock()
		s.notify(m.Key, snapshot)
		return RolledBack, err
	}

	if m.Confirm != nil {
		s.mu.Lock()
		confirmed := m.Confirm(s.state[m.Key])
		s.state[m.Key] = confirmed
		s.mu.Unlock()
		s.notify(m.Key, confirmed)
	}
	return Confirmed, nil
}

func (s *Store[S]) notify(key string, v S) {
	if s.OnChange != nil {
		s.OnChange(key, v)
	}
}
