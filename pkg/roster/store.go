package roster

import (
	"context"
	"sync"
)

// State is the store snapshot handed to subscribers. Err and Entries are
// independent: a failed reload keeps the previous entries, and a later
// success does not clear a recorded error.
type State struct {
	Loading bool
	Err     error
	Entries []Entry
}

// Store tracks the roster fetch lifecycle. Mutations are serialized, but
// overlapping Load calls are not coalesced: each trigger runs a fully
// independent fetch against the service.
type Store struct {
	svc Fetcher

	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int
}

// NewStore builds the store and eagerly triggers the first load.
func NewStore(ctx context.Context, svc Fetcher) *Store {
	s := &Store{
		svc:   svc,
		state: State{Entries: []Entry{}},
		subs:  make(map[int]func(State)),
	}
	s.Load(ctx)
	return s
}

// Load runs the fetch effect: loading on, fetch, record result, loading off.
// Transport failures are absorbed into the state and never returned.
func (s *Store) Load(ctx context.Context) {
	s.patch(func(st *State) { st.Loading = true })

	entries, err := s.svc.GetRoster(ctx)
	if err != nil {
		s.patch(func(st *State) { st.Err = err })
	} else {
		s.patch(func(st *State) { st.Entries = entries })
	}

	s.patch(func(st *State) { st.Loading = false })
}

// Roster is the derived value the display reads.
func (s *Store) Roster() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Entries
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn for every subsequent state change and returns the
// teardown. After teardown fn is never called again.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) patch(mutate func(*State)) {
	s.mu.Lock()
	mutate(&s.state)
	snapshot := s.state
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snapshot)
	}
}
