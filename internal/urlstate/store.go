package urlstate

import (
	"maps"
	"sync"
)

// Store derives State from a Location according to a Schema and writes
// partial updates back to it.
//
// State is recomputed from the location on every read, so external
// navigation is always reflected. Consecutive reads that decode to equal
// values return the same State map.
type Store struct {
	loc    Location
	schema Schema

	mu       sync.Mutex
	last     State
	notified State
	subs     map[int]func(State)
	nextSub  int
	unsub    func()
}

// NewStore returns a Store bound to loc. The schema is copied, so later
// edits to the caller's map have no effect. Call Close to detach it.
func NewStore(loc Location, schema Schema) *Store {
	schema = maps.Clone(schema)
	s := &Store{
		loc:    loc,
		schema: schema,
		subs:   make(map[int]func(State)),
	}
	s.last = schema.Decode(loc.Query())
	s.notified = s.last
	s.unsub = loc.Subscribe(s.locationChanged)
	return s
}

// Schema returns a copy of the schema the store decodes with.
func (s *Store) Schema() Schema {
	return maps.Clone(s.schema)
}

// State returns the current decoded state.
func (s *Store) State() State {
	st, _ := s.refresh()
	return st
}

// Set merges partial into the current URL query and replaces the location
// without adding a history entry. Parameters outside the schema are kept.
func (s *Store) Set(partial State) {
	q := s.loc.Query()
	s.schema.Encode(q, partial)
	s.loc.Replace(q)
}

// Subscribe registers fn to run whenever the decoded state changes.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Close detaches the store from its location.
func (s *Store) Close() {
	s.mu.Lock()
	unsub := s.unsub
	s.unsub = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// refresh decodes the location and reports whether the result differs
// from the previous read.
func (s *Store) refresh() (State, bool) {
	next := s.schema.Decode(s.loc.Query())
	s.mu.Lock()
	defer s.mu.Unlock()
	if next.Equal(s.last) {
		return s.last, false
	}
	s.last = next
	return next, true
}

func (s *Store) locationChanged() {
	st, _ := s.refresh()
	s.mu.Lock()
	if st.Equal(s.notified) {
		s.mu.Unlock()
		return
	}
	s.notified = st
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(st)
	}
}
