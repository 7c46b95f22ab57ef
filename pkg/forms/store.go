package forms

import (
	"sync"
)

// Store holds the generic form state: the field structure and the current
// data. It knows nothing about articles.
type Store struct {
	mu        sync.Mutex
	structure []Field
	data      map[string]interface{}
}

func NewStore() *Store {
	return &Store{data: map[string]interface{}{}}
}

func (s *Store) SetStructure(structure []Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.structure = structure
}

func (s *Store) Structure() []Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.structure
}

// SetData replaces the form data wholesale (initial population).
func (s *Store) SetData(data map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[string]interface{}{}
	for k, v := range data {
		s.data[k] = v
	}
}

// UpdateData merges a partial change set onto the current data.
func (s *Store) UpdateData(changes map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range changes {
		s.data[k] = v
	}
}

func (s *Store) Data() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]interface{}, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

// Reset clears structure and data back to the initial state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.structure = nil
	s.data = map[string]interface{}{}
}
