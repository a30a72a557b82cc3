// Package selection holds the set of participants chosen for the next run.
package selection

import "sync"

// Set is a toggle set of participant ids kept in selection order. Ids are not
// checked against the catalog; an empty set means "all participants".
type Set struct {
	mu  sync.RWMutex
	ids []string
}

// New creates a set holding ids, duplicates dropped.
func New(ids ...string) *Set {
	s := &Set{}
	s.Replace(ids)
	return s
}

// Toggle adds id if absent and removes it if present. It reports whether id
// is selected afterwards.
func (s *Set) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
			return false
		}
	}
	s.ids = append(s.ids, id)
	return true
}

func (s *Set) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// Selected returns a copy of the selected ids.
func (s *Set) Selected() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string{}, s.ids...)
}

func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

func (s *Set) Clear() {
	s.mu.Lock()
	s.ids = nil
	s.mu.Unlock()
}

// Replace swaps the whole selection, keeping first occurrences only.
func (s *Set) Replace(ids []string) {
	next := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		next = append(next, id)
	}

	s.mu.Lock()
	s.ids = next
	s.mu.Unlock()
}
