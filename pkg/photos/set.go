package photos

import (
	"reflect"
	"slices"
)

// MarkerSet is an immutable id → Marker collection that remembers the order
// the backend returned the markers in. Mutating methods return a new set.
type MarkerSet struct {
	order []string
	byID  map[string]Marker
}

// NewMarkerSet builds a set in the given order. A repeated ID keeps its first
// position and takes the later value.
func NewMarkerSet(markers ...Marker) *MarkerSet {
	s := &MarkerSet{
		order: make([]string, 0, len(markers)),
		byID:  make(map[string]Marker, len(markers)),
	}
	for _, m := range markers {
		if _, exists := s.byID[m.ID]; !exists {
			s.order = append(s.order, m.ID)
		}
		s.byID[m.ID] = m.Clone()
	}
	return s
}

// EmptySet returns a set with no markers.
func EmptySet() *MarkerSet {
	return NewMarkerSet()
}

// Len returns the number of markers.
func (s *MarkerSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Get returns a copy of the marker with the given ID.
func (s *MarkerSet) Get(id string) (Marker, bool) {
	if s == nil {
		return Marker{}, false
	}
	m, ok := s.byID[id]
	if !ok {
		return Marker{}, false
	}
	return m.Clone(), true
}

// Has reports whether id is in the set.
func (s *MarkerSet) Has(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.byID[id]
	return ok
}

// First returns the first marker in source order.
func (s *MarkerSet) First() (Marker, bool) {
	if s.Len() == 0 {
		return Marker{}, false
	}
	return s.Get(s.order[0])
}

// IDs returns the marker IDs in source order.
func (s *MarkerSet) IDs() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.order)
}

// List returns copies of all markers in source order.
func (s *MarkerSet) List() []Marker {
	if s == nil {
		return []Marker{}
	}
	out := make([]Marker, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out
}

// With returns a new set where the marker with m.ID is replaced by m.
// The receiver is returned unchanged when the ID is absent.
func (s *MarkerSet) With(m Marker) *MarkerSet {
	if !s.Has(m.ID) {
		return s
	}
	next := &MarkerSet{
		order: s.order,
		byID:  make(map[string]Marker, len(s.byID)),
	}
	for id, existing := range s.byID {
		next.byID[id] = existing
	}
	next.byID[m.ID] = m.Clone()
	return next
}

// Diff compares two sets by ID. Updated pairs hold the old and new marker.
func Diff(oldSet, newSet *MarkerSet) (added []Marker, updated [][2]Marker, removed []Marker) {
	for _, m := range newSet.List() {
		prev, ok := oldSet.Get(m.ID)
		switch {
		case !ok:
			added = append(added, m)
		case !reflect.DeepEqual(prev, m):
			updated = append(updated, [2]Marker{prev, m})
		}
	}
	for _, m := range oldSet.List() {
		if !newSet.Has(m.ID) {
			removed = append(removed, m)
		}
	}
	return added, updated, removed
}
