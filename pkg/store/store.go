// Package store holds the client-side entity state: the current marker set,
// the selection, the hashtag vocabulary and filter, the session, the map view
// and the single-slot error. All methods are safe for concurrent use.
//
// The marker set is immutable. Every write builds a new set off-lock (or
// derives one copy-on-write) and swaps it under the write lock, so readers
// never observe a partially applied batch.
package store

import (
	"slices"
	"sync"

	"github.com/agentstation/photomap/pkg/constants"
	"github.com/agentstation/photomap/pkg/errors"
	"github.com/agentstation/photomap/pkg/photos"
)

// Session is the authentication state.
type Session struct {
	Authenticated bool           `json:"authenticated" yaml:"authenticated"`
	Profile       photos.Profile `json:"profile" yaml:"profile"`
}

// ErrorState is the single error slot shown to the user.
type ErrorState struct {
	Active  bool   `json:"active" yaml:"active"`
	Message string `json:"message" yaml:"message"`
}

// Store is the owned state of one client.
type Store struct {
	mu sync.RWMutex

	markers   *photos.MarkerSet
	selected  string
	filter    string
	hashtags  []string
	thumbSize photos.ThumbSize
	session   Session
	view      photos.Viewport
	err       ErrorState
}

// New creates an empty store centered on the default map position.
func New() *Store {
	return &Store{
		markers:  photos.EmptySet(),
		hashtags: []string{},
		view:     DefaultView(),
	}
}

// DefaultView returns the initial map camera.
func DefaultView() photos.Viewport {
	return photos.Viewport{
		Center: photos.LatLng{Lat: constants.DefaultCenterLat, Lng: constants.DefaultCenterLng},
		Zoom:   constants.DefaultZoom,
	}
}

// Markers returns the current marker set. The set is immutable.
func (s *Store) Markers() *photos.MarkerSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.markers
}

// Marker returns a copy of one marker.
func (s *Store) Marker(id string) (photos.Marker, bool) {
	return s.Markers().Get(id)
}

// Selected returns the selected marker, if any.
func (s *Store) Selected() (photos.Marker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == "" {
		return photos.Marker{}, false
	}
	return s.markers.Get(s.selected)
}

// SelectedID returns the selected marker ID or "".
func (s *Store) SelectedID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Filter returns the active hashtag filter or "".
func (s *Store) Filter() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// Hashtags returns a copy of the hashtag vocabulary.
func (s *Store) Hashtags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.hashtags)
}

// Session returns the session state.
func (s *Store) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Authenticated reports whether a user is signed in.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Authenticated
}

// ThumbSize returns the thumbnail size.
func (s *Store) ThumbSize() photos.ThumbSize {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.thumbSize
}

// View returns the map camera.
func (s *Store) View() photos.Viewport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyView(s.view)
}

// Error returns the error slot.
func (s *Store) Error() ErrorState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// ReplaceAll swaps in a new marker set and returns the previous one.
// A non-empty set selects its first marker and centers the view on it;
// an empty set clears the selection.
func (s *Store) ReplaceAll(set *photos.MarkerSet) *photos.MarkerSet {
	if set == nil {
		set = photos.EmptySet()
	}
	first, hasFirst := set.First()

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.markers
	s.markers = set
	if hasFirst {
		s.selected = first.ID
		s.view.Center = first.Position
	} else {
		s.selected = ""
	}
	return prev
}

// ClearMarkers empties the marker set and the selection, returning the
// previous set.
func (s *Store) ClearMarkers() *photos.MarkerSet {
	return s.ReplaceAll(photos.EmptySet())
}

// Patch merges patch into the marker with the given ID and returns the
// patched marker. An absent ID is a silent no-op.
func (s *Store) Patch(id string, patch photos.MarkerPatch) (photos.Marker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.markers.Get(id)
	if !ok {
		return photos.Marker{}, false
	}
	updated := patch.Apply(current)
	s.markers = s.markers.With(updated)
	return updated.Clone(), true
}

// UpdateHashtags replaces a marker's hashtags with fn applied to the
// current list, reading and writing under one lock. It returns the new
// list, or false when id is absent.
func (s *Store) UpdateHashtags(id string, fn func([]string) []string) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.markers.Get(id)
	if !ok {
		return nil, false
	}
	updated := photos.HashtagsPatch(fn(slices.Clone(current.Hashtags))).Apply(current)
	s.markers = s.markers.With(updated)
	return slices.Clone(updated.Hashtags), true
}

// Select marks a marker as selected and centers the view on it.
// Selecting an ID that is not in the store is a caller error.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.markers.Get(id)
	if !ok {
		return errors.NewNotFoundError("marker", id)
	}
	s.selected = id
	s.view.Center = m.Position
	return nil
}

// ClearSelection clears the selection.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
}

// SetFilter sets the hashtag filter. It never triggers a refresh.
func (s *Store) SetFilter(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = value
}

// SetHashtags replaces the vocabulary. An active filter that is no longer
// part of it is reset; the return value reports whether that happened.
func (s *Store) SetHashtags(tags []string) (filterReset bool) {
	vocab := slices.Clone(tags)
	if vocab == nil {
		vocab = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.hashtags = vocab
	if s.filter != "" && !slices.Contains(vocab, s.filter) {
		s.filter = ""
		return true
	}
	return false
}

// ClearHashtags empties the vocabulary and the filter.
func (s *Store) ClearHashtags() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hashtags = []string{}
	s.filter = ""
}

// SetSession marks the session authenticated with the given profile.
func (s *Store) SetSession(profile photos.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = Session{Authenticated: true, Profile: profile}
}

// ClearSession signs the session out.
func (s *Store) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = Session{}
}

// SetThumbSize sets the thumbnail size.
func (s *Store) SetThumbSize(size photos.ThumbSize) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.thumbSize = size
}

// SetView replaces the map camera.
func (s *Store) SetView(view photos.Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = copyView(view)
}

// Report fills the error slot, replacing any previous message and
// re-activating it.
func (s *Store) Report(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ErrorState{Active: true, Message: message}
}

// Acknowledge deactivates the error slot. The last message is kept.
func (s *Store) Acknowledge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err.Active = false
}

func copyView(v photos.Viewport) photos.Viewport {
	out := v
	out.Bearing = copyFloat(v.Bearing)
	out.Pitch = copyFloat(v.Pitch)
	out.Altitude = copyFloat(v.Altitude)
	return out
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
