package store

import (
	"slices"

	"github.com/agentstation/photomap/pkg/photos"
)

// Snapshot is a consistent, independent copy of the store.
type Snapshot struct {
	Markers       []photos.Marker  `json:"markers" yaml:"markers"`
	SelectedID    string           `json:"selectedId,omitempty" yaml:"selectedId,omitempty"`
	HashtagFilter string           `json:"hashtagFilter,omitempty" yaml:"hashtagFilter,omitempty"`
	Hashtags      []string         `json:"hashtags" yaml:"hashtags"`
	ThumbSize     photos.ThumbSize `json:"thumbSize" yaml:"thumbSize"`
	Session       Session          `json:"session" yaml:"session"`
	View          photos.Viewport  `json:"view" yaml:"view"`
	Error         ErrorState       `json:"error" yaml:"error"`
}

// Snapshot copies the whole state under one read lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Markers:       s.markers.List(),
		SelectedID:    s.selected,
		HashtagFilter: s.filter,
		Hashtags:      slices.Clone(s.hashtags),
		ThumbSize:     s.thumbSize,
		Session:       s.session,
		View:          copyView(s.view),
		Error:         s.err,
	}
}

// Selected returns the selected marker from the snapshot.
func (s Snapshot) Selected() (photos.Marker, bool) {
	if s.SelectedID == "" {
		return photos.Marker{}, false
	}
	for _, m := range s.Markers {
		if m.ID == s.SelectedID {
			return m, true
		}
	}
	return photos.Marker{}, false
}
