package photomap

import (
	"sync"

	"github.com/agentstation/photomap/pkg/photos"
)

// Compile-time interface check to ensure proper implementation.
var _ Hooks = (*client)(nil)

// Hook function types for marker and error events
type (
	// MarkerAddedHook is called when a refresh brings in a new marker
	MarkerAddedHook func(marker photos.Marker)

	// MarkerUpdatedHook is called when a refresh changes a marker
	MarkerUpdatedHook func(old, new photos.Marker)

	// MarkerRemovedHook is called when a marker leaves the store
	MarkerRemovedHook func(marker photos.Marker)

	// ErrorHook is called for every reported error
	ErrorHook func(message string)
)

// Hooks provides event callback registration.
type Hooks interface {
	OnMarkerAdded(MarkerAddedHook)
	OnMarkerUpdated(MarkerUpdatedHook)
	OnMarkerRemoved(MarkerRemovedHook)
	OnError(ErrorHook)
}

// hooks manages event callbacks for marker changes
type hooks struct {
	mu              sync.RWMutex
	onMarkerAdded   []MarkerAddedHook
	onMarkerUpdated []MarkerUpdatedHook
	onMarkerRemoved []MarkerRemovedHook
	onError         []ErrorHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnMarkerAdded registers a callback for when markers are added.
func (c *client) OnMarkerAdded(fn MarkerAddedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onMarkerAdded = append(c.hooks.onMarkerAdded, fn)
}

// OnMarkerUpdated registers a callback for when markers are updated.
func (c *client) OnMarkerUpdated(fn MarkerUpdatedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onMarkerUpdated = append(c.hooks.onMarkerUpdated, fn)
}

// OnMarkerRemoved registers a callback for when markers are removed.
func (c *client) OnMarkerRemoved(fn MarkerRemovedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onMarkerRemoved = append(c.hooks.onMarkerRemoved, fn)
}

// OnError registers a callback for reported errors.
func (c *client) OnError(fn ErrorHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onError = append(c.hooks.onError, fn)
}

// triggerMarkersReplaced diffs the old and new sets and fires the hooks.
func (h *hooks) triggerMarkersReplaced(oldSet, newSet *photos.MarkerSet) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.onMarkerAdded) == 0 && len(h.onMarkerUpdated) == 0 && len(h.onMarkerRemoved) == 0 {
		return
	}

	added, updated, removed := photos.Diff(oldSet, newSet)
	for _, m := range added {
		for _, hook := range h.onMarkerAdded {
			hook(m)
		}
	}
	for _, pair := range updated {
		for _, hook := range h.onMarkerUpdated {
			hook(pair[0], pair[1])
		}
	}
	for _, m := range removed {
		for _, hook := range h.onMarkerRemoved {
			hook(m)
		}
	}
}

func (h *hooks) triggerError(message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onError {
		hook(message)
	}
}
