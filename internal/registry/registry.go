// Package registry tracks boundary-protected components.
//
// Each registered entry is paired with a live RenderBoundary. Because a
// boundary never leaves the failed state on its own, the registry's Refresh
// operation is the reset path: it replaces an entry's boundary with a fresh
// healthy instance, which the serve path triggers when source files change.
package registry

import (
	"sync"
	"time"

	"github.com/conneroisu/rendershield/internal/boundary"
	"github.com/conneroisu/rendershield/internal/errors"
	"github.com/conneroisu/rendershield/internal/types"
)

// BoundaryRegistry manages all registered components and their boundaries.
type BoundaryRegistry struct {
	entries    map[string]*types.ComponentEntry
	boundaries map[string]*boundary.RenderBoundary
	options    []boundary.Option
	onFailure  func(*errors.RenderFailure)
	mutex      sync.RWMutex
	watchers   []chan types.ComponentEvent
}

// New creates a new boundary registry. Boundary options are applied to every
// boundary the registry creates; onFailure receives failures absorbed by any
// of them (may be nil).
func New(onFailure func(*errors.RenderFailure), opts ...boundary.Option) *BoundaryRegistry {
	return &BoundaryRegistry{
		entries:    make(map[string]*types.ComponentEntry),
		boundaries: make(map[string]*boundary.RenderBoundary),
		options:    opts,
		onFailure:  onFailure,
		watchers:   make([]chan types.ComponentEvent, 0),
	}
}

// newBoundary builds a fresh boundary for entry. Caller holds the lock.
func (r *BoundaryRegistry) newBoundary(entry *types.ComponentEntry) *boundary.RenderBoundary {
	opts := make([]boundary.Option, 0, len(r.options)+2)
	opts = append(opts, boundary.WithName(entry.Name))
	if r.onFailure != nil {
		opts = append(opts, boundary.WithOnFailure(r.onFailure))
	}
	opts = append(opts, r.options...)

	return boundary.New(entry.Component, entry.Fallback, opts...)
}

// Register adds or updates a component entry. The entry always gets a fresh
// healthy boundary, so re-registering a component is also a reset.
func (r *BoundaryRegistry) Register(entry *types.ComponentEntry) {
	r.mutex.Lock()

	eventType := types.EventTypeAdded
	if _, exists := r.entries[entry.Name]; exists {
		eventType = types.EventTypeUpdated
	}

	if entry.LastMod.IsZero() {
		entry.LastMod = time.Now()
	}

	r.entries[entry.Name] = entry
	r.boundaries[entry.Name] = r.newBoundary(entry)

	r.notifyLocked(types.ComponentEvent{
		Type:      eventType,
		Entry:     entry,
		Timestamp: time.Now(),
	})

	r.mutex.Unlock()
}

// Get retrieves a component entry by name.
func (r *BoundaryRegistry) Get(name string) (*types.ComponentEntry, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	entry, exists := r.entries[name]
	return entry, exists
}

// Boundary retrieves the live boundary for a component.
func (r *BoundaryRegistry) Boundary(name string) (*boundary.RenderBoundary, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	b, exists := r.boundaries[name]
	return b, exists
}

// GetAll returns all registered entries.
func (r *BoundaryRegistry) GetAll() map[string]*types.ComponentEntry {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make(map[string]*types.ComponentEntry, len(r.entries))
	for name, entry := range r.entries {
		result[name] = entry
	}
	return result
}

// Remove removes a component and its boundary from the registry.
func (r *BoundaryRegistry) Remove(name string) {
	r.mutex.Lock()

	entry, exists := r.entries[name]
	if !exists {
		r.mutex.Unlock()
		return
	}

	delete(r.entries, name)
	delete(r.boundaries, name)

	r.notifyLocked(types.ComponentEvent{
		Type:      types.EventTypeRemoved,
		Entry:     entry,
		Timestamp: time.Now(),
	})

	r.mutex.Unlock()
}

// Refresh replaces the named component's boundary with a fresh healthy
// instance. Returns false if the component is not registered.
func (r *BoundaryRegistry) Refresh(name string) bool {
	r.mutex.Lock()

	entry, exists := r.entries[name]
	if !exists {
		r.mutex.Unlock()
		return false
	}

	r.boundaries[name] = r.newBoundary(entry)
	entry.LastMod = time.Now()

	r.notifyLocked(types.ComponentEvent{
		Type:      types.EventTypeRefreshed,
		Entry:     entry,
		Timestamp: time.Now(),
	})

	r.mutex.Unlock()
	return true
}

// RefreshAll replaces every boundary with a fresh healthy instance and
// returns the number refreshed.
func (r *BoundaryRegistry) RefreshAll() int {
	r.mutex.Lock()

	count := 0
	now := time.Now()
	for name, entry := range r.entries {
		r.boundaries[name] = r.newBoundary(entry)
		entry.LastMod = now
		count++

		r.notifyLocked(types.ComponentEvent{
			Type:      types.EventTypeRefreshed,
			Entry:     entry,
			Timestamp: now,
		})
	}

	r.mutex.Unlock()
	return count
}

// Watch returns a channel that receives component events.
func (r *BoundaryRegistry) Watch() <-chan types.ComponentEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan types.ComponentEvent, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it.
func (r *BoundaryRegistry) UnWatch(ch <-chan types.ComponentEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// Count returns the number of registered components.
func (r *BoundaryRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.entries)
}

// notifyLocked sends an event to all watchers. Caller holds the lock.
func (r *BoundaryRegistry) notifyLocked(event types.ComponentEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}
