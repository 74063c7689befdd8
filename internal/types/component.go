// Package types provides common type definitions used throughout rendershield.
// This package contains shared types to avoid circular dependencies between packages.
package types

import (
	"time"

	"github.com/a-h/templ"
)

// ComponentEntry describes a boundary-protected component known to the
// registry: the component itself, the fallback substituted when it fails,
// and metadata used by the preview server and watcher.
type ComponentEntry struct {
	// Name is the component identifier (e.g., "Button", "CardHeader")
	Name string
	// Component is the protected subtree
	Component templ.Component
	// Fallback is rendered in place of Component once it has failed
	Fallback templ.Component
	// FilePath is the source file the component came from, when known.
	// Used by the watcher to map file changes back to boundaries.
	FilePath string
	// LastMod tracks the last modification time for change detection
	LastMod time.Time
	// Description provides human-readable documentation for the component
	Description string
}

// EventType represents the type of component change event.
type EventType string

const (
	EventTypeAdded   EventType = "added"
	EventTypeUpdated EventType = "updated"
	EventTypeRemoved EventType = "removed"
	// EventTypeRefreshed means the entry's boundary was replaced with a
	// fresh healthy instance.
	EventTypeRefreshed EventType = "refreshed"
)

// ComponentEvent represents a change in the boundary registry, used for
// real-time notifications to watchers like the development server.
type ComponentEvent struct {
	// Type indicates the kind of change
	Type EventType
	// Entry contains the component entry (may be nil for removed events)
	Entry *ComponentEntry
	// Timestamp records when the event occurred for ordering and filtering
	Timestamp time.Time
}
