// Package errors defines the render failure taxonomy for rendershield.
//
// A RenderFailure is the single error kind produced when constructing or
// updating a component subtree fails. Failures absorbed by a render boundary
// are reported to a FailureCollector, which the preview server turns into an
// on-page overlay.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// FailureKind distinguishes how the subtree failed.
type FailureKind string

const (
	// FailureKindError means the component's Render returned an error.
	FailureKindError FailureKind = "error"
	// FailureKindPanic means the component panicked while rendering.
	FailureKindPanic FailureKind = "panic"
	// FailureKindFallback means the fallback renderer itself failed.
	FailureKindFallback FailureKind = "fallback"
)

// RenderFailure is a structured error describing a failure raised while
// producing a component subtree's output.
type RenderFailure struct {
	Component string
	Kind      FailureKind
	Message   string
	Cause     error
	Context   map[string]interface{}
	Timestamp time.Time
}

// Error implements the error interface.
func (f *RenderFailure) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("[%s]", f.Kind))

	if f.Component != "" {
		parts = append(parts, "component:"+f.Component)
	}

	parts = append(parts, f.Message)

	result := strings.Join(parts, " ")

	if f.Cause != nil {
		result += fmt.Sprintf(": %v", f.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (f *RenderFailure) Unwrap() error {
	return f.Cause
}

// Is implements error comparison by component and kind.
func (f *RenderFailure) Is(target error) bool {
	var t *RenderFailure
	if errors.As(target, &t) {
		return f.Kind == t.Kind && f.Component == t.Component
	}

	return false
}

// WithContext adds context information to the failure.
func (f *RenderFailure) WithContext(key string, value interface{}) *RenderFailure {
	if f.Context == nil {
		f.Context = make(map[string]interface{})
	}
	f.Context[key] = value

	return f
}

// NewRenderFailure creates a render failure for a component whose Render
// returned an error.
func NewRenderFailure(component string, cause error) *RenderFailure {
	return &RenderFailure{
		Component: component,
		Kind:      FailureKindError,
		Message:   "rendering failed",
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// FromPanic creates a render failure from a recovered panic value.
func FromPanic(component string, recovered interface{}) *RenderFailure {
	cause, ok := recovered.(error)
	if !ok {
		cause = fmt.Errorf("%v", recovered)
	}

	return &RenderFailure{
		Component: component,
		Kind:      FailureKindPanic,
		Message:   "panic during rendering",
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// NewFallbackFailure creates a failure for a fallback renderer that itself
// failed. These are never absorbed by a boundary.
func NewFallbackFailure(component string, cause error) *RenderFailure {
	return &RenderFailure{
		Component: component,
		Kind:      FailureKindFallback,
		Message:   "fallback rendering failed",
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// IsRenderFailure reports whether err is (or wraps) a RenderFailure.
func IsRenderFailure(err error) bool {
	var f *RenderFailure
	return errors.As(err, &f)
}

// IsPanicFailure reports whether err is a render failure caused by a panic.
func IsPanicFailure(err error) bool {
	var f *RenderFailure
	if errors.As(err, &f) {
		return f.Kind == FailureKindPanic
	}

	return false
}
