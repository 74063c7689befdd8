// Package boundary implements render boundaries for templ components.
//
// A RenderBoundary wraps a component subtree and contains any failure raised
// while producing that subtree's output. On the first failure the boundary
// transitions from healthy to failed, records the failure, and emits the
// fallback component's output instead. The transition is irreversible for the
// lifetime of the instance: once failed, the boundary never re-attempts the
// wrapped subtree. Recovery is destroy-and-recreate, which the registry's
// Refresh path performs when source files change.
package boundary

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/a-h/templ"

	"github.com/conneroisu/rendershield/internal/errors"
)

// RenderBoundary contains rendering failures within a component subtree and
// substitutes a fallback presentation.
//
// Invariants:
//   - hasFailed transitions from false to true at most once
//   - lastError is non-nil iff hasFailed is true
//   - the wrapped subtree is never rendered again after hasFailed is set
type RenderBoundary struct {
	name     string
	children templ.Component
	fallback templ.Component

	// staticFallback, when non-empty, is emitted verbatim if the fallback
	// component itself fails. Empty means fallback failures propagate.
	staticFallback string

	onFailure func(*errors.RenderFailure)

	mutex     sync.Mutex
	hasFailed bool
	lastError *errors.RenderFailure
}

// Option configures a RenderBoundary.
type Option func(*RenderBoundary)

// WithName sets the component name attached to recorded failures.
func WithName(name string) Option {
	return func(b *RenderBoundary) {
		b.name = name
	}
}

// WithOnFailure registers a hook invoked exactly once, on the render call
// that transitions the boundary to failed. Used to report absorbed failures
// to a collector.
func WithOnFailure(hook func(*errors.RenderFailure)) Option {
	return func(b *RenderBoundary) {
		b.onFailure = hook
	}
}

// WithStaticFallback sets a last-resort HTML snippet emitted when the
// fallback component itself fails. Without it, fallback failures propagate
// to the caller.
func WithStaticFallback(html string) Option {
	return func(b *RenderBoundary) {
		b.staticFallback = html
	}
}

// New creates a healthy render boundary around children. Both children and
// fallback are required.
func New(children, fallback templ.Component, opts ...Option) *RenderBoundary {
	if children == nil {
		panic("boundary: children component cannot be nil")
	}
	if fallback == nil {
		panic("boundary: fallback component cannot be nil")
	}

	b := &RenderBoundary{
		children: children,
		fallback: fallback,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Render implements templ.Component.
//
// While healthy it attempts the wrapped subtree; the subtree renders into a
// buffer so a mid-render failure never leaks partial output to w. An error
// return or a panic from the subtree counts as a render failure: it is
// absorbed, the boundary transitions to failed, and the same call emits the
// fallback output. Once failed, the subtree is skipped entirely and only the
// fallback is rendered.
//
// Errors returned by Render are never subtree failures: they are either
// write errors on w or failures of the fallback path itself.
func (b *RenderBoundary) Render(ctx context.Context, w io.Writer) error {
	b.mutex.Lock()
	failed := b.hasFailed
	b.mutex.Unlock()

	if failed {
		return b.renderFallback(ctx, w)
	}

	var buf bytes.Buffer
	failure := b.renderChildren(ctx, &buf)
	if failure == nil {
		_, err := w.Write(buf.Bytes())
		return err
	}

	// First failure wins. Concurrent renders may fail at the same time;
	// only the winner records the failure and fires the hook.
	var hook func(*errors.RenderFailure)
	b.mutex.Lock()
	if !b.hasFailed {
		b.hasFailed = true
		b.lastError = failure
		hook = b.onFailure
	}
	b.mutex.Unlock()

	if hook != nil {
		hook(failure)
	}

	return b.renderFallback(ctx, w)
}

// renderChildren renders the wrapped subtree, converting an error return or
// a panic into a RenderFailure.
func (b *RenderBoundary) renderChildren(ctx context.Context, w io.Writer) (failure *errors.RenderFailure) {
	defer func() {
		if r := recover(); r != nil {
			failure = errors.FromPanic(b.name, r)
		}
	}()

	if err := b.children.Render(ctx, w); err != nil {
		return errors.NewRenderFailure(b.name, err)
	}

	return nil
}

// renderFallback renders the fallback component. A failure here is not
// absorbed: it propagates to the caller unless a static fallback is
// configured, in which case the static snippet is emitted instead.
func (b *RenderBoundary) renderFallback(ctx context.Context, w io.Writer) error {
	var buf bytes.Buffer
	failure := b.runFallback(ctx, &buf)
	if failure == nil {
		_, err := w.Write(buf.Bytes())
		return err
	}

	if b.staticFallback != "" {
		_, err := io.WriteString(w, b.staticFallback)
		return err
	}

	return failure
}

func (b *RenderBoundary) runFallback(ctx context.Context, w io.Writer) (failure *errors.RenderFailure) {
	defer func() {
		if r := recover(); r != nil {
			failure = errors.NewFallbackFailure(b.name, errors.FromPanic(b.name, r))
		}
	}()

	if err := b.fallback.Render(ctx, w); err != nil {
		return errors.NewFallbackFailure(b.name, err)
	}

	return nil
}

// Failed reports whether the boundary has absorbed a failure.
func (b *RenderBoundary) Failed() bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.hasFailed
}

// LastError returns the failure that tripped the boundary, or nil while
// healthy.
func (b *RenderBoundary) LastError() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.lastError == nil {
		return nil
	}
	return b.lastError
}

// Name returns the component name attached to this boundary.
func (b *RenderBoundary) Name() string {
	return b.name
}
