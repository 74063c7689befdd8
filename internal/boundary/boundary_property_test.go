//go:build property

package boundary

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestRenderBoundaryProperties validates the boundary state machine across
// generated call sequences.
func TestRenderBoundaryProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	// Property: a boundary whose subtree never fails never leaves the
	// healthy state, no matter how many times it renders.
	properties.Property("healthy subtree stays healthy", prop.ForAll(
		func(text string, calls int) bool {
			if calls < 1 || calls > 50 {
				return true
			}

			b := New(textComponentProp(text), textComponentProp("fallback"))

			for i := 0; i < calls; i++ {
				var sb strings.Builder
				if err := b.Render(context.Background(), &sb); err != nil {
					return false
				}
				if sb.String() != text {
					return false
				}
			}

			return !b.Failed()
		},
		gen.AlphaString(),
		gen.IntRange(1, 50),
	))

	// Property: the subtree is attempted exactly once after the first
	// failure, regardless of how many renders follow.
	properties.Property("failed boundary never re-attempts children", prop.ForAll(
		func(successes int, extraCalls int) bool {
			if successes < 0 || successes > 20 || extraCalls < 1 || extraCalls > 30 {
				return true
			}

			attempts := 0
			children := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				attempts++
				if attempts > successes {
					return fmt.Errorf("failure on attempt %d", attempts)
				}
				_, err := io.WriteString(w, "ok")
				return err
			})

			b := New(children, textComponentProp("fallback"))

			// Healthy phase, then the tripping call, then extra calls.
			totalCalls := successes + 1 + extraCalls
			for i := 0; i < totalCalls; i++ {
				var sb strings.Builder
				if err := b.Render(context.Background(), &sb); err != nil {
					return false
				}

				if i < successes {
					if sb.String() != "ok" || b.Failed() {
						return false
					}
				} else {
					if sb.String() != "fallback" || !b.Failed() {
						return false
					}
				}
			}

			return attempts == successes+1
		},
		gen.IntRange(0, 20),
		gen.IntRange(1, 30),
	))

	// Property: the recorded failure carries the subtree's error and does
	// not change on later renders.
	properties.Property("lastError is recorded once and preserved", prop.ForAll(
		func(msg string, extraCalls int) bool {
			if msg == "" || extraCalls < 1 || extraCalls > 20 {
				return true
			}

			cause := fmt.Errorf("%s", msg)
			b := New(failingComponentProp(cause), textComponentProp("fallback"))

			var sb strings.Builder
			if err := b.Render(context.Background(), &sb); err != nil {
				return false
			}

			first := b.LastError()
			if first == nil || !strings.Contains(first.Error(), msg) {
				return false
			}

			for i := 0; i < extraCalls; i++ {
				var out strings.Builder
				if err := b.Render(context.Background(), &out); err != nil {
					return false
				}
			}

			return b.LastError() == first
		},
		gen.AlphaString(),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t)
}

func textComponentProp(text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	})
}

func failingComponentProp(err error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return err
	})
}
