package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderFailureError(t *testing.T) {
	cause := fmt.Errorf("template blew up")
	f := NewRenderFailure("Card", cause)

	msg := f.Error()
	assert.Contains(t, msg, "[error]")
	assert.Contains(t, msg, "component:Card")
	assert.Contains(t, msg, "rendering failed")
	assert.Contains(t, msg, "template blew up")
}

func TestRenderFailureUnwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	f := NewRenderFailure("Card", cause)

	assert.ErrorIs(t, f, cause)
	assert.Equal(t, cause, f.Unwrap())
}

func TestRenderFailureIs(t *testing.T) {
	a := NewRenderFailure("Card", fmt.Errorf("one"))
	b := NewRenderFailure("Card", fmt.Errorf("two"))
	c := NewRenderFailure("Button", fmt.Errorf("three"))

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, c))
}

func TestFromPanicWithError(t *testing.T) {
	cause := fmt.Errorf("nil deref")
	f := FromPanic("Profile", cause)

	assert.Equal(t, FailureKindPanic, f.Kind)
	assert.ErrorIs(t, f, cause)
	assert.Contains(t, f.Error(), "panic during rendering")
}

func TestFromPanicWithNonError(t *testing.T) {
	f := FromPanic("Profile", "something broke")

	assert.Equal(t, FailureKindPanic, f.Kind)
	assert.Contains(t, f.Error(), "something broke")
}

func TestWithContext(t *testing.T) {
	f := NewRenderFailure("Card", fmt.Errorf("boom")).
		WithContext("request_id", "abc123").
		WithContext("attempt", 1)

	assert.Equal(t, "abc123", f.Context["request_id"])
	assert.Equal(t, 1, f.Context["attempt"])
}

func TestFailureKindPredicates(t *testing.T) {
	assert.True(t, IsRenderFailure(NewRenderFailure("A", fmt.Errorf("x"))))
	assert.True(t, IsRenderFailure(fmt.Errorf("wrapped: %w", FromPanic("A", "x"))))
	assert.False(t, IsRenderFailure(fmt.Errorf("plain")))

	assert.True(t, IsPanicFailure(FromPanic("A", "x")))
	assert.False(t, IsPanicFailure(NewRenderFailure("A", fmt.Errorf("x"))))
	assert.False(t, IsPanicFailure(nil))
}

func TestNewFailureCollector(t *testing.T) {
	collector := NewFailureCollector()

	assert.NotNil(t, collector)
	assert.False(t, collector.HasFailures())
	assert.Equal(t, 0, collector.Count())
	assert.Empty(t, collector.Failures())
}

func TestCollectorAdd(t *testing.T) {
	collector := NewFailureCollector()

	collector.Add(NewRenderFailure("Card", fmt.Errorf("boom")))
	collector.Add(nil)
	collector.Add(FromPanic("Button", "bang"))

	assert.True(t, collector.HasFailures())
	assert.Equal(t, 2, collector.Count())
}

func TestCollectorFailuresByComponent(t *testing.T) {
	collector := NewFailureCollector()
	collector.Add(NewRenderFailure("Card", fmt.Errorf("one")))
	collector.Add(NewRenderFailure("Button", fmt.Errorf("two")))
	collector.Add(NewRenderFailure("Card", fmt.Errorf("three")))

	cardFailures := collector.FailuresByComponent("Card")
	require.Len(t, cardFailures, 2)
	for _, f := range cardFailures {
		assert.Equal(t, "Card", f.Component)
	}

	assert.Empty(t, collector.FailuresByComponent("Missing"))
}

func TestCollectorClear(t *testing.T) {
	collector := NewFailureCollector()
	collector.Add(NewRenderFailure("Card", fmt.Errorf("boom")))

	collector.Clear()

	assert.False(t, collector.HasFailures())
	assert.Empty(t, collector.Failures())
}

func TestCollectorFailuresReturnsCopy(t *testing.T) {
	collector := NewFailureCollector()
	collector.Add(NewRenderFailure("Card", fmt.Errorf("boom")))

	failures := collector.Failures()
	failures[0] = nil

	require.Len(t, collector.Failures(), 1)
	assert.NotNil(t, collector.Failures()[0])
}

func TestOverlayEmptyWithoutFailures(t *testing.T) {
	collector := NewFailureCollector()
	assert.Empty(t, collector.Overlay())
}

func TestOverlayContainsFailureDetails(t *testing.T) {
	collector := NewFailureCollector()
	collector.Add(NewRenderFailure("Card", fmt.Errorf("boom <script>")))
	collector.Add(FromPanic("Button", "bang"))

	overlay := collector.Overlay()

	assert.Contains(t, overlay, "rendershield-failure-overlay")
	assert.Contains(t, overlay, "Render Failures")
	assert.Contains(t, overlay, "Card")
	assert.Contains(t, overlay, "Button")
	assert.Contains(t, overlay, "panic")
	// Failure text is escaped before it reaches the overlay markup.
	assert.NotContains(t, overlay, "<script>")
	assert.Contains(t, overlay, "&lt;script&gt;")
}
