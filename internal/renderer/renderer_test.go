package renderer

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/rendershield/internal/registry"
	"github.com/conneroisu/rendershield/internal/types"
)

func textComponent(text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	})
}

func failingComponent() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return fmt.Errorf("boom")
	})
}

func newService(t *testing.T) (*Service, *registry.BoundaryRegistry) {
	t.Helper()
	reg := registry.New(nil)
	return New(reg, nil), reg
}

func TestRenderComponent(t *testing.T) {
	svc, reg := newService(t)
	reg.Register(&types.ComponentEntry{
		Name:      "Button",
		Component: textComponent("<button>Click</button>"),
		Fallback:  textComponent("<p>fallback</p>"),
	})

	out, err := svc.RenderComponent(context.Background(), "Button")
	require.NoError(t, err)
	assert.Equal(t, "<button>Click</button>", out)
}

func TestRenderComponentServesFallbackOnFailure(t *testing.T) {
	svc, reg := newService(t)
	reg.Register(&types.ComponentEntry{
		Name:      "Card",
		Component: failingComponent(),
		Fallback:  textComponent("<p>Something went wrong.</p>"),
	})

	out, err := svc.RenderComponent(context.Background(), "Card")
	require.NoError(t, err, "an absorbed subtree failure must not surface")
	assert.Equal(t, "<p>Something went wrong.</p>", out)

	b, _ := reg.Boundary("Card")
	assert.True(t, b.Failed())
}

func TestRenderComponentNotFound(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.RenderComponent(context.Background(), "Missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenderComponentNameValidation(t *testing.T) {
	svc, _ := newService(t)

	invalidNames := []string{
		"../etc/passwd",
		"/absolute",
		"nested/name",
		"",
		".",
	}

	for _, name := range invalidNames {
		t.Run(name, func(t *testing.T) {
			_, err := svc.RenderComponent(context.Background(), name)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidName)
		})
	}
}

func TestRenderPage(t *testing.T) {
	svc, _ := newService(t)

	page := svc.RenderPage("rendershield", "Button", "<button>Click</button>", "")

	assert.Contains(t, page, "<!DOCTYPE html>")
	assert.Contains(t, page, "Preview: Button")
	assert.Contains(t, page, "<button>Click</button>")
	assert.Contains(t, page, "/ws")
	assert.True(t, ContainsElement(page, "button", ""))
}

func TestRenderPageInjectsOverlay(t *testing.T) {
	svc, _ := newService(t)

	overlay := `<div id="rendershield-failure-overlay">failures</div>`
	page := svc.RenderPage("rendershield", "Card", "<p>body</p>", overlay)

	assert.True(t, ContainsElement(page, "div", "rendershield-failure-overlay"))
}

func TestVisibleText(t *testing.T) {
	text, err := VisibleText(`<div><h1>Title</h1><script>var x = 1;</script><p>Hello <b>world</b></p></div>`)
	require.NoError(t, err)
	assert.Equal(t, "Title Hello world", text)
}

func TestVisibleTextSkipsStyle(t *testing.T) {
	text, err := VisibleText(`<style>.a { color: red; }</style><span>visible</span>`)
	require.NoError(t, err)
	assert.Equal(t, "visible", text)
}

func TestContainsElement(t *testing.T) {
	fragment := `<div id="root"><p>text</p></div>`

	assert.True(t, ContainsElement(fragment, "div", "root"))
	assert.True(t, ContainsElement(fragment, "p", ""))
	assert.False(t, ContainsElement(fragment, "div", "other"))
	assert.False(t, ContainsElement(fragment, "section", ""))
}
