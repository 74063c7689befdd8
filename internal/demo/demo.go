// Package demo registers a set of built-in components so the CLI works
// against something real without a project scaffold. Broken and Panicky
// exist to exercise boundaries end to end: their pages render the fallback
// and show up in the failure overlay.
package demo

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/conneroisu/rendershield/internal/registry"
	"github.com/conneroisu/rendershield/internal/types"
)

func component(html string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, html)
		return err
	})
}

// Fallback is the standard fallback presentation used by the demo entries.
func Fallback(name string) templ.Component {
	return component(fmt.Sprintf(
		`<div class="fallback"><p>Something went wrong rendering %s.</p></div>`, name))
}

func broken() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return fmt.Errorf("demo component configured to fail")
	})
}

func panicky() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<section>"); err != nil {
			return err
		}
		panic("demo component configured to panic")
	})
}

// Register adds the demo components to the registry.
func Register(reg *registry.BoundaryRegistry) {
	entries := []*types.ComponentEntry{
		{
			Name:        "Button",
			Component:   component(`<button class="btn btn-primary">Click me</button>`),
			Fallback:    Fallback("Button"),
			Description: "A primary action button",
		},
		{
			Name: "Card",
			Component: component(`<div class="card">
    <div class="card-header"><h3>Sample Card</h3></div>
    <div class="card-body">Card content goes here.</div>
</div>`),
			Fallback:    Fallback("Card"),
			Description: "A content card with header and body",
		},
		{
			Name:        "Alert",
			Component:   component(`<div class="alert" role="alert">Heads up! Something needs attention.</div>`),
			Fallback:    Fallback("Alert"),
			Description: "An informational alert banner",
		},
		{
			Name:        "Broken",
			Component:   broken(),
			Fallback:    Fallback("Broken"),
			Description: "Always fails; demonstrates fallback substitution",
		},
		{
			Name:        "Panicky",
			Component:   panicky(),
			Fallback:    Fallback("Panicky"),
			Description: "Panics mid-render; demonstrates panic containment",
		},
	}

	for _, entry := range entries {
		reg.Register(entry)
	}
}
