package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/rendershield/internal/renderer"
)

var titleCaser = cases.Title(language.English)

// handleIndex lists registered components with their boundary states.
func (s *PreviewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	entries := s.registry.GetAll()

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var items strings.Builder
	for _, name := range names {
		entry := entries[name]

		state := "healthy"
		if b, ok := s.registry.Boundary(name); ok && b.Failed() {
			state = "failed"
		}

		description := entry.Description
		if description == "" {
			description = "No description"
		}

		items.WriteString(fmt.Sprintf(`
        <li class="item %s">
            <a href="/component/%s">%s</a>
            <span class="state">%s</span>
            <p>%s</p>
        </li>`,
			state,
			html.EscapeString(name),
			html.EscapeString(displayName(name)),
			state,
			html.EscapeString(description)))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
    <title>%s</title>
    <style>
        body { font-family: -apple-system, sans-serif; background: #f9fafb; margin: 0; padding: 2rem; }
        .wrap { max-width: 720px; margin: 0 auto; }
        h1 { color: #1f2937; }
        ul { list-style: none; padding: 0; }
        .item { background: white; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,0.1); padding: 1rem 1.5rem; margin-bottom: 0.75rem; }
        .item a { font-weight: 600; color: #2563eb; text-decoration: none; }
        .item .state { float: right; font-size: 0.75rem; padding: 0.125rem 0.5rem; border-radius: 9999px; }
        .item.healthy .state { background: #d1fae5; color: #065f46; }
        .item.failed .state { background: #fee2e2; color: #991b1b; }
        .item p { margin: 0.25rem 0 0 0; color: #6b7280; font-size: 0.875rem; }
    </style>
</head>
<body>
    <div class="wrap">
        <h1>%s</h1>
        <ul>%s</ul>
    </div>
</body>
</html>`, html.EscapeString(s.config.Preview.Title), html.EscapeString(s.config.Preview.Title), items.String())
}

// displayName humanizes a component name for the index: lowercase names are
// title-cased ("button" -> "Button"), CamelCase names are left alone.
func displayName(name string) string {
	if name == "" {
		return name
	}
	if strings.ToLower(name) == name {
		return titleCaser.String(name)
	}
	return name
}

// handleComponent renders one component through its boundary.
func (s *PreviewServer) handleComponent(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	body, err := s.renderer.RenderComponent(r.Context(), name)
	if err != nil {
		if errors.Is(err, renderer.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if errors.Is(err, renderer.ErrInvalidName) {
			http.Error(w, "invalid component name", http.StatusBadRequest)
			return
		}
		s.logger.Error(r.Context(), err, "component render failed past the boundary", "name", name)
		http.Error(w, "failed to render component", http.StatusInternalServerError)
		return
	}

	overlay := ""
	if s.config.Preview.ErrorOverlay && s.collector != nil {
		overlay = s.collector.Overlay()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, s.renderer.RenderPage(s.config.Preview.Title, name, body, overlay))
}

// handleHealth reports server liveness and boundary states.
func (s *PreviewServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	failed := make([]string, 0)
	for name := range s.registry.GetAll() {
		if b, ok := s.registry.Boundary(name); ok && b.Failed() {
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)

	status := map[string]interface{}{
		"status":     "ok",
		"components": s.registry.Count(),
		"failed":     failed,
	}
	if s.collector != nil {
		status["absorbed_failures"] = s.collector.Count()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		s.logger.Error(r.Context(), err, "writing health response")
	}
}
