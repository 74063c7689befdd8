// Package renderer produces HTML for boundary-protected components.
//
// The service looks a component up in the registry, renders it through its
// boundary (so a failing subtree yields its fallback, never an error page),
// and wraps the result in the preview page shell with the live-reload script
// and, when enabled, the failure overlay.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/conneroisu/rendershield/internal/logging"
	"github.com/conneroisu/rendershield/internal/registry"
)

var (
	// ErrNotFound reports a component name with no registry entry.
	ErrNotFound = errors.New("component not found")
	// ErrInvalidName reports a component name that failed validation.
	ErrInvalidName = errors.New("invalid component name")
)

// Service renders registered components through their boundaries.
type Service struct {
	registry *registry.BoundaryRegistry
	logger   logging.Logger
}

// New creates a render service over the given registry.
func New(reg *registry.BoundaryRegistry, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewLogger(nil)
	}

	return &Service{
		registry: reg,
		logger:   logger.WithComponent("renderer"),
	}
}

// RenderComponent renders a component by name through its boundary and
// returns the HTML. A subtree failure is absorbed by the boundary and shows
// up here as fallback HTML, not as an error; errors are reserved for unknown
// names, invalid names, and fallback-path failures.
func (s *Service) RenderComponent(ctx context.Context, name string) (string, error) {
	if err := validateComponentName(name); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidName, err)
	}

	b, exists := s.registry.Boundary(name)
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	var sb strings.Builder
	if err := b.Render(ctx, &sb); err != nil {
		return "", fmt.Errorf("rendering component %s: %w", name, err)
	}

	if b.Failed() {
		s.logger.Warn(ctx, b.LastError(), "boundary served fallback output", "name", name)
	}

	return sb.String(), nil
}

// RenderPage wraps component HTML in the full preview page shell. The
// overlay fragment is injected verbatim when non-empty.
func (s *Service) RenderPage(title, name, body, overlay string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>%s - %s</title>
    <style>
        body { font-family: -apple-system, sans-serif; background: #f9fafb; margin: 0; padding: 2rem; }
        .shell { max-width: 960px; margin: 0 auto; }
        .shell-header { background: white; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,0.1); padding: 1.5rem; margin-bottom: 1.5rem; }
        .shell-header h1 { margin: 0 0 0.25rem 0; font-size: 1.5rem; color: #1f2937; }
        .shell-header p { margin: 0; color: #6b7280; font-size: 0.875rem; }
        .shell-body { background: white; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,0.1); padding: 1.5rem; }
    </style>
</head>
<body>
    <div class="shell">
        <div class="shell-header">
            <h1>Preview: %s</h1>
            <p>Rendered inside a boundary; failures substitute the fallback.</p>
        </div>
        <div class="shell-body">
            %s
        </div>
    </div>
    %s
    <script>
        // WebSocket connection for live reload
        const ws = new WebSocket('ws://' + window.location.host + '/ws');
        ws.onmessage = function(event) {
            const message = JSON.parse(event.data);
            if (message.type === 'full_reload') {
                window.location.reload();
            }
        };
    </script>
</body>
</html>`, name, title, name, body, overlay)
}

// validateComponentName validates component name to prevent path traversal
func validateComponentName(name string) error {
	cleanName := filepath.Clean(name)

	if strings.Contains(cleanName, "..") {
		return fmt.Errorf("path traversal attempt detected: %s", name)
	}

	if filepath.IsAbs(cleanName) {
		return fmt.Errorf("absolute path not allowed: %s", name)
	}

	if strings.ContainsRune(cleanName, os.PathSeparator) {
		return fmt.Errorf("path separators not allowed in component name: %s", name)
	}

	if cleanName == "" || cleanName == "." {
		return fmt.Errorf("empty or invalid component name: %s", name)
	}

	return nil
}
