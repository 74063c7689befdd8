// Package internal contains the core implementation packages for rendershield.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the rendershield CLI tool.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - boundary: Render boundaries containing subtree failures with fallback substitution
//   - config: Configuration management with validation and security
//   - demo: Built-in components exercising the boundary paths
//   - errors: Render failure taxonomy, collection, and HTML overlay generation
//   - registry: Component registry pairing entries with live boundaries
//   - renderer: Boundary-protected rendering and preview page generation
//   - server: Preview HTTP server with WebSocket live reload
//   - watcher: File system monitoring with debouncing
//
// # Inter-Package Communication
//
// The boundary package owns the failure state machine; the registry owns
// boundary lifetimes (a refresh is the only reset); the errors package
// carries absorbed failures to the server's overlay. Shared types live in
// the types package to avoid circular dependencies.
package internal
