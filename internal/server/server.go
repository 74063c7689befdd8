// Package server implements the rendershield preview server.
//
// Every component page is rendered through its boundary, so a failing
// component shows its fallback instead of a broken page. Absorbed failures
// are surfaced through the overlay and the /health endpoint, and a WebSocket
// hub pushes full reloads when the watcher refreshes boundaries.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/conneroisu/rendershield/internal/config"
	"github.com/conneroisu/rendershield/internal/errors"
	"github.com/conneroisu/rendershield/internal/logging"
	"github.com/conneroisu/rendershield/internal/registry"
	"github.com/conneroisu/rendershield/internal/renderer"
)

// PreviewServer serves boundary-protected component previews.
type PreviewServer struct {
	config    *config.Config
	registry  *registry.BoundaryRegistry
	renderer  *renderer.Service
	collector *errors.FailureCollector
	hub       *Hub
	logger    logging.Logger

	httpServer *http.Server
}

// New creates a preview server over the given registry and collector.
func New(
	cfg *config.Config,
	reg *registry.BoundaryRegistry,
	svc *renderer.Service,
	collector *errors.FailureCollector,
	logger logging.Logger,
) *PreviewServer {
	if logger == nil {
		logger = logging.NewLogger(nil)
	}
	logger = logger.WithComponent("server")

	s := &PreviewServer{
		config:    cfg,
		registry:  reg,
		renderer:  svc,
		collector: collector,
		hub:       NewHub(cfg.Server.AllowedOrigins, logger),
		logger:    logger,
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the server's route table. Exposed for tests.
func (s *PreviewServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /component/{name}", s.handleComponent)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("/ws", s.hub.HandleWebSocket)

	return mux
}

// Start runs the server until ctx is cancelled or the listener fails.
func (s *PreviewServer) Start(ctx context.Context) error {
	go s.hub.Run(ctx)
	go s.watchRegistry(ctx)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.logger.Info(ctx, "preview server listening",
		"addr", s.httpServer.Addr,
		"components", s.registry.Count())

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the server and the WebSocket hub.
func (s *PreviewServer) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s.hub.Shutdown()
	return s.httpServer.Shutdown(shutdownCtx)
}

// watchRegistry subscribes to registry events and pushes a reload to
// connected pages whenever a component is registered, refreshed, or removed.
// A RefreshAll emits one event per component; pending events are drained
// first so the burst becomes a single reload.
func (s *PreviewServer) watchRegistry(ctx context.Context) {
	events := s.registry.Watch()
	defer s.registry.UnWatch(events)

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}

			for drained := false; !drained; {
				select {
				case _, ok = <-events:
					if !ok {
						return
					}
				default:
					drained = true
				}
			}

			s.hub.BroadcastReload()
		}
	}
}
