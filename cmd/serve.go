package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/rendershield/internal/renderer"
	"github.com/conneroisu/rendershield/internal/server"
	"github.com/conneroisu/rendershield/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the preview server with hot reload",
	Long: `Start the preview server. Components render through their boundaries, so a
failing component shows its fallback instead of an error page. Source changes
under the watched paths recreate boundaries (the only way a failed boundary
recovers) and push a reload to open preview pages.

Examples:
  rendershield serve
  rendershield serve --port 3000
  rendershield serve --no-overlay`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().Bool("no-overlay", false, "Disable the failure overlay")

	bindFlag(serveCmd.Flags(), "server.port", "port")
	bindFlag(serveCmd.Flags(), "server.host", "host")
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}

	if noOverlay, _ := cmd.Flags().GetBool("no-overlay"); noOverlay {
		rt.cfg.Preview.ErrorOverlay = false
	}

	svc := renderer.New(rt.registry, rt.logger)
	srv := server.New(rt.cfg, rt.registry, svc, rt.collector, rt.logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := startWatcher(ctx, rt); err != nil {
		// The server is still useful without hot reload
		rt.logger.Warn(ctx, err, "file watching disabled")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		rt.logger.Info(ctx, "shutting down preview server")
		cancel()
	}()

	fmt.Printf("Starting rendershield preview at http://%s:%d\n", rt.cfg.Server.Host, rt.cfg.Server.Port)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// startWatcher wires the file watcher to boundary refreshes: once changes
// settle, every boundary is replaced with a fresh healthy instance and
// absorbed failures are cleared. The refresh events emitted by the registry
// are what the server turns into reload broadcasts.
func startWatcher(ctx context.Context, rt *runtime) error {
	fw, err := watcher.New(time.Duration(rt.cfg.Watch.DebounceMs)*time.Millisecond, rt.logger)
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	fw.AddFilter(func(path string) bool {
		return watcher.TemplFilter(path) || watcher.GoFilter(path)
	})
	fw.AddFilter(watcher.ExcludeFilter(rt.cfg.Watch.ExcludePatterns))

	watching := 0
	for _, path := range rt.cfg.Watch.Paths {
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		if addErr := fw.AddRecursive(path); addErr != nil {
			rt.logger.Warn(ctx, addErr, "cannot watch path", "path", path)
			continue
		}
		watching++
	}

	if watching == 0 {
		fw.Stop()
		return fmt.Errorf("no watchable paths among %v", rt.cfg.Watch.Paths)
	}

	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		refreshed := rt.registry.RefreshAll()
		rt.collector.Clear()
		rt.logger.Info(ctx, "boundaries refreshed after source change",
			"changes", len(events),
			"boundaries", refreshed)
		return nil
	})

	if err := fw.Start(ctx); err != nil {
		fw.Stop()
		return fmt.Errorf("starting watcher: %w", err)
	}

	go func() {
		<-ctx.Done()
		_ = fw.Stop()
	}()

	return nil
}
