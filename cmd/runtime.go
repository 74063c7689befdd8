package cmd

import (
	"fmt"

	"github.com/conneroisu/rendershield/internal/boundary"
	"github.com/conneroisu/rendershield/internal/config"
	"github.com/conneroisu/rendershield/internal/demo"
	"github.com/conneroisu/rendershield/internal/errors"
	"github.com/conneroisu/rendershield/internal/logging"
	"github.com/conneroisu/rendershield/internal/registry"
)

// runtime bundles the pieces every command needs: loaded config, logger,
// failure collector, and a registry populated with the demo components.
type runtime struct {
	cfg       *config.Config
	logger    logging.Logger
	collector *errors.FailureCollector
	registry  *registry.BoundaryRegistry
}

func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	})

	collector := errors.NewFailureCollector()

	var opts []boundary.Option
	if cfg.Boundary.FallbackPolicy == config.FallbackPolicyStatic {
		opts = append(opts, boundary.WithStaticFallback(cfg.Boundary.StaticFallback))
	}

	reg := registry.New(collector.Add, opts...)
	demo.Register(reg)

	return &runtime{
		cfg:       cfg,
		logger:    logger,
		collector: collector,
		registry:  reg,
	}, nil
}
