package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/specialistvlad/eligo/internal/ctxlog"
	"github.com/specialistvlad/eligo/internal/eli"
	"github.com/specialistvlad/eligo/internal/factory"
	"github.com/specialistvlad/eligo/internal/hcl"
	"github.com/specialistvlad/eligo/internal/legacy"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *eli.Registry
	static   *legacy.StaticLoader
	manifest *hcl.Loader
	factory  *factory.Factory
	metrics  *prometheus.Registry

	mu     sync.Mutex
	fatals []error
}

// NewApp is the constructor for the main application. It builds an isolated
// logger, registry and factory; modules default to the libraries compiled
// into the binary. Documentation goes to outW, logs and metrics to logW.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	reg := eli.NewRegistry()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "libraries", reg.LoadedLibraries())

	a := &App{
		outW:     outW,
		logW:     logW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		static:   legacy.Static(),
		manifest: hcl.NewLoader(legacy.Symbols(), cfg.SearchPaths...),
		metrics:  prometheus.NewRegistry(),
	}

	f, err := factory.New(
		factory.Chain{a.static, a.manifest},
		factory.WithRegistry(reg),
		factory.WithLogger(logger),
		factory.WithMetrics(a.metrics),
		factory.WithFatal(a.recordFatal),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create element factory: %w", err)
	}
	a.factory = f
	logger.Debug("Element factory created.", "search_paths", cfg.SearchPaths)
	return a, nil
}

// recordFatal collects factory failures so Run can report them instead of
// exiting the process.
func (a *App) recordFatal(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fatals = append(a.fatals, err)
}

func (a *App) fatal() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.fatals) == 0 {
		return nil
	}
	return a.fatals[0]
}

// Close releases the process-wide factory.
func (a *App) Close() {
	a.factory.Close()
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *eli.Registry {
	return a.registry
}

// Factory returns the application's element factory.
func (a *App) Factory() *factory.Factory {
	return a.factory
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
