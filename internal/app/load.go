package app

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/specialistvlad/eligo/internal/ctxlog"
)

// discoverLibraries returns the sorted names of every library the app can
// reach: registered modern libraries, statically linked legacy blocks and
// manifests on the search path.
func (a *App) discoverLibraries(ctx context.Context) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	names := make(map[string]struct{})
	for _, lib := range a.registry.LoadedLibraries() {
		names[lib] = struct{}{}
	}
	for _, lib := range a.static.Libraries() {
		names[lib] = struct{}{}
	}
	manifests, err := a.manifest.Libraries()
	if err != nil {
		return nil, fmt.Errorf("failed to list manifests: %w", err)
	}
	for _, lib := range manifests {
		names[lib] = struct{}{}
	}
	out := slices.Sorted(maps.Keys(names))
	logger.Debug("Libraries discovered.", "count", len(out), "manifests", len(manifests))
	return out, nil
}

// LoadLibraries loads every reachable library through the factory.
func (a *App) LoadLibraries(ctx context.Context) ([]string, error) {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)

	names, err := a.discoverLibraries(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.factory.LoadUnloadedLibraries(names); err != nil {
		return nil, fmt.Errorf("failed to load libraries: %w", err)
	}
	if err := a.fatal(); err != nil {
		return nil, err
	}
	loaded := a.factory.LoadedLibraryNames()
	logger.Info("Libraries loaded.", "count", len(loaded))
	return loaded, nil
}
