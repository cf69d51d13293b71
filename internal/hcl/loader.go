package hcl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/eligo/internal/ctxlog"
	"github.com/specialistvlad/eligo/internal/fsutil"
	"github.com/specialistvlad/eligo/internal/legacy"

	gocache "github.com/patrickmn/go-cache"
)

// ManifestSuffix is appended to a library name to form its manifest file name.
const ManifestSuffix = ".eli.hcl"

const (
	// LookupExpiration bounds how long a found manifest path is remembered.
	// Misses are not remembered.
	LookupExpiration      = 30 * time.Second
	lookupCleanupInterval = time.Minute
)

// Loader finds and decodes library manifests on a search path.
type Loader struct {
	searchPaths []string
	symbols     *legacy.SymbolTable
	lookups     *gocache.Cache
}

// NewLoader returns a loader that searches paths in order and resolves
// allocation symbols in symbols.
func NewLoader(symbols *legacy.SymbolTable, paths ...string) *Loader {
	return &Loader{
		searchPaths: append([]string(nil), paths...),
		symbols:     symbols,
		lookups:     gocache.New(LookupExpiration, lookupCleanupInterval),
	}
}

// LoadLibrary returns the block described by the first <name>.eli.hcl found
// on the search path. Both <dir>/<name>.eli.hcl and <dir>/<name>/<name>.eli.hcl
// are considered. A library with no manifest yields nil and no error.
func (l *Loader) LoadLibrary(ctx context.Context, name string, reportErrors bool) (*legacy.Block, error) {
	logger := ctxlog.FromContext(ctx)

	file, err := l.find(name)
	if err != nil {
		return nil, err
	}
	if file == "" {
		if reportErrors {
			logger.Debug("No ELI manifest found.", "library", name, "search_paths", l.searchPaths)
		}
		return nil, nil
	}
	logger.Debug("Loading ELI manifest.", "library", name, "file", file)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse ELI manifest %s: %w", file, diags)
	}
	var root fileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode ELI manifest %s: %w", file, diags)
	}

	var lib *libraryBlock
	for _, candidate := range root.Libraries {
		if candidate.Name == name {
			lib = candidate
			break
		}
	}
	if lib == nil {
		return nil, fmt.Errorf("ELI manifest %s has no library %q block", file, name)
	}

	block, err := l.translateLibrary(lib)
	if err != nil {
		return nil, fmt.Errorf("ELI manifest %s: %w", file, err)
	}
	logger.Debug("ELI manifest loaded.", "library", name,
		"components", len(block.Components), "subcomponents", len(block.SubComponents),
		"modules", len(block.Modules), "partitioners", len(block.Partitioners), "generators", len(block.Generators))
	return block, nil
}

// Libraries lists every library with a manifest a search path can serve:
// <dir>/<name>.eli.hcl or <dir>/<name>/<name>.eli.hcl.
func (l *Loader) Libraries() ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	for _, dir := range l.searchPaths {
		files, err := fsutil.FindFilesByExtension(dir, ManifestSuffix, 1)
		if err != nil {
			return nil, fmt.Errorf("error listing manifests in %s: %w", dir, err)
		}
		for _, file := range files {
			name := strings.TrimSuffix(filepath.Base(file), ManifestSuffix)
			if parent := filepath.Dir(file); parent != filepath.Clean(dir) && filepath.Base(parent) != name {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out, nil
}

// find returns the manifest path of name, or "" when there is none.
func (l *Loader) find(name string) (string, error) {
	if v, ok := l.lookups.Get(name); ok {
		if path, ok := v.(string); ok {
			return path, nil
		}
	}
	path, err := l.search(name)
	if err != nil {
		return "", err
	}
	if path != "" {
		l.lookups.SetDefault(name, path)
	}
	return path, nil
}

func (l *Loader) search(name string) (string, error) {
	for _, dir := range l.searchPaths {
		for _, candidate := range []string{
			filepath.Join(dir, name+ManifestSuffix),
			filepath.Join(dir, name, name+ManifestSuffix),
		} {
			info, err := os.Stat(candidate)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue // A search path without this library is not an error.
				}
				return "", fmt.Errorf("error accessing path %s: %w", candidate, err)
			}
			if !info.IsDir() {
				return candidate, nil
			}
		}
	}
	return "", nil
}
