package legacy

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/specialistvlad/eligo/internal/ctxlog"
)

// StaticLoader serves legacy blocks linked into the binary.
type StaticLoader struct {
	mu     sync.RWMutex
	blocks map[string]*Block
}

func NewStaticLoader() *StaticLoader {
	return &StaticLoader{blocks: make(map[string]*Block)}
}

var defaultStatic = NewStaticLoader()

// Static returns the process-wide static loader.
func Static() *StaticLoader { return defaultStatic }

// RegisterStatic adds b to the process-wide static loader. It is meant for
// init functions and panics on a duplicate library.
func RegisterStatic(lib string, b *Block) {
	if err := defaultStatic.Add(lib, b); err != nil {
		panic(err)
	}
}

func (l *StaticLoader) Add(lib string, b *Block) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.blocks[lib]; exists {
		return fmt.Errorf("legacy: static library %q registered twice", lib)
	}
	l.blocks[lib] = b
	return nil
}

// LoadLibrary returns the block of name, or nil when it is not linked in.
func (l *StaticLoader) LoadLibrary(ctx context.Context, name string, reportErrors bool) (*Block, error) {
	l.mu.RLock()
	b, ok := l.blocks[name]
	l.mu.RUnlock()
	if !ok {
		if reportErrors {
			ctxlog.FromContext(ctx).Debug("No static ELI block.", "library", name)
		}
		return nil, nil
	}
	return b, nil
}

// Libraries returns the sorted names of linked libraries.
func (l *StaticLoader) Libraries() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Sorted(maps.Keys(l.blocks))
}
