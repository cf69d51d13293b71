package legacy

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"
)

// SymbolTable maps allocation symbol names, as written in library manifests,
// to Go functions.
type SymbolTable struct {
	mu   sync.RWMutex
	syms map[string]any
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{syms: make(map[string]any)}
}

var defaultSymbols = NewSymbolTable()

// Symbols returns the process-wide symbol table.
func Symbols() *SymbolTable { return defaultSymbols }

// RegisterSymbol adds fn to the process-wide table. It is meant for init
// functions and panics on a duplicate name.
func RegisterSymbol(name string, fn any) {
	defaultSymbols.Register(name, fn)
}

func (t *SymbolTable) Register(name string, fn any) {
	if fn == nil || reflect.TypeOf(fn).Kind() != reflect.Func {
		panic(fmt.Sprintf("legacy: symbol %q is not a function", name))
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.syms[name]; exists {
		panic(fmt.Sprintf("legacy: symbol %q registered twice", name))
	}
	slog.Debug("Registering legacy symbol.", "name", name)
	t.syms[name] = fn
}

func (t *SymbolTable) Lookup(name string) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fn, ok := t.syms[name]
	return fn, ok
}

// Names returns the sorted symbol names.
func (t *SymbolTable) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.syms))
	for name := range t.syms {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Resolve looks name up and checks that it has the function type F.
func Resolve[F any](t *SymbolTable, name string) (F, error) {
	var zero F
	raw, ok := t.Lookup(name)
	if !ok {
		return zero, fmt.Errorf("symbol %q is not defined", name)
	}
	fn, ok := raw.(F)
	if !ok {
		return zero, fmt.Errorf("symbol %q has type %T, want %s", name, raw, reflect.TypeFor[F]())
	}
	return fn, nil
}
