package eli

import (
	"log/slog"
	"reflect"
	"slices"
	"sync"
)

type entry struct {
	ctor   Constructor
	origin Origin
	cached bool

	mu       sync.Mutex
	built    bool
	instance any
}

// create runs the constructor. Under the cached policy the first result is
// kept and returned to every later caller. A constructor that panics leaves
// the entry unbuilt, so the next caller runs it again.
func (e *entry) create(args []reflect.Value) any {
	if !e.cached {
		return e.ctor.call(args)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.built {
		e.instance = e.ctor.call(args)
		e.built = true
	}
	return e.instance
}

// entryTable maps library → element name → entry for one signature.
type entryTable map[string]map[string]*entry

type familyTables struct {
	factories map[string]entryTable
	infos     map[string]map[string]*Info
}

// Registry holds every registered factory entry and Info, per family.
type Registry struct {
	mu       sync.RWMutex
	families map[*familyCore]*familyTables
	loaded   map[string]struct{}
}

func NewRegistry() *Registry {
	r := &Registry{}
	r.init()
	return r
}

func (r *Registry) init() {
	r.families = make(map[*familyCore]*familyTables)
	r.loaded = make(map[string]struct{})
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry that init-time registrations
// fill.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Reset empties the process-wide registry.
func Reset() {
	Default().Reset()
}

// Reset drops every entry, Info and loaded-library mark.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.init()
}

// IsLoaded reports whether any element of lib has been registered.
func (r *Registry) IsLoaded(lib string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.loaded[lib]
	return ok
}

// LoadedLibraries returns the sorted names of every library with at least
// one registered element.
func (r *Registry) LoadedLibraries() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.loaded))
	for lib := range r.loaded {
		out = append(out, lib)
	}
	slices.Sort(out)
	return out
}

// tablesLocked returns the family's tables, creating them on first use.
// Callers hold the exclusive lock; readers never create tables, so racing
// registrations converge on one instance.
func (r *Registry) tablesLocked(fc *familyCore) *familyTables {
	if t, ok := r.families[fc]; ok {
		return t
	}
	t := &familyTables{
		factories: make(map[string]entryTable),
		infos:     make(map[string]map[string]*Info),
	}
	r.families[fc] = t
	return t
}

// infoLibrary returns the Info table of lib, creating it when create is
// set. Callers hold the exclusive lock when create is set.
func (t *familyTables) infoLibrary(lib string, create bool) map[string]*Info {
	m, ok := t.infos[lib]
	if !ok && create {
		m = make(map[string]*Info)
		t.infos[lib] = m
	}
	return m
}

func (t *familyTables) factoryLibrary(sig, lib string, create bool) map[string]*entry {
	table, ok := t.factories[sig]
	if !ok {
		if !create {
			return nil
		}
		table = make(entryTable)
		t.factories[sig] = table
	}
	m, ok := table[lib]
	if !ok && create {
		m = make(map[string]*entry)
		table[lib] = m
	}
	return m
}

type binding struct {
	sig  Signature
	ctor Constructor
}

// Registration is a validated element ready to be stored.
type Registration struct {
	core     *familyCore
	info     *Info
	bindings []binding
}

type registrationKey struct {
	core               *familyCore
	sig, library, name string
}

// Commit stores every registration atomically. When any binding collides
// with a stored entry or with another registration in regs, nothing is
// stored.
func (r *Registry) Commit(regs ...*Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[registrationKey]struct{})
	for _, g := range regs {
		t := r.families[g.core]
		for _, b := range g.bindings {
			key := registrationKey{core: g.core, sig: b.sig.key, library: g.info.Library, name: g.info.Name}
			_, dup := seen[key]
			if t != nil && !dup {
				_, dup = t.factoryLibrary(b.sig.key, g.info.Library, false)[g.info.Name]
			}
			if dup {
				return &RegistrationError{Family: g.core.name, Library: g.info.Library, Element: g.info.Name, Err: ErrDuplicateRegistration}
			}
			seen[key] = struct{}{}
		}
	}
	for _, g := range regs {
		r.storeLocked(g)
	}
	return nil
}

func (r *Registry) storeLocked(g *Registration) {
	fc, info := g.core, g.info
	t := r.tablesLocked(fc)
	for _, b := range g.bindings {
		slog.Debug("Registering element.",
			"family", fc.name, "library", info.Library, "name", info.Name, "signature", b.sig.key)
		t.factoryLibrary(b.sig.key, info.Library, true)[info.Name] = &entry{
			ctor:   b.ctor,
			origin: info.Origin,
			cached: fc.allocation == AllocateCached,
		}
	}
	// Two registrations of one name under disjoint signatures share the
	// first Info.
	infos := t.infoLibrary(info.Library, true)
	if _, ok := infos[info.Name]; !ok {
		infos[info.Name] = info
	}
	r.loaded[info.Library] = struct{}{}
}

func (r *Registry) info(fc *familyCore, lib, name string) *Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.families[fc]
	if !ok {
		return nil
	}
	return t.infoLibrary(lib, false)[name]
}

func (r *Registry) libraries(fc *familyCore) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.families[fc]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(t.infos))
	for lib := range t.infos {
		out = append(out, lib)
	}
	slices.Sort(out)
	return out
}

func (r *Registry) elements(fc *familyCore, lib string) []*Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.families[fc]
	if !ok {
		return nil
	}
	infos := t.infoLibrary(lib, false)
	out := make([]*Info, 0, len(infos))
	for _, info := range infos {
		out = append(out, info)
	}
	slices.SortFunc(out, func(a, b *Info) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return out
}

// resolve finds the entry for the first family signature args satisfy. It
// returns the converted arguments so the caller can run the constructor
// after the lock is released.
func (r *Registry) resolve(fc *familyCore, lib, name string, args []any) (*entry, []reflect.Value, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fail := func(err error) (*entry, []reflect.Value, error) {
		return nil, nil, &LookupError{Family: fc.name, Library: lib, Element: name, Args: describeArgs(args), Err: err}
	}
	if _, ok := r.loaded[lib]; !ok {
		return fail(ErrLibraryNotFound)
	}
	t, ok := r.families[fc]
	if !ok {
		return fail(ErrElementNotFound)
	}
	if _, known := t.infoLibrary(lib, false)[name]; !known {
		return fail(ErrElementNotFound)
	}
	for _, sig := range fc.signatures {
		vals, ok := sig.Match(args)
		if !ok {
			continue
		}
		e := t.factoryLibrary(sig.key, lib, false)[name]
		if e == nil {
			continue
		}
		return e, vals, nil
	}
	return fail(ErrSignatureMismatch)
}
