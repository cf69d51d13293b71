package factory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/eligo/internal/ctxlog"
	"github.com/specialistvlad/eligo/internal/element"
	"github.com/specialistvlad/eligo/internal/eli"
	"github.com/specialistvlad/eligo/internal/legacy"
	"github.com/specialistvlad/eligo/internal/params"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var (
	ErrFactoryInitialized = errors.New("already initialized a factory")
	ErrEmptyType          = errors.New("attempted to load an empty type name, did you miss a type string in your input deck?")
)

// FatalFunc handles a condition the host cannot recover from. The default
// logs the error and exits the process; when a handler returns, the failing
// operation returns its zero value.
type FatalFunc func(err error)

type Option func(*Factory)

func WithLogger(l *slog.Logger) Option {
	return func(f *Factory) { f.logger = l }
}

func WithFatal(fn FatalFunc) Option {
	return func(f *Factory) { f.fatal = fn }
}

// WithRegistry binds the factory to r instead of eli.Default.
func WithRegistry(r *eli.Registry) Option {
	return func(f *Factory) { f.registry = r }
}

// WithMetrics registers the factory's collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(f *Factory) { f.metricsReg = reg }
}

// LoadConcurrency bounds LoadUnloadedLibraries.
const LoadConcurrency = 4

// Factory loads element libraries and constructs their elements.
type Factory struct {
	loader     Loader
	registry   *eli.Registry
	fams       element.Bound
	logger     *slog.Logger
	fatal      FatalFunc
	metricsReg prometheus.Registerer
	metrics    *metrics

	loads singleflight.Group

	// buildMu serializes component construction so loadingComponentType
	// names exactly one component.
	buildMu sync.Mutex

	mu                   sync.Mutex
	loaded               map[string]*legacy.Block
	generators           map[string]element.GenerateFunc
	loadingComponentType string
}

var (
	instanceMu sync.Mutex
	instance   *Factory
)

// New creates the process's factory. Only one factory may exist at a time;
// Close releases the slot.
func New(loader Loader, opts ...Option) (*Factory, error) {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance != nil {
		return nil, ErrFactoryInitialized
	}

	f := &Factory{
		loader:     loader,
		loaded:     make(map[string]*legacy.Block),
		generators: make(map[string]element.GenerateFunc),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	if f.registry == nil {
		f.registry = eli.Default()
	}
	if f.fatal == nil {
		logger := f.logger
		f.fatal = func(err error) {
			logger.Error("Fatal element factory error.", "error", err)
			os.Exit(1)
		}
	}
	if f.loader == nil {
		f.loader = Chain{}
	}
	f.fams = element.Bind(f.registry)
	f.metrics = newMetrics(f.metricsReg)

	instance = f
	return f, nil
}

// Instance returns the current factory, or nil.
func Instance() *Factory {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	return instance
}

// Close releases the process-wide factory slot.
func (f *Factory) Close() {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance == f {
		instance = nil
	}
}

// Registry returns the registry the factory constructs from.
func (f *Factory) Registry() *eli.Registry { return f.registry }

// Families returns the element families bound to the factory's registry.
func (f *Factory) Families() element.Bound { return f.fams }

func (f *Factory) fail(err error) {
	f.metrics.failures.WithLabelValues(failureReason(err)).Inc()
	f.fatal(err)
}

// missing builds the error for a type whose Info lookup came back empty.
func (f *Factory) missing(family, lib, elem string) error {
	err := eli.ErrElementNotFound
	if !f.registry.IsLoaded(lib) {
		err = eli.ErrLibraryNotFound
	}
	return &eli.LookupError{Family: family, Library: lib, Element: elem, Err: err}
}

func (f *Factory) ctx() context.Context {
	return ctxlog.WithLogger(context.Background(), f.logger)
}

// findLibrary returns the block of lib, loading it on first use. Concurrent
// first loads of one library share a single loader call.
func (f *Factory) findLibrary(lib string, showErrors bool) (*legacy.Block, error) {
	f.mu.Lock()
	block, ok := f.loaded[lib]
	f.mu.Unlock()
	if ok {
		return block, nil
	}

	v, err, _ := f.loads.Do(lib, func() (any, error) {
		f.mu.Lock()
		block, ok := f.loaded[lib]
		f.mu.Unlock()
		if ok {
			return block, nil
		}

		block, err := f.loadLibrary(lib, showErrors)
		if err != nil || block == nil {
			return nil, err
		}
		if !block.IsEmpty() {
			gens, err := legacy.Ingest(f.registry, lib, block)
			if err != nil {
				f.metrics.libraryLoads.WithLabelValues("error").Inc()
				return nil, fmt.Errorf("loading library %q: %w", lib, err)
			}
			f.mu.Lock()
			maps.Copy(f.generators, gens)
			f.mu.Unlock()
		}

		f.mu.Lock()
		f.loaded[lib] = block
		f.mu.Unlock()
		outcome := "legacy"
		if block == legacy.Empty {
			outcome = "modern"
		}
		f.metrics.libraryLoads.WithLabelValues(outcome).Inc()
		f.logger.Debug("Loaded element library.", "library", lib, "protocol", outcome)
		return block, nil
	})
	if err != nil {
		return nil, err
	}
	block, _ = v.(*legacy.Block)
	return block, nil
}

func (f *Factory) loadLibrary(lib string, showErrors bool) (*legacy.Block, error) {
	block, err := f.loader.LoadLibrary(f.ctx(), lib, showErrors)
	if err != nil {
		f.metrics.libraryLoads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("loading library %q: %w", lib, err)
	}
	if block != nil {
		return block, nil
	}
	if f.registry.IsLoaded(lib) {
		return legacy.Empty, nil
	}
	f.metrics.libraryLoads.WithLabelValues("missing").Inc()
	if showErrors {
		f.logger.Warn("Could not find ELI block.", "library", lib)
	}
	return nil, nil
}

// RequireLibrary loads lib. Load errors are fatal; a missing library is not,
// since the construction that needs it reports a better message.
func (f *Factory) RequireLibrary(lib string) {
	if _, err := f.findLibrary(lib, true); err != nil {
		f.fail(err)
	}
}

// HasLibrary reports whether lib can be loaded.
func (f *Factory) HasLibrary(lib string) bool {
	block, err := f.findLibrary(lib, true)
	return err == nil && block != nil
}

// LoadedLibraryNames returns the sorted names of libraries loaded so far.
func (f *Factory) LoadedLibraryNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Sorted(maps.Keys(f.loaded))
}

// LoadUnloadedLibraries loads every named library that is not loaded yet.
// Missing libraries are skipped silently; load errors are returned.
func (f *Factory) LoadUnloadedLibraries(names []string) error {
	var g errgroup.Group
	g.SetLimit(LoadConcurrency)
	for _, name := range names {
		g.Go(func() error {
			_, err := f.findLibrary(name, false)
			return err
		})
	}
	return g.Wait()
}

// RequireEvent makes sure the library defining the event is loaded.
func (f *Factory) RequireEvent(name string) {
	lib, _ := ParseLoadName(name)
	f.RequireLibrary(lib)
}

// Create constructs typ from fam, passing args to the constructor. The
// element's documented parameters are pushed onto p's allowed-key stack for
// the duration of the call. Failures go through the fatal handler and return
// the zero value.
func Create[B any](f *Factory, fam *eli.Family[B], typ string, p *params.Params, args ...any) B {
	var zero B
	if typ == "" {
		f.fail(ErrEmptyType)
		return zero
	}
	lib, elem := ParseLoadName(typ)
	f.RequireLibrary(lib)

	fam = fam.WithRegistry(f.registry)
	info := fam.Info(lib, elem)
	if info == nil {
		f.fail(f.missing(fam.Name(), lib, elem))
		return zero
	}
	if p != nil {
		p.PushAllowedKeys(info.ParamNames())
		defer p.PopAllowedKeys()
	}
	out, err := fam.Create(lib, elem, args...)
	if err != nil {
		f.fail(err)
		return zero
	}
	f.metrics.constructions.WithLabelValues(fam.Name(), lib).Inc()
	return out
}

// CreateComponent constructs the component named by typ. While it runs,
// statistic queries with an empty type refer to typ. Component construction
// is serialized: a component constructor may create subcomponents and
// modules but must not call CreateComponent.
func (f *Factory) CreateComponent(id element.ComponentID, typ string, p *params.Params) element.Component {
	f.buildMu.Lock()
	defer f.buildMu.Unlock()

	f.setLoadingComponent(typ)
	defer f.setLoadingComponent("")

	return Create(f, element.Components, typ, p, id, p)
}

func (f *Factory) setLoadingComponent(typ string) {
	f.mu.Lock()
	f.loadingComponentType = typ
	f.mu.Unlock()
}

// CreateSubComponent constructs the subcomponent named by typ for owner.
func (f *Factory) CreateSubComponent(typ string, owner element.Component, p *params.Params) element.SubComponent {
	return Create(f, element.SubComponents, typ, p, owner, p)
}

// CreateModule constructs the module named by typ.
func (f *Factory) CreateModule(typ string, p *params.Params) element.Module {
	return Create(f, element.Modules, typ, p, p)
}

// CreateModuleWithComponent constructs the module named by typ for owner.
func (f *Factory) CreateModuleWithComponent(typ string, owner element.Component, p *params.Params) element.Module {
	return Create(f, element.Modules, typ, p, owner, p)
}

// CreateStatisticOutput constructs the statistic output named by typ.
func (f *Factory) CreateStatisticOutput(typ string, p *params.Params) element.StatisticOutput {
	return Create(f, element.StatisticOutputs, typ, p, p)
}

// CreatePartitioner constructs the partitioner named by name.
func (f *Factory) CreatePartitioner(name string, total, mine element.RankInfo, verbosity int) element.Partitioner {
	return Create(f, element.Partitioners, name, nil, total, mine, verbosity)
}

// GetGenerator returns the legacy generator named by name.
func (f *Factory) GetGenerator(name string) element.GenerateFunc {
	lib, elem := ParseLoadName(name)
	f.RequireLibrary(lib)

	key := lib + "." + elem
	f.mu.Lock()
	gen, ok := f.generators[key]
	f.mu.Unlock()
	if !ok {
		f.fail(&eli.LookupError{Family: "Generator", Library: lib, Element: elem, Err: eli.ErrElementNotFound})
		return nil
	}
	return gen
}

// GetPythonModule returns the python module of the library named by name,
// or nil when the library has none. The module is built once per library.
func (f *Factory) GetPythonModule(name string) element.PythonModule {
	lib, elem := ParseLoadName(name)
	if f.fams.PythonModules.Info(lib, elem) == nil {
		return nil
	}
	mod, err := f.fams.PythonModules.Create(lib, lib, lib)
	if err != nil {
		f.fail(err)
		return nil
	}
	return mod
}

// infoSource is the Info lookup every family provides.
type infoSource interface {
	Name() string
	Info(lib, name string) *eli.Info
}

// lookupInfo resolves typ, or the component currently being constructed
// when typ is empty, in the given families in order.
func (f *Factory) lookupInfo(typ string, families ...infoSource) *eli.Info {
	if typ == "" {
		f.mu.Lock()
		typ = f.loadingComponentType
		f.mu.Unlock()
	}
	lib, elem := ParseLoadName(typ)
	f.RequireLibrary(lib)

	for _, fam := range families {
		if info := fam.Info(lib, elem); info != nil {
			return info
		}
	}
	f.fail(f.missing(families[0].Name(), lib, elem))
	return nil
}

// IsPortNameValid reports whether port matches one of the declared port
// patterns of the component or subcomponent typ.
func (f *Factory) IsPortNameValid(typ, port string) bool {
	info := f.lookupInfo(typ, f.fams.Components, f.fams.SubComponents)
	if info == nil {
		return false
	}
	for _, def := range info.PortNames() {
		if checkPort(def, port) {
			return true
		}
	}
	return false
}

// DoesSubComponentSlotExist reports whether typ declares the named slot.
func (f *Factory) DoesSubComponentSlotExist(typ, slot string) bool {
	info := f.lookupInfo(typ, f.fams.Components, f.fams.SubComponents)
	if info == nil {
		return false
	}
	for _, s := range info.SubComponentSlots() {
		if s.Name == slot {
			return true
		}
	}
	return false
}

// DoesComponentInfoStatisticNameExist reports whether component typ declares
// the statistic. An empty typ means the component being constructed.
func (f *Factory) DoesComponentInfoStatisticNameExist(typ, stat string) bool {
	info := f.lookupInfo(typ, f.fams.Components)
	return info != nil && slices.Contains(info.StatNames(), stat)
}

// DoesSubComponentInfoStatisticNameExist is the subcomponent counterpart of
// DoesComponentInfoStatisticNameExist.
func (f *Factory) DoesSubComponentInfoStatisticNameExist(typ, stat string) bool {
	info := f.lookupInfo(typ, f.fams.SubComponents)
	return info != nil && slices.Contains(info.StatNames(), stat)
}

// GetComponentInfoStatisticEnableLevel returns the enable level of a
// statistic of component or subcomponent typ, or 0 when it is undeclared.
func (f *Factory) GetComponentInfoStatisticEnableLevel(typ, stat string) uint8 {
	info := f.lookupInfo(typ, f.fams.Components, f.fams.SubComponents)
	if info == nil {
		return 0
	}
	spec, _ := info.Statistic(stat)
	return spec.EnableLevel
}

// GetComponentInfoStatisticUnits returns the units of a statistic of
// component or subcomponent typ, or "" when it is undeclared.
func (f *Factory) GetComponentInfoStatisticUnits(typ, stat string) string {
	info := f.lookupInfo(typ, f.fams.Components, f.fams.SubComponents)
	if info == nil {
		return ""
	}
	spec, _ := info.Statistic(stat)
	return spec.Units
}
