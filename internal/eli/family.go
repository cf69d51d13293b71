package eli

import (
	"fmt"
	"reflect"
	"runtime"
)

// Allocation selects how a family's entries produce instances.
type Allocation int

const (
	// AllocateFresh runs the constructor on every Create.
	AllocateFresh Allocation = iota
	// AllocateCached runs the constructor once per entry and hands the
	// same instance to every caller.
	AllocateCached
)

func (a Allocation) String() string {
	if a == AllocateCached {
		return "cached"
	}
	return "fresh"
}

type familyCore struct {
	name         string
	base         reflect.Type
	signatures   []Signature
	capabilities []CapabilityKind
	allocation   Allocation
}

// FamilyOption configures a family at declaration time.
type FamilyOption func(*familyCore)

// WithSignatures declares the accepted constructor signatures, in dispatch
// order.
func WithSignatures(sigs ...Signature) FamilyOption {
	return func(fc *familyCore) {
		fc.signatures = append(fc.signatures, sigs...)
	}
}

// WithCapabilities declares the capability kinds every Info of the family
// carries, in rendering order.
func WithCapabilities(kinds ...CapabilityKind) FamilyOption {
	return func(fc *familyCore) {
		fc.capabilities = append(fc.capabilities, kinds...)
	}
}

func WithAllocation(a Allocation) FamilyOption {
	return func(fc *familyCore) {
		fc.allocation = a
	}
}

// Catalog is the type-independent read view of a family.
type Catalog interface {
	Name() string
	Libraries() []string
	Elements(lib string) []*Info
}

// Family is the registration and lookup surface of one abstract base B.
type Family[B any] struct {
	core *familyCore
	reg  *Registry
}

// NewFamily declares a family. B must be an interface type.
func NewFamily[B any](name string, opts ...FamilyOption) *Family[B] {
	base := reflect.TypeFor[B]()
	if base.Kind() != reflect.Interface {
		panic(fmt.Sprintf("eli: family %s base %s is not an interface", name, base))
	}
	fc := &familyCore{name: name, base: base}
	for _, opt := range opts {
		opt(fc)
	}
	return &Family[B]{core: fc}
}

func (f *Family[B]) Name() string           { return f.core.name }
func (f *Family[B]) Allocation() Allocation { return f.core.allocation }

func (f *Family[B]) Signatures() []Signature {
	return append([]Signature(nil), f.core.signatures...)
}

func (f *Family[B]) Capabilities() []CapabilityKind {
	return append([]CapabilityKind(nil), f.core.capabilities...)
}

// Registry returns the registry the family stores into.
func (f *Family[B]) Registry() *Registry {
	if f.reg != nil {
		return f.reg
	}
	return Default()
}

// WithRegistry returns the same family bound to r.
func (f *Family[B]) WithRegistry(r *Registry) *Family[B] {
	return &Family[B]{core: f.core, reg: r}
}

// Register adds el to the registry and panics on failure. It is meant for
// init functions, where a failed registration is a build defect.
func (f *Family[B]) Register(el Element) {
	if el.Source == "" {
		el.Source = callerSource(2)
	}
	if err := f.register(el, OriginModern); err != nil {
		panic(err)
	}
}

// TryRegister adds el to the registry.
func (f *Family[B]) TryRegister(el Element) error {
	if el.Source == "" {
		el.Source = callerSource(2)
	}
	return f.register(el, OriginModern)
}

// RegisterLegacy adds an element converted from a legacy library. Its
// provenance fields are reported as unknown.
func (f *Family[B]) RegisterLegacy(el Element) error {
	reg, err := f.PrepareLegacy(el)
	if err != nil {
		return err
	}
	return f.Registry().Commit(reg)
}

// PrepareLegacy validates a legacy element without storing it. Pass the
// result to Registry.Commit together with the rest of its library.
func (f *Family[B]) PrepareLegacy(el Element) (*Registration, error) {
	el.Source = Unknown
	ctors := make([]Constructor, len(el.Constructors))
	for i, c := range el.Constructors {
		ctors[i] = LegacyFunc(c)
	}
	el.Constructors = ctors
	return f.prepare(el, OriginLegacy)
}

func callerSource(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Unknown
	}
	return fmt.Sprintf("%s:%d", file, line)
}

func (f *Family[B]) register(el Element, origin Origin) error {
	reg, err := f.prepare(el, origin)
	if err != nil {
		return err
	}
	return f.Registry().Commit(reg)
}

// prepare checks el against the family and builds its Info and bindings.
func (f *Family[B]) prepare(el Element, origin Origin) (*Registration, error) {
	fail := func(format string, args ...any) error {
		return &RegistrationError{
			Family: f.core.name, Library: el.Library, Element: el.Name,
			Err: fmt.Errorf("%w: "+format, append([]any{ErrInvalidElement}, args...)...),
		}
	}
	if el.Library == "" || el.Name == "" {
		return nil, fail("library and name are required")
	}

	var bindings []binding
	for _, c := range el.Constructors {
		if c.call == nil {
			return nil, fail("constructor without function")
		}
		if !c.result.AssignableTo(f.core.base) {
			return nil, fail("constructor result %s does not implement %s", c.result, f.core.base)
		}
		bound := false
		for _, sig := range f.core.signatures {
			if sig.equal(c.params) {
				bindings = append(bindings, binding{sig: sig, ctor: c})
				bound = true
				break
			}
		}
		if !bound {
			return nil, fail("constructor %s matches no %s signature", typeListKey(c.params), f.core.name)
		}
	}
	if len(bindings) == 0 {
		return nil, &RegistrationError{Family: f.core.name, Library: el.Library, Element: el.Name, Err: ErrNoValidConstructor}
	}

	info := &Info{
		Descriptor: Descriptor{
			Library:     el.Library,
			Name:        el.Name,
			Description: el.Description,
			Version:     el.Version,
			Interface:   el.Interface,
			Source:      el.Source,
			BuildDate:   Unknown,
		},
		Origin: origin,
		caps:   buildCapabilities(f.core.capabilities, &el, bindings[0].ctor.result),
	}
	if origin == OriginModern {
		info.BuildDate = BuildDate()
		info.Protocol = ProtocolVersion
	}
	if info.Interface == "" {
		info.Interface = info.InterfaceName()
	}
	return &Registration{core: f.core, info: info, bindings: bindings}, nil
}

// Info returns the metadata of lib.name, or nil when it is not registered.
func (f *Family[B]) Info(lib, name string) *Info {
	return f.Registry().info(f.core, lib, name)
}

// Has reports whether lib.name is registered in this family.
func (f *Family[B]) Has(lib, name string) bool {
	return f.Info(lib, name) != nil
}

// Libraries returns the sorted names of libraries with elements in this
// family.
func (f *Family[B]) Libraries() []string {
	return f.Registry().libraries(f.core)
}

// Elements returns the Infos of lib sorted by name.
func (f *Family[B]) Elements(lib string) []*Info {
	return f.Registry().elements(f.core, lib)
}

// Create constructs lib.name with the first declared signature that args
// satisfy and the element provides. The registry lock is not held while the
// constructor runs, so constructors may create other elements.
func (f *Family[B]) Create(lib, name string, args ...any) (B, error) {
	var zero B
	e, vals, err := f.Registry().resolve(f.core, lib, name, args)
	if err != nil {
		return zero, err
	}
	out, _ := e.create(vals).(B)
	return out, nil
}
