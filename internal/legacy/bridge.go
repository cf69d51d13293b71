package legacy

import (
	"errors"
	"strings"

	"github.com/specialistvlad/eligo/internal/element"
	"github.com/specialistvlad/eligo/internal/eli"
)

// Ingest validates b and registers every entry under lib in reg. Either all
// entries are registered or none is. Generators are returned keyed by
// "lib.name" since they have no registry family.
func Ingest(reg *eli.Registry, lib string, b *Block) (map[string]element.GenerateFunc, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	fams := element.Bind(reg)
	var (
		regs []*eli.Registration
		errs []error
	)
	stage := func(r *eli.Registration, err error) {
		if err != nil {
			errs = append(errs, err)
			return
		}
		regs = append(regs, r)
	}

	for _, c := range b.Components {
		stage(fams.Components.PrepareLegacy(eli.Element{
			Library:      lib,
			Name:         c.Name,
			Description:  c.Description,
			Category:     CategoryName(c.Category),
			Params:       convertParams(c.Params),
			Ports:        convertPorts(c.Ports),
			Stats:        convertStats(c.Stats),
			Slots:        convertSlots(c.SubComponents),
			Constructors: []eli.Constructor{eli.Ctor2(c.Alloc)},
		}))
	}
	for _, s := range b.SubComponents {
		stage(fams.SubComponents.PrepareLegacy(eli.Element{
			Library:      lib,
			Name:         s.Name,
			Description:  s.Description,
			Interface:    s.Provides,
			Params:       convertParams(s.Params),
			Ports:        convertPorts(s.Ports),
			Stats:        convertStats(s.Stats),
			Slots:        convertSlots(s.SubComponents),
			Constructors: []eli.Constructor{eli.Ctor2(s.Alloc)},
		}))
	}
	for _, m := range b.Modules {
		var ctors []eli.Constructor
		if m.Alloc != nil {
			ctors = append(ctors, eli.Ctor1(m.Alloc))
		}
		if m.AllocWithComponent != nil {
			ctors = append(ctors, eli.Ctor2(m.AllocWithComponent))
		}
		stage(fams.Modules.PrepareLegacy(eli.Element{
			Library:      lib,
			Name:         m.Name,
			Description:  m.Description,
			Interface:    m.Provides,
			Params:       convertParams(m.Params),
			Constructors: ctors,
		}))
	}
	for _, p := range b.Partitioners {
		stage(fams.Partitioners.PrepareLegacy(eli.Element{
			Library:      lib,
			Name:         p.Name,
			Description:  p.Description,
			Constructors: []eli.Constructor{eli.Ctor3(p.Func)},
		}))
	}
	if b.PythonModule != nil {
		gen := b.PythonModule
		stage(fams.PythonModules.PrepareLegacy(eli.Element{
			Library:     lib,
			Name:        lib,
			Description: "Python module of " + lib,
			Constructors: []eli.Constructor{eli.Ctor1(func(string) element.PythonModule {
				return &generatedModule{gen: gen}
			})},
		}))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := reg.Commit(regs...); err != nil {
		return nil, err
	}

	gens := make(map[string]element.GenerateFunc, len(b.Generators))
	for _, g := range b.Generators {
		gens[lib+"."+g.Name] = g.Func
	}
	return gens, nil
}

type generatedModule struct {
	gen PythonModuleFunc
}

func (m *generatedModule) Load() (any, error) {
	return m.gen()
}

// CategoryName renders legacy component category flags.
func CategoryName(flags uint32) string {
	if flags == 0 {
		return "UNCATEGORIZED COMPONENT"
	}
	var names []string
	for _, c := range element.CategoryNames {
		if flags&c.Flag != 0 {
			names = append(names, c.Name)
		}
	}
	return strings.Join(names, ", ")
}

func convertParams(in []Param) []eli.ParamSpec {
	out := make([]eli.ParamSpec, 0, len(in))
	for _, p := range in {
		out = append(out, eli.ParamSpec{Name: p.Name, Description: p.Description, Default: p.DefaultValue})
	}
	return out
}

func convertPorts(in []Port) []eli.PortSpec {
	out := make([]eli.PortSpec, 0, len(in))
	for _, p := range in {
		out = append(out, eli.PortSpec{Name: p.Name, Description: p.Description, Events: p.Events})
	}
	return out
}

func convertStats(in []Stat) []eli.StatSpec {
	out := make([]eli.StatSpec, 0, len(in))
	for _, s := range in {
		out = append(out, eli.StatSpec{Name: s.Name, Description: s.Description, Units: s.Units, EnableLevel: s.EnableLevel})
	}
	return out
}

func convertSlots(in []SubComponentSlot) []eli.SlotSpec {
	out := make([]eli.SlotSpec, 0, len(in))
	for _, s := range in {
		out = append(out, eli.SlotSpec{Name: s.Name, Description: s.Description, Interface: s.SuperClass})
	}
	return out
}
