package hcl

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/eligo/internal/element"
	"github.com/specialistvlad/eligo/internal/legacy"
	"github.com/specialistvlad/eligo/internal/params"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

var categoryFlags = map[string]uint32{
	"processor": 0x1,
	"memory":    0x2,
	"network":   0x4,
	"system":    0x8,
}

func (l *Loader) translateLibrary(lib *libraryBlock) (*legacy.Block, error) {
	var errs []error
	block := &legacy.Block{Name: lib.Name, Description: lib.Description}

	for _, c := range lib.Components {
		alloc, err := legacy.Resolve[func(element.ComponentID, *params.Params) element.Component](l.symbols, c.Alloc)
		errs = append(errs, wrapElem("component", c.Name, err))
		cat, err := categoryMask(c.Categories)
		errs = append(errs, wrapElem("component", c.Name, err))
		ps, err := translateParams(c.Params)
		errs = append(errs, wrapElem("component", c.Name, err))
		block.Components = append(block.Components, legacy.Component{
			Name:          c.Name,
			Description:   c.Description,
			Alloc:         alloc,
			Params:        ps,
			Ports:         translatePorts(c.Ports),
			Stats:         translateStats(c.Stats),
			SubComponents: translateSlots(c.Slots),
			Category:      cat,
		})
	}
	for _, s := range lib.SubComponents {
		alloc, err := legacy.Resolve[func(element.Component, *params.Params) element.SubComponent](l.symbols, s.Alloc)
		errs = append(errs, wrapElem("subcomponent", s.Name, err))
		ps, err := translateParams(s.Params)
		errs = append(errs, wrapElem("subcomponent", s.Name, err))
		block.SubComponents = append(block.SubComponents, legacy.SubComponent{
			Name:          s.Name,
			Description:   s.Description,
			Alloc:         alloc,
			Params:        ps,
			Ports:         translatePorts(s.Ports),
			Stats:         translateStats(s.Stats),
			SubComponents: translateSlots(s.Slots),
			Provides:      s.Provides,
		})
	}
	for _, m := range lib.Modules {
		mod := legacy.Module{Name: m.Name, Description: m.Description, Provides: m.Provides}
		var err error
		if m.Alloc != "" {
			mod.Alloc, err = legacy.Resolve[func(*params.Params) element.Module](l.symbols, m.Alloc)
			errs = append(errs, wrapElem("module", m.Name, err))
		}
		if m.AllocWithComponent != "" {
			mod.AllocWithComponent, err = legacy.Resolve[func(element.Component, *params.Params) element.Module](l.symbols, m.AllocWithComponent)
			errs = append(errs, wrapElem("module", m.Name, err))
		}
		mod.Params, err = translateParams(m.Params)
		errs = append(errs, wrapElem("module", m.Name, err))
		block.Modules = append(block.Modules, mod)
	}
	for _, p := range lib.Partitioners {
		fn, err := legacy.Resolve[func(element.RankInfo, element.RankInfo, int) element.Partitioner](l.symbols, p.Func)
		errs = append(errs, wrapElem("partitioner", p.Name, err))
		block.Partitioners = append(block.Partitioners, legacy.Partitioner{Name: p.Name, Description: p.Description, Func: fn})
	}
	for _, g := range lib.Generators {
		fn, err := legacy.Resolve[func(*params.Params) error](l.symbols, g.Func)
		errs = append(errs, wrapElem("generator", g.Name, err))
		block.Generators = append(block.Generators, legacy.Generator{Name: g.Name, Description: g.Description, Func: fn})
	}
	if lib.PythonModule != "" {
		fn, err := legacy.Resolve[func() (any, error)](l.symbols, lib.PythonModule)
		errs = append(errs, wrapElem("python module", lib.Name, err))
		block.PythonModule = fn
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return block, nil
}

func wrapElem(kind, name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s %q: %w", kind, name, err)
}

func categoryMask(names []string) (uint32, error) {
	var mask uint32
	for _, n := range names {
		flag, ok := categoryFlags[n]
		if !ok {
			return 0, fmt.Errorf("unknown category %q", n)
		}
		mask |= flag
	}
	return mask, nil
}

// translateParams renders manifest defaults as strings, the representation
// Params stores.
func translateParams(defs []*paramDef) ([]legacy.Param, error) {
	out := make([]legacy.Param, 0, len(defs))
	for _, d := range defs {
		p := legacy.Param{Name: d.Name, Description: d.Description}
		if d.Default != nil && !d.Default.IsNull() {
			s, err := convert.Convert(*d.Default, cty.String)
			if err != nil {
				return nil, fmt.Errorf("param %q default: %w", d.Name, err)
			}
			str := s.AsString()
			p.DefaultValue = &str
		}
		out = append(out, p)
	}
	return out, nil
}

func translatePorts(defs []*portDef) []legacy.Port {
	out := make([]legacy.Port, 0, len(defs))
	for _, d := range defs {
		out = append(out, legacy.Port{Name: d.Name, Description: d.Description, Events: d.Events})
	}
	return out
}

func translateStats(defs []*statDef) []legacy.Stat {
	out := make([]legacy.Stat, 0, len(defs))
	for _, d := range defs {
		out = append(out, legacy.Stat{Name: d.Name, Description: d.Description, Units: d.Units, EnableLevel: uint8(d.EnableLevel)})
	}
	return out
}

func translateSlots(defs []*slotDef) []legacy.SubComponentSlot {
	out := make([]legacy.SubComponentSlot, 0, len(defs))
	for _, d := range defs {
		out = append(out, legacy.SubComponentSlot{Name: d.Name, Description: d.Description, SuperClass: d.Interface})
	}
	return out
}
