// Package legacy bridges libraries that still publish their elements as one
// static descriptor block instead of registering from init functions.
package legacy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/eligo/internal/element"
	"github.com/specialistvlad/eligo/internal/params"
)

var ErrMalformedLegacyBlock = errors.New("malformed legacy block")

type Param struct {
	Name         string
	Description  string
	DefaultValue *string
}

type Port struct {
	Name        string
	Description string
	Events      []string
}

type Stat struct {
	Name        string
	Description string
	Units       string
	EnableLevel uint8
}

type SubComponentSlot struct {
	Name        string
	Description string
	SuperClass  string
}

type Component struct {
	Name          string
	Description   string
	Alloc         func(id element.ComponentID, p *params.Params) element.Component
	Params        []Param
	Ports         []Port
	Stats         []Stat
	SubComponents []SubComponentSlot
	// Category is a bit set of the flags in element.CategoryNames.
	Category uint32
}

type SubComponent struct {
	Name          string
	Description   string
	Alloc         func(owner element.Component, p *params.Params) element.SubComponent
	Params        []Param
	Ports         []Port
	Stats         []Stat
	SubComponents []SubComponentSlot
	Provides      string
}

// Module may provide either allocation function or both.
type Module struct {
	Name               string
	Description        string
	Alloc              func(p *params.Params) element.Module
	AllocWithComponent func(owner element.Component, p *params.Params) element.Module
	Params             []Param
	Provides           string
}

type Partitioner struct {
	Name        string
	Description string
	Func        func(total, mine element.RankInfo, verbosity int) element.Partitioner
}

type Generator struct {
	Name        string
	Description string
	Func        element.GenerateFunc
}

// PythonModuleFunc produces a library's python configuration module.
type PythonModuleFunc func() (any, error)

// Block is the full legacy description of one library.
type Block struct {
	Name          string
	Description   string
	Components    []Component
	SubComponents []SubComponent
	Modules       []Module
	Partitioners  []Partitioner
	Generators    []Generator
	PythonModule  PythonModuleFunc
}

// Empty is returned for libraries that are present but register all of their
// elements through the modern protocol.
var Empty = &Block{
	Name:        "empty-eli",
	Description: "ELI that gets returned when new ELI is used",
}

// IsEmpty reports whether b carries no legacy entries.
func (b *Block) IsEmpty() bool {
	return b == Empty || (len(b.Components) == 0 && len(b.SubComponents) == 0 && len(b.Modules) == 0 &&
		len(b.Partitioners) == 0 && len(b.Generators) == 0 && b.PythonModule == nil)
}

// Validate checks that every entry has a name and an allocation function,
// that names are unique within each kind and that nested sequences carry
// names.
func (b *Block) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}
	seen := make(map[string]bool)
	unique := func(kind, name string) {
		if name == "" {
			return
		}
		if seen[kind+"."+name] {
			add("%s %q is declared more than once", kind, name)
		}
		seen[kind+"."+name] = true
	}
	for i, c := range b.Components {
		unique("component", c.Name)
		if c.Name == "" {
			add("component #%d has no name", i)
		}
		if c.Alloc == nil {
			add("component %q has no allocation function", c.Name)
		}
		checkNested(add, "component", c.Name, c.Params, c.Ports, c.Stats, c.SubComponents)
	}
	for i, s := range b.SubComponents {
		unique("subcomponent", s.Name)
		if s.Name == "" {
			add("subcomponent #%d has no name", i)
		}
		if s.Alloc == nil {
			add("subcomponent %q has no allocation function", s.Name)
		}
		checkNested(add, "subcomponent", s.Name, s.Params, s.Ports, s.Stats, s.SubComponents)
	}
	for i, m := range b.Modules {
		unique("module", m.Name)
		if m.Name == "" {
			add("module #%d has no name", i)
		}
		if m.Alloc == nil && m.AllocWithComponent == nil {
			add("module %q has no allocation function", m.Name)
		}
		checkNested(add, "module", m.Name, m.Params, nil, nil, nil)
	}
	for i, p := range b.Partitioners {
		unique("partitioner", p.Name)
		if p.Name == "" {
			add("partitioner #%d has no name", i)
		}
		if p.Func == nil {
			add("partitioner %q has no allocation function", p.Name)
		}
	}
	for i, g := range b.Generators {
		unique("generator", g.Name)
		if g.Name == "" {
			add("generator #%d has no name", i)
		}
		if g.Func == nil {
			add("generator %q has no function", g.Name)
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w %q: %s", ErrMalformedLegacyBlock, b.Name, strings.Join(problems, "; "))
	}
	return nil
}

func checkNested(add func(string, ...any), kind, owner string, ps []Param, ports []Port, stats []Stat, slots []SubComponentSlot) {
	for i, p := range ps {
		if p.Name == "" {
			add("%s %q param #%d has no name", kind, owner, i)
		}
	}
	for i, p := range ports {
		if p.Name == "" {
			add("%s %q port #%d has no name", kind, owner, i)
		}
	}
	for i, s := range stats {
		if s.Name == "" {
			add("%s %q statistic #%d has no name", kind, owner, i)
		}
	}
	for i, s := range slots {
		if s.Name == "" {
			add("%s %q subcomponent slot #%d has no name", kind, owner, i)
		}
	}
}
