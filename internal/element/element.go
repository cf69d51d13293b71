// Package element declares the abstract element bases the host constructs
// through the registry, and the families they register into.
package element

import (
	"reflect"

	"github.com/specialistvlad/eligo/internal/eli"
	"github.com/specialistvlad/eligo/internal/params"
)

// ComponentID identifies a component instance in the simulation graph.
type ComponentID uint64

// RankInfo locates a partition: an MPI rank and a thread within it.
type RankInfo struct {
	Rank   uint32
	Thread uint32
}

// Component is a simulated entity with ports and statistics.
type Component interface {
	ID() ComponentID
}

// SubComponent is loaded into a slot of an owning component.
type SubComponent interface {
	Owner() Component
}

// Module is a loadable helper object. Embed ModuleBase to satisfy it.
type Module interface {
	ELIModule()
}

// ModuleBase marks a type as a Module.
type ModuleBase struct{}

func (ModuleBase) ELIModule() {}

// StatisticOutput writes collected statistics somewhere.
type StatisticOutput interface {
	Module
	StartOutput() error
	OutputField(component, statistic string, value float64) error
	StopOutput() error
}

// Partitioner assigns components to ranks.
type Partitioner interface {
	Partition(ids []ComponentID) map[ComponentID]RankInfo
}

// PythonModule exposes a library's python configuration module.
type PythonModule interface {
	Load() (any, error)
}

// GenerateFunc populates a configuration from parameters.
type GenerateFunc func(p *params.Params) error

// CategoryNames renders legacy component category flags.
var CategoryNames = []struct {
	Flag uint32
	Name string
}{
	{Flag: 0x1, Name: "PROCESSOR COMPONENT"},
	{Flag: 0x2, Name: "MEMORY COMPONENT"},
	{Flag: 0x4, Name: "NETWORK COMPONENT"},
	{Flag: 0x8, Name: "SYSTEM COMPONENT"},
}

var (
	componentIDType = reflect.TypeFor[ComponentID]()
	paramsType      = reflect.TypeFor[*params.Params]()
	componentType   = reflect.TypeFor[Component]()
	rankInfoType    = reflect.TypeFor[RankInfo]()
)

var (
	Components = eli.NewFamily[Component]("Component",
		eli.WithSignatures(eli.NewSignature(componentIDType, paramsType)),
		eli.WithCapabilities(eli.CapParams, eli.CapPorts, eli.CapStats, eli.CapSlots, eli.CapCategory),
	)

	SubComponents = eli.NewFamily[SubComponent]("SubComponent",
		eli.WithSignatures(eli.NewSignature(componentType, paramsType)),
		eli.WithCapabilities(eli.CapParams, eli.CapPorts, eli.CapStats, eli.CapSlots, eli.CapInterface),
	)

	Modules = eli.NewFamily[Module]("Module",
		eli.WithSignatures(
			eli.NewSignature(paramsType),
			eli.NewSignature(componentType, paramsType),
		),
		eli.WithCapabilities(eli.CapParams, eli.CapInterface),
	)

	StatisticOutputs = eli.NewFamily[StatisticOutput]("StatisticOutput",
		eli.WithSignatures(eli.NewSignature(paramsType)),
		eli.WithCapabilities(eli.CapParams),
	)

	Partitioners = eli.NewFamily[Partitioner]("Partitioner",
		eli.WithSignatures(eli.NewSignature(rankInfoType, rankInfoType, reflect.TypeFor[int]())),
	)

	PythonModules = eli.NewFamily[PythonModule]("PythonModule",
		eli.WithSignatures(
			eli.NewSignature(reflect.TypeFor[string]()),
			eli.NewSignature(),
		),
		eli.WithAllocation(eli.AllocateCached),
	)
)

// Catalogs returns every family in documentation order.
func Catalogs() []eli.Catalog {
	return []eli.Catalog{Components, SubComponents, Modules, StatisticOutputs, Partitioners, PythonModules}
}

// Bound is the set of element families bound to one registry.
type Bound struct {
	Components       *eli.Family[Component]
	SubComponents    *eli.Family[SubComponent]
	Modules          *eli.Family[Module]
	StatisticOutputs *eli.Family[StatisticOutput]
	Partitioners     *eli.Family[Partitioner]
	PythonModules    *eli.Family[PythonModule]
}

// Bind returns the families bound to r.
func Bind(r *eli.Registry) Bound {
	return Bound{
		Components:       Components.WithRegistry(r),
		SubComponents:    SubComponents.WithRegistry(r),
		Modules:          Modules.WithRegistry(r),
		StatisticOutputs: StatisticOutputs.WithRegistry(r),
		Partitioners:     Partitioners.WithRegistry(r),
		PythonModules:    PythonModules.WithRegistry(r),
	}
}

// Catalogs returns the bound families in documentation order.
func (b Bound) Catalogs() []eli.Catalog {
	return []eli.Catalog{b.Components, b.SubComponents, b.Modules, b.StatisticOutputs, b.Partitioners, b.PythonModules}
}
