// Package simple is a sample element library registered through the
// modern protocol. Importing it registers library "simple" into the
// process-wide registry.
package simple

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/eligo/internal/element"
	"github.com/specialistvlad/eligo/internal/eli"
	"github.com/specialistvlad/eligo/internal/params"
)

// Library is the name every element of this package registers under.
const Library = "simple"

var version = eli.Version{Major: 1, Minor: 2}

// Module registers the library's elements into a registry.
type Module struct{}

func init() {
	(&Module{}).Register(eli.Default())
}

// Register adds every element of the library to r.
func (m *Module) Register(r *eli.Registry) {
	fams := element.Bind(r)

	fams.Components.Register(eli.Element{
		Library:     Library,
		Name:        "counter",
		Description: "Counts up from start by step on every tick",
		Version:     version,
		Category:    "PROCESSOR COMPONENT",
		Params: []eli.ParamSpec{
			{Name: "start", Description: "First value", Default: eli.DefaultValue("0")},
			{Name: "step", Description: "Increment per tick", Default: eli.DefaultValue("1")},
		},
		Ports: []eli.PortSpec{
			{Name: "out", Description: "Current count", Events: []string{"simple.CountEvent"}},
		},
		Stats: []eli.StatSpec{
			{Name: "count", Description: "Ticks seen", Units: "ticks", EnableLevel: 1},
		},
		Slots: []eli.SlotSpec{
			{Name: "table", Description: "Lookup table applied to each value", Interface: "simple.Table"},
		},
		Constructors: []eli.Constructor{eli.Ctor2(NewCounter)},
	})

	// echo documents itself through its methods.
	fams.Components.Register(eli.Element{
		Library:      Library,
		Name:         "echo",
		Description:  "Repeats whatever arrives on its port",
		Version:      version,
		Constructors: []eli.Constructor{eli.Ctor2(NewEcho)},
	})

	fams.SubComponents.Register(eli.Element{
		Library:     Library,
		Name:        "lineartable",
		Description: "Maps v to scale*v + offset",
		Version:     version,
		Interface:   "simple.Table",
		Params: []eli.ParamSpec{
			{Name: "scale", Description: "Multiplier", Default: eli.DefaultValue("1")},
			{Name: "offset", Description: "Added after scaling", Default: eli.DefaultValue("0")},
		},
		Constructors: []eli.Constructor{eli.Ctor2(NewLinearTable)},
	})

	fams.Modules.Register(eli.Element{
		Library:     Library,
		Name:        "logger",
		Description: "Writes tagged messages to the process logger",
		Version:     version,
		Interface:   "simple.Logger",
		Params: []eli.ParamSpec{
			{Name: "prefix", Description: "Tag placed before every message", Default: eli.DefaultValue("simple")},
		},
		Constructors: []eli.Constructor{
			eli.Ctor1(NewLogger),
			eli.Ctor2(NewOwnedLogger),
		},
	})

	fams.Partitioners.Register(eli.Element{
		Library:      Library,
		Name:         "linear",
		Description:  "Splits components into equal contiguous runs per rank",
		Version:      version,
		Constructors: []eli.Constructor{eli.Ctor3(NewLinear)},
	})

	fams.PythonModules.Register(eli.Element{
		Library:     Library,
		Name:        Library,
		Description: "Python configuration helpers for simple",
		Version:     version,
		Constructors: []eli.Constructor{
			eli.Ctor1(NewPythonModule),
			eli.Ctor0(func() element.PythonModule { return NewPythonModule(Library) }),
		},
	})
}

// Counter is a component emitting an arithmetic sequence.
type Counter struct {
	id    element.ComponentID
	value int64
	step  int64
	ticks uint64
	table Table
}

// NewCounter reads start and step from p. Unreadable values fall back to
// their defaults.
func NewCounter(id element.ComponentID, p *params.Params) element.Component {
	start, err := params.Find(p, "start", int64(0))
	if err != nil {
		slog.Warn("Using default start.", "component", id, "error", err)
	}
	step, err := params.Find(p, "step", int64(1))
	if err != nil {
		slog.Warn("Using default step.", "component", id, "error", err)
	}
	return &Counter{id: id, value: start, step: step}
}

func (c *Counter) ID() element.ComponentID { return c.id }

// SetTable installs the subcomponent loaded into the table slot.
func (c *Counter) SetTable(t Table) { c.table = t }

// Tick advances the counter and returns the emitted value.
func (c *Counter) Tick() float64 {
	v := c.value
	c.value += c.step
	c.ticks++
	if c.table != nil {
		return c.table.Apply(float64(v))
	}
	return float64(v)
}

// Ticks returns the count statistic.
func (c *Counter) Ticks() uint64 { return c.ticks }

// Echo is a component whose documentation comes from its methods.
type Echo struct {
	id element.ComponentID
}

func NewEcho(id element.ComponentID, _ *params.Params) *Echo {
	return &Echo{id: id}
}

func (e *Echo) ID() element.ComponentID { return e.id }

func (e *Echo) ELIParams() []eli.ParamSpec {
	return []eli.ParamSpec{{Name: "delay", Description: "Cycles before repeating", Default: eli.DefaultValue("1")}}
}

func (e *Echo) ELIPorts() []eli.PortSpec {
	return []eli.PortSpec{
		{Name: "in", Description: "Inbound events", Events: []string{"*"}},
		{Name: "out%(copies)d", Description: "Repeated events"},
	}
}

func (e *Echo) ELIStatistics() []eli.StatSpec {
	return []eli.StatSpec{{Name: "echoed", Description: "Events repeated", Units: "events", EnableLevel: 2}}
}

func (e *Echo) ELICategory() string { return "NETWORK COMPONENT" }

// Table transforms a value.
type Table interface {
	Apply(v float64) float64
}

// LinearTable is a subcomponent implementing Table.
type LinearTable struct {
	owner  element.Component
	scale  float64
	offset float64
}

func NewLinearTable(owner element.Component, p *params.Params) element.SubComponent {
	scale, _ := params.Find(p, "scale", 1.0)
	offset, _ := params.Find(p, "offset", 0.0)
	t := &LinearTable{owner: owner, scale: scale, offset: offset}
	if c, ok := owner.(*Counter); ok {
		c.SetTable(t)
	}
	return t
}

func (t *LinearTable) Owner() element.Component { return t.owner }

func (t *LinearTable) Apply(v float64) float64 { return t.scale*v + t.offset }

// Logger is a module writing tagged messages.
type Logger struct {
	element.ModuleBase
	prefix string
	owner  element.Component
}

func NewLogger(p *params.Params) element.Module {
	prefix, _ := params.Find(p, "prefix", Library)
	return &Logger{prefix: prefix}
}

// NewOwnedLogger tags messages with the owning component id as well.
func NewOwnedLogger(owner element.Component, p *params.Params) element.Module {
	l := NewLogger(p).(*Logger)
	l.owner = owner
	return l
}

// Prefix returns the tag written before every message.
func (l *Logger) Prefix() string {
	if l.owner != nil {
		return fmt.Sprintf("%s[%d]", l.prefix, l.owner.ID())
	}
	return l.prefix
}

// Log writes msg at info level.
func (l *Logger) Log(msg string, args ...any) {
	slog.Info(msg, append([]any{"prefix", l.Prefix()}, args...)...)
}

// Linear partitions sorted component ids into contiguous runs.
type Linear struct {
	total     element.RankInfo
	mine      element.RankInfo
	verbosity int
}

func NewLinear(total, mine element.RankInfo, verbosity int) element.Partitioner {
	return &Linear{total: total, mine: mine, verbosity: verbosity}
}

// Partition assigns ids in ascending order, filling ranks then threads.
func (l *Linear) Partition(ids []element.ComponentID) map[element.ComponentID]element.RankInfo {
	sorted := append([]element.ComponentID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	ranks := max(l.total.Rank, 1)
	threads := max(l.total.Thread, 1)
	parts := int(ranks * threads)
	out := make(map[element.ComponentID]element.RankInfo, len(sorted))
	for i, id := range sorted {
		part := i * parts / max(len(sorted), 1)
		out[id] = element.RankInfo{Rank: uint32(part) / threads, Thread: uint32(part) % threads}
	}
	if l.verbosity > 0 {
		slog.Info("Partitioned components.", "count", len(sorted), "parts", parts, "rank", l.mine.Rank)
	}
	return out
}

// PythonModule exposes helper names to python configuration scripts.
type PythonModule struct {
	name string
}

func NewPythonModule(name string) element.PythonModule {
	return &PythonModule{name: name}
}

// Load returns the attribute table a configuration script sees.
func (m *PythonModule) Load() (any, error) {
	return map[string]any{
		"__name__": "sst." + m.name,
		"elements": []string{"counter", "echo", "lineartable", "logger", "linear"},
	}, nil
}
