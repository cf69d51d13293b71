// Package oldlib is a sample library published through the legacy protocol.
// Importing it links the "oldlib" block into the static loader and exports
// the allocation symbols the oldhcl manifest names.
package oldlib

import (
	"log/slog"

	"github.com/specialistvlad/eligo/internal/element"
	"github.com/specialistvlad/eligo/internal/legacy"
	"github.com/specialistvlad/eligo/internal/params"
)

const (
	// Library is the name of the statically linked block.
	Library = "oldlib"
	// ManifestLibrary is the library described by oldhcl.eli.hcl.
	ManifestLibrary = "oldhcl"
)

// Symbols maps the names used in oldhcl.eli.hcl to their functions.
var Symbols = map[string]any{
	"oldhcl_new_cache":         NewCache,
	"oldhcl_new_lru":           NewLRU,
	"oldhcl_new_roundrobin":    NewRoundRobin,
	"oldhcl_generate_pipeline": GeneratePipeline,
}

func init() {
	legacy.RegisterStatic(Library, NewBlock())
	for name, fn := range Symbols {
		legacy.RegisterSymbol(name, fn)
	}
}

func ptr(s string) *string { return &s }

// NewBlock returns the legacy description of oldlib.
func NewBlock() *legacy.Block {
	return &legacy.Block{
		Name:        Library,
		Description: "Memory system elements kept on the legacy protocol",
		Components: []legacy.Component{{
			Name:        "memctl",
			Description: "Fixed latency memory controller",
			Alloc:       NewMemCtl,
			Params: []legacy.Param{
				{Name: "latency", Description: "Access latency", DefaultValue: ptr("100ns")},
				{Name: "size", Description: "Capacity in bytes"},
			},
			Ports: []legacy.Port{
				{Name: "direct_link", Description: "Requests from the cache", Events: []string{"oldlib.MemEvent"}},
				{Name: "channel%d", Description: "DRAM channels"},
			},
			Stats: []legacy.Stat{
				{Name: "reads", Description: "Read requests", Units: "requests", EnableLevel: 1},
				{Name: "writes", Description: "Write requests", Units: "requests", EnableLevel: 1},
				{Name: "latency_total", Description: "Summed access latency", Units: "ns", EnableLevel: 3},
			},
			SubComponents: []legacy.SubComponentSlot{
				{Name: "queue", Description: "Pending request queue", SuperClass: "oldlib.Queue"},
			},
			Category: 0x2,
		}},
		SubComponents: []legacy.SubComponent{{
			Name:        "fifo",
			Description: "First in first out request queue",
			Alloc:       NewFIFO,
			Params:      []legacy.Param{{Name: "depth", Description: "Entries held", DefaultValue: ptr("16")}},
			Stats:       []legacy.Stat{{Name: "full_cycles", Description: "Cycles spent full", Units: "cycles", EnableLevel: 2}},
			Provides:    "oldlib.Queue",
		}},
		Modules: []legacy.Module{{
			Name:        "tracer",
			Description: "Records memory requests",
			Alloc:       NewTracer,
			Params:      []legacy.Param{{Name: "file", Description: "Trace destination"}},
			Provides:    "oldlib.Tracer",
		}},
		Partitioners: []legacy.Partitioner{{
			Name:        "roundrobin",
			Description: "Deals components to ranks in turn",
			Func:        NewRoundRobin,
		}},
		Generators: []legacy.Generator{{
			Name:        "star",
			Description: "Memory controllers around one hub",
			Func:        GenerateStar,
		}},
		PythonModule: LoadPython,
	}
}

// MemCtl is a memory controller component.
type MemCtl struct {
	id      element.ComponentID
	latency string
	queue   element.SubComponent
}

func NewMemCtl(id element.ComponentID, p *params.Params) element.Component {
	latency, _ := params.Find(p, "latency", "100ns")
	return &MemCtl{id: id, latency: latency}
}

func (m *MemCtl) ID() element.ComponentID { return m.id }

func (m *MemCtl) Latency() string { return m.latency }

// FIFO is a bounded request queue loaded into a controller.
type FIFO struct {
	owner element.Component
	depth int
}

func NewFIFO(owner element.Component, p *params.Params) element.SubComponent {
	depth, _ := params.Find(p, "depth", 16)
	f := &FIFO{owner: owner, depth: depth}
	if m, ok := owner.(*MemCtl); ok {
		m.queue = f
	}
	return f
}

func (f *FIFO) Owner() element.Component { return f.owner }

func (f *FIFO) Depth() int { return f.depth }

type Tracer struct {
	element.ModuleBase
	File string
}

func NewTracer(p *params.Params) element.Module {
	file, _ := params.Find(p, "file", "")
	return &Tracer{File: file}
}

// RoundRobin deals components to ranks in id order.
type RoundRobin struct {
	total element.RankInfo
}

func NewRoundRobin(total, _ element.RankInfo, _ int) element.Partitioner {
	return &RoundRobin{total: total}
}

func (r *RoundRobin) Partition(ids []element.ComponentID) map[element.ComponentID]element.RankInfo {
	ranks := max(r.total.Rank, 1)
	out := make(map[element.ComponentID]element.RankInfo, len(ids))
	for _, id := range ids {
		out[id] = element.RankInfo{Rank: uint32(uint64(id) % uint64(ranks))}
	}
	return out
}

// GenerateStar inserts the defaults of a star topology into p.
func GenerateStar(p *params.Params) error {
	p.Insert("hub", "memctl", false)
	p.Insert("spokes", "4", false)
	slog.Debug("Generated star topology.", "keys", p.Len())
	return nil
}

// GeneratePipeline inserts the defaults of a linear pipeline into p.
func GeneratePipeline(p *params.Params) error {
	p.Insert("stages", "3", false)
	return nil
}

func LoadPython() (any, error) {
	return map[string]any{"__name__": "sst." + Library}, nil
}

// Cache is the component described by the oldhcl manifest.
type Cache struct {
	id   element.ComponentID
	ways int
}

func NewCache(id element.ComponentID, p *params.Params) element.Component {
	ways, _ := params.Find(p, "ways", 8)
	return &Cache{id: id, ways: ways}
}

func (c *Cache) ID() element.ComponentID { return c.id }

func (c *Cache) Ways() int { return c.ways }

// LRU is the replacement policy subcomponent of the oldhcl manifest.
type LRU struct {
	owner element.Component
}

func NewLRU(owner element.Component, _ *params.Params) element.SubComponent {
	return &LRU{owner: owner}
}

func (l *LRU) Owner() element.Component { return l.owner }
