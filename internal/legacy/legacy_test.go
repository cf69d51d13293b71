package legacy

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/eligo/internal/element"
	"github.com/specialistvlad/eligo/internal/eli"
	"github.com/specialistvlad/eligo/internal/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ticker struct {
	id    element.ComponentID
	style string
}

func (t *ticker) ID() element.ComponentID { return t.id }

func newLegacyTicker(id element.ComponentID, _ *params.Params) element.Component {
	return &ticker{id: id, style: "legacy"}
}

func newModernTicker(id element.ComponentID, _ *params.Params) element.Component {
	return &ticker{id: id, style: "modern"}
}

type tickPartitioner struct{ total element.RankInfo }

func (p *tickPartitioner) Partition(ids []element.ComponentID) map[element.ComponentID]element.RankInfo {
	out := make(map[element.ComponentID]element.RankInfo, len(ids))
	for i, id := range ids {
		out[id] = element.RankInfo{Rank: uint32(i) % p.total.Rank}
	}
	return out
}

var (
	tickerParams = []eli.ParamSpec{
		{Name: "interval", Description: "Tick interval", Default: eli.DefaultValue("1ns")},
		{Name: "count", Description: "Ticks to emit"},
	}
	tickerPorts = []eli.PortSpec{{Name: "out", Description: "Tick output", Events: []string{"oldlib.TickEvent"}}}
	tickerStats = []eli.StatSpec{{Name: "ticks", Description: "Ticks sent", Units: "events", EnableLevel: 1}}
	tickerSlots = []eli.SlotSpec{{Name: "clock", Description: "Clock source", Interface: "oldlib.Clock"}}
)

func tickerBlock() *Block {
	return &Block{
		Name:        "oldlib",
		Description: "Legacy test library",
		Components: []Component{{
			Name:        "ticker",
			Description: "Emits ticks",
			Alloc:       newLegacyTicker,
			Params: []Param{
				{Name: "interval", Description: "Tick interval", DefaultValue: eli.DefaultValue("1ns")},
				{Name: "count", Description: "Ticks to emit"},
			},
			Ports:         []Port{{Name: "out", Description: "Tick output", Events: []string{"oldlib.TickEvent"}}},
			Stats:         []Stat{{Name: "ticks", Description: "Ticks sent", Units: "events", EnableLevel: 1}},
			SubComponents: []SubComponentSlot{{Name: "clock", Description: "Clock source", SuperClass: "oldlib.Clock"}},
			Category:      0x1 | 0x4,
		}},
		Partitioners: []Partitioner{{
			Name: "roundrobin", Description: "Round robin",
			Func: func(total, _ element.RankInfo, _ int) element.Partitioner { return &tickPartitioner{total: total} },
		}},
		Generators: []Generator{{Name: "grid", Description: "Grid generator", Func: func(*params.Params) error { return nil }}},
		PythonModule: func() (any, error) {
			return "oldlib-python", nil
		},
	}
}

// capabilityView strips provenance so a legacy Info can be compared with the
// Info of the equivalent modern registration.
type capabilityView struct {
	Name, Description, Category string
	Params                      []eli.ParamSpec
	Ports                       []eli.PortSpec
	Stats                       []eli.StatSpec
	Slots                       []eli.SlotSpec
}

func viewOf(info *eli.Info) capabilityView {
	return capabilityView{
		Name: info.Name, Description: info.Description, Category: info.Category(),
		Params: info.ValidParams(), Ports: info.ValidPorts(), Stats: info.ValidStats(), Slots: info.SubComponentSlots(),
	}
}

func TestIngest_EquivalentToModernRegistration(t *testing.T) {
	t.Parallel()
	// Arrange
	legacyReg, modernReg := eli.NewRegistry(), eli.NewRegistry()
	element.Bind(modernReg).Components.Register(eli.Element{
		Library: "oldlib", Name: "ticker", Description: "Emits ticks",
		Category: "PROCESSOR COMPONENT, NETWORK COMPONENT",
		Params:   tickerParams, Ports: tickerPorts, Stats: tickerStats, Slots: tickerSlots,
		Constructors: []eli.Constructor{eli.Ctor2(newModernTicker)},
	})

	// Act
	gens, err := Ingest(legacyReg, "oldlib", tickerBlock())

	// Assert
	require.NoError(t, err)
	legacyInfo := element.Bind(legacyReg).Components.Info("oldlib", "ticker")
	modernInfo := element.Bind(modernReg).Components.Info("oldlib", "ticker")
	require.NotNil(t, legacyInfo)
	require.NotNil(t, modernInfo)
	if diff := cmp.Diff(viewOf(modernInfo), viewOf(legacyInfo)); diff != "" {
		t.Errorf("legacy Info differs from modern (-modern +legacy):\n%s", diff)
	}
	assert.Equal(t, eli.OriginLegacy, legacyInfo.Origin)
	assert.Equal(t, eli.Unknown, legacyInfo.Source)

	c, err := element.Bind(legacyReg).Components.Create("oldlib", "ticker", element.ComponentID(3), params.New(nil))
	require.NoError(t, err)
	assert.Equal(t, "legacy", c.(*ticker).style)
	assert.Equal(t, element.ComponentID(3), c.ID())
	assert.Contains(t, gens, "oldlib.grid")
}

func TestIngest_PartitionerAndPythonModule(t *testing.T) {
	t.Parallel()
	reg := eli.NewRegistry()
	_, err := Ingest(reg, "oldlib", tickerBlock())
	require.NoError(t, err)
	fams := element.Bind(reg)

	part, err := fams.Partitioners.Create("oldlib", "roundrobin", element.RankInfo{Rank: 2}, element.RankInfo{}, 0)
	require.NoError(t, err)
	py1, err := fams.PythonModules.Create("oldlib", "oldlib", "oldlib")
	require.NoError(t, err)
	py2, err := fams.PythonModules.Create("oldlib", "oldlib", "oldlib")
	require.NoError(t, err)

	assert.Equal(t, map[element.ComponentID]element.RankInfo{10: {Rank: 0}, 11: {Rank: 1}, 12: {Rank: 0}},
		part.Partition([]element.ComponentID{10, 11, 12}))
	assert.Same(t, py1, py2, "python modules are cached")
	mod, err := py1.Load()
	require.NoError(t, err)
	assert.Equal(t, "oldlib-python", mod)
}

func TestIngest_ModuleAllocations(t *testing.T) {
	t.Parallel()
	type mod struct {
		element.ModuleBase
		owned bool
	}
	reg := eli.NewRegistry()
	block := &Block{Name: "mods", Modules: []Module{
		{Name: "plain", Alloc: func(*params.Params) element.Module { return &mod{} }},
		{Name: "owned", AllocWithComponent: func(element.Component, *params.Params) element.Module { return &mod{owned: true} }},
	}}

	_, err := Ingest(reg, "mods", block)
	require.NoError(t, err)
	fams := element.Bind(reg)

	_, err = fams.Modules.Create("mods", "plain", params.New(nil))
	assert.NoError(t, err)
	_, err = fams.Modules.Create("mods", "plain", &ticker{}, params.New(nil))
	assert.ErrorIs(t, err, eli.ErrSignatureMismatch)
	owned, err := fams.Modules.Create("mods", "owned", &ticker{}, params.New(nil))
	require.NoError(t, err)
	assert.True(t, owned.(*mod).owned)
}

func TestValidate_MalformedBlocks(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name    string
		block   *Block
		wantMsg string
	}{
		{name: "component without alloc", block: &Block{Name: "bad", Components: []Component{{Name: "c"}}}, wantMsg: `component "c" has no allocation function`},
		{name: "component without name", block: &Block{Name: "bad", Components: []Component{{Alloc: newLegacyTicker}}}, wantMsg: "component #0 has no name"},
		{name: "unnamed param", block: &Block{Name: "bad", Components: []Component{{Name: "c", Alloc: newLegacyTicker, Params: []Param{{Description: "x"}}}}}, wantMsg: `component "c" param #0 has no name`},
		{name: "module without alloc", block: &Block{Name: "bad", Modules: []Module{{Name: "m"}}}, wantMsg: `module "m" has no allocation function`},
		{name: "generator without func", block: &Block{Name: "bad", Generators: []Generator{{Name: "g"}}}, wantMsg: `generator "g" has no function`},
		{name: "repeated component name", block: &Block{Name: "bad", Components: []Component{{Name: "first", Alloc: newLegacyTicker}, {Name: "first", Alloc: newLegacyTicker}}}, wantMsg: `component "first" is declared more than once`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			reg := eli.NewRegistry()

			_, err := Ingest(reg, "bad", tc.block)

			require.ErrorIs(t, err, ErrMalformedLegacyBlock)
			assert.Contains(t, err.Error(), tc.wantMsg)
			assert.False(t, reg.IsLoaded("bad"), "a malformed block registers nothing")
		})
	}
}

func TestIngest_ConflictRegistersNothing(t *testing.T) {
	t.Parallel()
	// Arrange
	reg := eli.NewRegistry()
	fams := element.Bind(reg)
	require.NoError(t, fams.Components.TryRegister(eli.Element{
		Library: "dup", Name: "second",
		Constructors: []eli.Constructor{eli.Ctor2(newModernTicker)},
	}))
	block := &Block{
		Name: "dup",
		Components: []Component{
			{Name: "first", Alloc: newLegacyTicker},
			{Name: "second", Alloc: newLegacyTicker},
		},
		Generators: []Generator{{Name: "grid", Func: func(*params.Params) error { return nil }}},
	}

	// Act
	gens, err := Ingest(reg, "dup", block)

	// Assert
	require.ErrorIs(t, err, eli.ErrDuplicateRegistration)
	assert.Nil(t, gens)
	assert.Nil(t, fams.Components.Info("dup", "first"))
	assert.Equal(t, eli.OriginModern, fams.Components.Info("dup", "second").Origin)
}

func TestEmpty(t *testing.T) {
	t.Parallel()
	assert.True(t, Empty.IsEmpty())
	assert.NoError(t, Empty.Validate())
	assert.False(t, tickerBlock().IsEmpty())
	assert.True(t, (&Block{Name: "x"}).IsEmpty())
}

func TestCategoryName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "UNCATEGORIZED COMPONENT", CategoryName(0))
	assert.Equal(t, "MEMORY COMPONENT", CategoryName(0x2))
	assert.Equal(t, "PROCESSOR COMPONENT, SYSTEM COMPONENT", CategoryName(0x9))
}

func TestSymbolTable(t *testing.T) {
	t.Parallel()
	table := NewSymbolTable()
	table.Register("oldlib_ticker", newLegacyTicker)

	fn, err := Resolve[func(element.ComponentID, *params.Params) element.Component](table, "oldlib_ticker")
	require.NoError(t, err)
	_, err = Resolve[func(*params.Params) element.Module](table, "oldlib_ticker")
	assert.ErrorContains(t, err, "has type")
	_, err = Resolve[func()](table, "missing")
	assert.ErrorContains(t, err, "is not defined")

	assert.Equal(t, element.ComponentID(5), fn(5, nil).ID())
	assert.Equal(t, []string{"oldlib_ticker"}, table.Names())
	assert.Panics(t, func() { table.Register("oldlib_ticker", newLegacyTicker) })
	assert.Panics(t, func() { table.Register("not_a_func", 3) })
}

func TestStaticLoader(t *testing.T) {
	t.Parallel()
	loader := NewStaticLoader()
	block := tickerBlock()
	require.NoError(t, loader.Add("oldlib", block))

	got, err := loader.LoadLibrary(context.Background(), "oldlib", true)
	require.NoError(t, err)
	missing, err := loader.LoadLibrary(context.Background(), "nolib", true)
	require.NoError(t, err)

	assert.Same(t, block, got)
	assert.Nil(t, missing)
	assert.Error(t, loader.Add("oldlib", block))
	assert.Equal(t, []string{"oldlib"}, loader.Libraries())
}
