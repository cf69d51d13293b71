package oldlib

import (
	"context"
	"testing"

	"github.com/specialistvlad/eligo/internal/element"
	"github.com/specialistvlad/eligo/internal/eli"
	"github.com/specialistvlad/eligo/internal/hcl"
	"github.com/specialistvlad/eligo/internal/legacy"
	"github.com/specialistvlad/eligo/internal/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_LinksBlockAndSymbols(t *testing.T) {
	t.Parallel()

	assert.Contains(t, legacy.Static().Libraries(), Library)
	for name := range Symbols {
		_, ok := legacy.Symbols().Lookup(name)
		assert.True(t, ok, name)
	}
}

func TestBlock_Ingest(t *testing.T) {
	t.Parallel()
	// Arrange
	reg := eli.NewRegistry()
	fams := element.Bind(reg)

	// Act
	gens, err := legacy.Ingest(reg, Library, NewBlock())

	// Assert
	require.NoError(t, err)
	require.Contains(t, gens, "oldlib.star")
	info := fams.Components.Info(Library, "memctl")
	require.NotNil(t, info)
	assert.Equal(t, eli.OriginLegacy, info.Origin)
	assert.Equal(t, "MEMORY COMPONENT", info.Category())
	assert.Equal(t, eli.Unknown, info.ProtocolString())
	assert.Equal(t, "oldlib.Queue", fams.SubComponents.Info(Library, "fifo").InterfaceName())

	p := params.New(map[string]string{"spokes": "8"})
	require.NoError(t, gens["oldlib.star"](p))
	spokes, _ := p.Lookup("spokes")
	assert.Equal(t, "8", spokes)
}

func TestBlock_Construct(t *testing.T) {
	t.Parallel()
	reg := eli.NewRegistry()
	fams := element.Bind(reg)
	_, err := legacy.Ingest(reg, Library, NewBlock())
	require.NoError(t, err)

	comp, err := fams.Components.Create(Library, "memctl", element.ComponentID(1), params.New(nil))
	require.NoError(t, err)
	sub, err := fams.SubComponents.Create(Library, "fifo", comp, params.New(map[string]string{"depth": "4"}))
	require.NoError(t, err)
	part, err := fams.Partitioners.Create(Library, "roundrobin", element.RankInfo{Rank: 2}, element.RankInfo{}, 0)
	require.NoError(t, err)

	mem := comp.(*MemCtl)
	assert.Equal(t, "100ns", mem.Latency())
	assert.Same(t, sub, mem.queue)
	assert.Equal(t, 4, sub.(*FIFO).Depth())
	assert.Equal(t, element.RankInfo{Rank: 1}, part.Partition([]element.ComponentID{3})[3])
}

func TestManifest_Loads(t *testing.T) {
	t.Parallel()
	// Arrange
	syms := legacy.NewSymbolTable()
	for name, fn := range Symbols {
		syms.Register(name, fn)
	}
	loader := hcl.NewLoader(syms, ".")
	reg := eli.NewRegistry()
	fams := element.Bind(reg)

	// Act
	block, err := loader.LoadLibrary(context.Background(), ManifestLibrary, true)
	require.NoError(t, err)
	require.NotNil(t, block)
	gens, err := legacy.Ingest(reg, ManifestLibrary, block)
	require.NoError(t, err)

	// Assert
	assert.Contains(t, gens, "oldhcl.pipeline")
	info := fams.Components.Info(ManifestLibrary, "cache")
	require.NotNil(t, info)
	assert.Equal(t, []string{"high_network_0", "low_network_%(port)d"}, info.PortNames())
	assert.Equal(t, "MEMORY COMPONENT", info.Category())
	comp, err := fams.Components.Create(ManifestLibrary, "cache", element.ComponentID(9), params.New(nil))
	require.NoError(t, err)
	assert.Equal(t, 8, comp.(*Cache).Ways())
}
