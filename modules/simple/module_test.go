package simple

import (
	"testing"

	"github.com/specialistvlad/eligo/internal/element"
	"github.com/specialistvlad/eligo/internal/eli"
	"github.com/specialistvlad/eligo/internal/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistered(t *testing.T) element.Bound {
	t.Helper()
	reg := eli.NewRegistry()
	(&Module{}).Register(reg)
	return element.Bind(reg)
}

func TestRegister_SelfRegistersIntoDefault(t *testing.T) {
	t.Parallel()

	assert.True(t, eli.Default().IsLoaded(Library))
	assert.True(t, element.Components.Has(Library, "counter"))
	assert.True(t, element.PythonModules.Has(Library, Library))
}

func TestRegister_Catalog(t *testing.T) {
	t.Parallel()
	fams := newRegistered(t)

	var names []string
	for _, info := range fams.Components.Elements(Library) {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{"counter", "echo"}, names)
	assert.Equal(t, []string{Library}, fams.SubComponents.Libraries())
	assert.Equal(t, "simple.Table", fams.SubComponents.Info(Library, "lineartable").InterfaceName())
	assert.Equal(t, "1.2.0", fams.Modules.Info(Library, "logger").Version.String())
}

func TestEcho_DocumentsItself(t *testing.T) {
	t.Parallel()
	fams := newRegistered(t)

	info := fams.Components.Info(Library, "echo")

	require.NotNil(t, info)
	assert.Equal(t, "NETWORK COMPONENT", info.Category())
	assert.Contains(t, info.PortNames(), "out%(copies)d")
	assert.Contains(t, info.ParamNames(), "delay")
	stat, ok := info.Statistic("echoed")
	require.True(t, ok)
	assert.Equal(t, uint8(2), stat.EnableLevel)
}

func TestCounter_WithTable(t *testing.T) {
	t.Parallel()
	// Arrange
	fams := newRegistered(t)
	comp, err := fams.Components.Create(Library, "counter", element.ComponentID(7), params.New(map[string]string{"start": "5", "step": "2"}))
	require.NoError(t, err)
	counter := comp.(*Counter)

	// Act
	first := counter.Tick()
	_, err = fams.SubComponents.Create(Library, "lineartable", comp, params.New(map[string]string{"scale": "10", "offset": "0.5"}))
	require.NoError(t, err)
	second := counter.Tick()

	// Assert
	assert.Equal(t, element.ComponentID(7), counter.ID())
	assert.Equal(t, 5.0, first)
	assert.Equal(t, 70.5, second)
	assert.Equal(t, uint64(2), counter.Ticks())
}

func TestCounter_BadParamFallsBack(t *testing.T) {
	t.Parallel()

	comp := NewCounter(1, params.New(map[string]string{"start": "many"}))

	assert.Equal(t, 0.0, comp.(*Counter).Tick())
}

func TestLogger_BothSignatures(t *testing.T) {
	t.Parallel()
	fams := newRegistered(t)
	p := params.New(map[string]string{"prefix": "trace"})

	plain, err := fams.Modules.Create(Library, "logger", p)
	require.NoError(t, err)
	owned, err := fams.Modules.Create(Library, "logger", &Echo{id: 3}, p)
	require.NoError(t, err)

	assert.Equal(t, "trace", plain.(*Logger).Prefix())
	assert.Equal(t, "trace[3]", owned.(*Logger).Prefix())
}

func TestLinear_Partition(t *testing.T) {
	t.Parallel()
	fams := newRegistered(t)
	part, err := fams.Partitioners.Create(Library, "linear", element.RankInfo{Rank: 2, Thread: 1}, element.RankInfo{}, 0)
	require.NoError(t, err)

	got := part.Partition([]element.ComponentID{4, 1, 3, 2})

	assert.Equal(t, map[element.ComponentID]element.RankInfo{
		1: {Rank: 0}, 2: {Rank: 0}, 3: {Rank: 1}, 4: {Rank: 1},
	}, got)
}

func TestPythonModule_Cached(t *testing.T) {
	t.Parallel()
	fams := newRegistered(t)

	a, err := fams.PythonModules.Create(Library, Library, Library)
	require.NoError(t, err)
	b, err := fams.PythonModules.Create(Library, Library, Library)
	require.NoError(t, err)
	attrs, err := a.Load()
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, "sst.simple", attrs.(map[string]any)["__name__"])
}
