package element

import (
	"testing"

	"github.com/specialistvlad/eligo/internal/eli"
	"github.com/specialistvlad/eligo/internal/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testComponent struct {
	id ComponentID
	p  *params.Params
}

func (c *testComponent) ID() ComponentID { return c.id }

type testModule struct {
	ModuleBase
	owner Component
}

func TestComponents_ConstructWithIDAndParams(t *testing.T) {
	t.Parallel()
	fams := Bind(eli.NewRegistry())
	fams.Components.Register(eli.Element{
		Library: "mylib", Name: "widget",
		Params: []eli.ParamSpec{{Name: "size"}},
		Constructors: []eli.Constructor{eli.Ctor2(func(id ComponentID, p *params.Params) Component {
			return &testComponent{id: id, p: p}
		})},
	})
	p := params.New(map[string]string{"size": "10"})

	// Plain int ids normalize to ComponentID.
	c, err := fams.Components.Create("mylib", "widget", 7, p)

	require.NoError(t, err)
	assert.Equal(t, ComponentID(7), c.ID())
	assert.Same(t, p, c.(*testComponent).p)
}

func TestModules_BothSignatures(t *testing.T) {
	t.Parallel()
	fams := Bind(eli.NewRegistry())
	fams.Modules.Register(eli.Element{
		Library: "mylib", Name: "helper", Interface: "mylib.Helper",
		Constructors: []eli.Constructor{
			eli.Ctor1(func(*params.Params) Module { return &testModule{} }),
			eli.Ctor2(func(owner Component, _ *params.Params) Module { return &testModule{owner: owner} }),
		},
	})
	owner := &testComponent{id: 1}

	plain, err := fams.Modules.Create("mylib", "helper", params.New(nil))
	require.NoError(t, err)
	owned, err := fams.Modules.Create("mylib", "helper", owner, params.New(nil))
	require.NoError(t, err)

	assert.Nil(t, plain.(*testModule).owner)
	assert.Same(t, owner, owned.(*testModule).owner)
	assert.Equal(t, "mylib.Helper", fams.Modules.Info("mylib", "helper").InterfaceName())
}

func TestCatalogs_Order(t *testing.T) {
	t.Parallel()
	var names []string
	for _, c := range Bind(eli.NewRegistry()).Catalogs() {
		names = append(names, c.Name())
	}

	assert.Equal(t, []string{"Component", "SubComponent", "Module", "StatisticOutput", "Partitioner", "PythonModule"}, names)
	assert.Len(t, Catalogs(), len(names))
}
