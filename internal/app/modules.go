package app

import (
	"github.com/specialistvlad/eligo/internal/eli"
	"github.com/specialistvlad/eligo/modules/coreout"
	"github.com/specialistvlad/eligo/modules/simple"

	// oldlib publishes through the legacy protocol; importing it links its
	// block into the static loader and its symbols into the symbol table.
	_ "github.com/specialistvlad/eligo/modules/oldlib"
)

// Module registers a library's elements into a registry.
type Module interface {
	Register(r *eli.Registry)
}

// coreModules is the list of modern libraries compiled into the eli-info
// binary.
var coreModules = []Module{
	&coreout.Module{},
	&simple.Module{},
}
