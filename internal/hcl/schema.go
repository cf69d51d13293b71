package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot is the top level of a manifest file.
type fileRoot struct {
	Libraries []*libraryBlock `hcl:"library,block"`
	Remain    hcl.Body        `hcl:",remain"`
}

type libraryBlock struct {
	Name          string               `hcl:"name,label"`
	Description   string               `hcl:"description,optional"`
	Components    []*componentBlock    `hcl:"component,block"`
	SubComponents []*subComponentBlock `hcl:"subcomponent,block"`
	Modules       []*moduleBlock       `hcl:"module,block"`
	Partitioners  []*funcBlock         `hcl:"partitioner,block"`
	Generators    []*funcBlock         `hcl:"generator,block"`
	PythonModule  string               `hcl:"python_module,optional"`
}

type componentBlock struct {
	Name        string      `hcl:"name,label"`
	Description string      `hcl:"description,optional"`
	Alloc       string      `hcl:"alloc"`
	Categories  []string    `hcl:"categories,optional"`
	Params      []*paramDef `hcl:"param,block"`
	Ports       []*portDef  `hcl:"port,block"`
	Stats       []*statDef  `hcl:"statistic,block"`
	Slots       []*slotDef  `hcl:"subcomponent_slot,block"`
}

type subComponentBlock struct {
	Name        string      `hcl:"name,label"`
	Description string      `hcl:"description,optional"`
	Alloc       string      `hcl:"alloc"`
	Provides    string      `hcl:"provides,optional"`
	Params      []*paramDef `hcl:"param,block"`
	Ports       []*portDef  `hcl:"port,block"`
	Stats       []*statDef  `hcl:"statistic,block"`
	Slots       []*slotDef  `hcl:"subcomponent_slot,block"`
}

type moduleBlock struct {
	Name               string      `hcl:"name,label"`
	Description        string      `hcl:"description,optional"`
	Alloc              string      `hcl:"alloc,optional"`
	AllocWithComponent string      `hcl:"alloc_with_component,optional"`
	Provides           string      `hcl:"provides,optional"`
	Params             []*paramDef `hcl:"param,block"`
}

// funcBlock covers partitioners and generators, which only name a function.
type funcBlock struct {
	Name        string `hcl:"name,label"`
	Description string `hcl:"description,optional"`
	Func        string `hcl:"func"`
}

type paramDef struct {
	Name        string     `hcl:"name,label"`
	Description string     `hcl:"description,optional"`
	Default     *cty.Value `hcl:"default,optional"`
}

type portDef struct {
	Name        string   `hcl:"name,label"`
	Description string   `hcl:"description,optional"`
	Events      []string `hcl:"events,optional"`
}

type statDef struct {
	Name        string `hcl:"name,label"`
	Description string `hcl:"description,optional"`
	Units       string `hcl:"units,optional"`
	EnableLevel int    `hcl:"enable_level,optional"`
}

type slotDef struct {
	Name        string `hcl:"name,label"`
	Description string `hcl:"description,optional"`
	Interface   string `hcl:"interface,optional"`
}
