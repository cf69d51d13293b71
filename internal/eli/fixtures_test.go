package eli

import (
	"reflect"
	"testing"
)

type widget interface {
	Size() int
}

type basicWidget struct {
	size int
	tag  string
}

func (w *basicWidget) Size() int { return w.size }

type documentedWidget struct{ basicWidget }

func (*documentedWidget) ELIParams() []ParamSpec {
	return []ParamSpec{{Name: "size", Description: "Widget size", Default: DefaultValue("1")}}
}

func (*documentedWidget) ELIPorts() []PortSpec {
	return []PortSpec{{Name: "port%d", Description: "Numbered ports"}}
}

func (*documentedWidget) ELICategory() string { return "PROCESSOR COMPONENT" }

var (
	intSig    = NewSignature(reflect.TypeFor[int]())
	intIntSig = NewSignature(reflect.TypeFor[int](), reflect.TypeFor[int]())
	strSig    = NewSignature(reflect.TypeFor[string]())
)

// newWidgetFamily returns a fresh family bound to a fresh registry.
func newWidgetFamily(t *testing.T, opts ...FamilyOption) *Family[widget] {
	t.Helper()
	if len(opts) == 0 {
		opts = []FamilyOption{
			WithSignatures(intSig, intIntSig, strSig),
			WithCapabilities(CapParams, CapPorts, CapStats, CapCategory),
		}
	}
	return NewFamily[widget]("Widget", opts...).WithRegistry(NewRegistry())
}

func newBasic(size int) widget { return &basicWidget{size: size, tag: "int"} }

func newBasicPair(a, b int) widget { return &basicWidget{size: a * b, tag: "pair"} }

func newNamed(name string) widget { return &basicWidget{size: len(name), tag: "string"} }
