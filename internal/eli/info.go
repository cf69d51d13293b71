package eli

import (
	"fmt"
	"reflect"
	"strings"
)

// Origin records which registration protocol produced an element.
type Origin int

const (
	OriginModern Origin = iota
	OriginLegacy
)

func (o Origin) String() string {
	if o == OriginLegacy {
		return "legacy"
	}
	return "modern"
}

// Descriptor is the identity and provenance block shared by every Info.
type Descriptor struct {
	Library     string
	Name        string
	Description string
	Version     Version
	Interface   string

	Source    string
	BuildDate string
	// Protocol is the ELI version the element was registered against. It is
	// zero for legacy elements.
	Protocol Version
}

// ProtocolString renders Protocol, or Unknown for legacy descriptors.
func (d Descriptor) ProtocolString() string {
	if d.Protocol.IsZero() {
		return Unknown
	}
	return d.Protocol.String()
}

func (d Descriptor) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "    %s: %s\n", d.Name, orEmpty(d.Description))
	fmt.Fprintf(&b, "    Using ELI version %s\n", d.ProtocolString())
	fmt.Fprintf(&b, "    Compiled on: %s, using file: %s\n", d.BuildDate, d.Source)
	return b.String()
}

// Info is the read-only aggregate of a descriptor and its capabilities.
type Info struct {
	Descriptor
	Origin Origin

	caps []Capability
}

// Capabilities returns the capabilities in the family's declared order.
func (i *Info) Capabilities() []Capability {
	return append([]Capability(nil), i.caps...)
}

// Capability returns the capability of the given kind, or nil.
func (i *Info) Capability(kind CapabilityKind) Capability {
	for _, c := range i.caps {
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

func (i *Info) ValidParams() []ParamSpec {
	if c, ok := i.Capability(CapParams).(*ParamsCapability); ok {
		return c.List()
	}
	return nil
}

// ParamNames returns the set of documented parameter names. It is what the
// factory pushes onto a Params allowed-key stack.
func (i *Info) ParamNames() map[string]struct{} {
	if c, ok := i.Capability(CapParams).(*ParamsCapability); ok {
		return c.KeySet()
	}
	return map[string]struct{}{}
}

func (i *Info) ValidPorts() []PortSpec {
	if c, ok := i.Capability(CapPorts).(*PortsCapability); ok {
		return c.List()
	}
	return nil
}

func (i *Info) PortNames() []string {
	if c := i.Capability(CapPorts); c != nil {
		return c.Names()
	}
	return nil
}

func (i *Info) ValidStats() []StatSpec {
	if c, ok := i.Capability(CapStats).(*StatsCapability); ok {
		return c.List()
	}
	return nil
}

func (i *Info) StatNames() []string {
	if c := i.Capability(CapStats); c != nil {
		return c.Names()
	}
	return nil
}

// Statistic returns the first statistic with the given name.
func (i *Info) Statistic(name string) (StatSpec, bool) {
	if c, ok := i.Capability(CapStats).(*StatsCapability); ok {
		return c.Lookup(name)
	}
	return StatSpec{}, false
}

func (i *Info) SubComponentSlots() []SlotSpec {
	if c, ok := i.Capability(CapSlots).(*SlotsCapability); ok {
		return c.List()
	}
	return nil
}

func (i *Info) Category() string {
	if c, ok := i.Capability(CapCategory).(*CategoryCapability); ok {
		return c.Value()
	}
	return ""
}

// InterfaceName returns the provided interface, from the capability when the
// family carries one and from the descriptor otherwise.
func (i *Info) InterfaceName() string {
	if c, ok := i.Capability(CapInterface).(*InterfaceCapability); ok {
		return c.Value()
	}
	return i.Interface
}

func (i *Info) String() string {
	var b strings.Builder
	b.WriteString(i.Descriptor.String())
	for _, c := range i.caps {
		b.WriteString(c.String())
	}
	return b.String()
}

// Serialize writes the descriptor attributes to n and lets every capability
// add its own attributes and children.
func (i *Info) Serialize(n DocNode) {
	n.SetAttribute("Name", i.Name)
	n.SetAttribute("Description", orEmpty(i.Description))
	if !i.Version.IsZero() {
		n.SetAttribute("Version", i.Version.String())
	}
	n.SetAttribute("ELIVersion", i.ProtocolString())
	for _, c := range i.caps {
		c.Serialize(n)
	}
}

// buildCapabilities assembles the family's capability kinds from the
// declaration, probing the zero value of result for documenter interfaces
// where the declaration is silent.
func buildCapabilities(kinds []CapabilityKind, el *Element, result reflect.Type) []Capability {
	var probe any
	switch {
	case result == nil || result.Kind() == reflect.Interface:
	case result.Kind() == reflect.Pointer:
		probe = reflect.New(result.Elem()).Interface()
	default:
		probe = reflect.Zero(result).Interface()
	}
	caps := make([]Capability, 0, len(kinds))
	for _, k := range kinds {
		switch k {
		case CapParams:
			list := el.Params
			if list == nil {
				if d, ok := probe.(ParamDocumenter); ok {
					list = d.ELIParams()
				}
			}
			caps = append(caps, NewParamsCapability(list))
		case CapPorts:
			list := el.Ports
			if list == nil {
				if d, ok := probe.(PortDocumenter); ok {
					list = d.ELIPorts()
				}
			}
			caps = append(caps, NewPortsCapability(list))
		case CapStats:
			list := el.Stats
			if list == nil {
				if d, ok := probe.(StatDocumenter); ok {
					list = d.ELIStatistics()
				}
			}
			caps = append(caps, NewStatsCapability(list))
		case CapSlots:
			list := el.Slots
			if list == nil {
				if d, ok := probe.(SlotDocumenter); ok {
					list = d.ELISubComponentSlots()
				}
			}
			caps = append(caps, NewSlotsCapability(list))
		case CapCategory:
			cat := el.Category
			if cat == "" {
				if d, ok := probe.(CategoryDocumenter); ok {
					cat = d.ELICategory()
				}
			}
			caps = append(caps, NewCategoryCapability(cat))
		case CapInterface:
			name := el.Interface
			if name == "" {
				if d, ok := probe.(InterfaceProvider); ok {
					name = d.ELIInterface()
				}
			}
			caps = append(caps, NewInterfaceCapability(name))
		}
	}
	return caps
}
