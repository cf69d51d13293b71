package eli

import (
	"fmt"
	"strconv"
	"strings"
)

// CapabilityKind identifies one metadata section of an Info.
type CapabilityKind int

const (
	CapParams CapabilityKind = iota
	CapPorts
	CapStats
	CapSlots
	CapCategory
	CapInterface
)

func (k CapabilityKind) String() string {
	switch k {
	case CapParams:
		return "Params"
	case CapPorts:
		return "Ports"
	case CapStats:
		return "Statistics"
	case CapSlots:
		return "SubComponentSlots"
	case CapCategory:
		return "Category"
	case CapInterface:
		return "Interface"
	default:
		return "CapabilityKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// DocNode is a node in a structured documentation tree. Implementations live
// in the doc package.
type DocNode interface {
	SetAttribute(key, value string)
	AddChild(kind string) DocNode
}

// Capability is one metadata section attached to an Info.
type Capability interface {
	Kind() CapabilityKind
	Names() []string
	String() string
	Serialize(n DocNode)
}

const (
	emptyText    = "<empty>"
	requiredText = "<required>"
)

func orEmpty(s string) string {
	if s == "" {
		return emptyText
	}
	return s
}

// ParamsCapability holds the documented parameters of an element.
type ParamsCapability struct {
	params []ParamSpec
}

func NewParamsCapability(params []ParamSpec) *ParamsCapability {
	return &ParamsCapability{params: append([]ParamSpec(nil), params...)}
}

func (c *ParamsCapability) Kind() CapabilityKind { return CapParams }

func (c *ParamsCapability) List() []ParamSpec {
	return append([]ParamSpec(nil), c.params...)
}

func (c *ParamsCapability) Names() []string {
	names := make([]string, 0, len(c.params))
	for _, p := range c.params {
		names = append(names, p.Name)
	}
	return names
}

// KeySet returns the de-duplicated set of parameter names.
func (c *ParamsCapability) KeySet() map[string]struct{} {
	keys := make(map[string]struct{}, len(c.params))
	for _, p := range c.params {
		keys[p.Name] = struct{}{}
	}
	return keys
}

func (c *ParamsCapability) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "      Parameters (%d total):\n", len(c.params))
	for _, p := range c.params {
		def := requiredText
		if p.Default != nil {
			def = *p.Default
		}
		fmt.Fprintf(&b, "        %s: %s (%s)\n", p.Name, orEmpty(p.Description), def)
	}
	return b.String()
}

func (c *ParamsCapability) Serialize(n DocNode) {
	for i, p := range c.params {
		child := n.AddChild("Parameter")
		child.SetAttribute("Index", strconv.Itoa(i))
		child.SetAttribute("Name", p.Name)
		child.SetAttribute("Description", orEmpty(p.Description))
		if p.Default != nil {
			child.SetAttribute("Default", *p.Default)
		}
	}
}

// PortsCapability holds the documented ports of an element.
type PortsCapability struct {
	ports []PortSpec
}

func NewPortsCapability(ports []PortSpec) *PortsCapability {
	return &PortsCapability{ports: append([]PortSpec(nil), ports...)}
}

func (c *PortsCapability) Kind() CapabilityKind { return CapPorts }

func (c *PortsCapability) List() []PortSpec {
	return append([]PortSpec(nil), c.ports...)
}

func (c *PortsCapability) Names() []string {
	names := make([]string, 0, len(c.ports))
	for _, p := range c.ports {
		names = append(names, p.Name)
	}
	return names
}

func (c *PortsCapability) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "      Ports (%d total):\n", len(c.ports))
	for _, p := range c.ports {
		fmt.Fprintf(&b, "        %s: %s\n", p.Name, orEmpty(p.Description))
	}
	return b.String()
}

func (c *PortsCapability) Serialize(n DocNode) {
	for i, p := range c.ports {
		child := n.AddChild("Port")
		child.SetAttribute("Index", strconv.Itoa(i))
		child.SetAttribute("Name", p.Name)
		child.SetAttribute("Description", orEmpty(p.Description))
		for _, ev := range p.Events {
			child.AddChild("Event").SetAttribute("Name", ev)
		}
	}
}

// StatsCapability holds the documented statistics of an element.
type StatsCapability struct {
	stats []StatSpec
}

func NewStatsCapability(stats []StatSpec) *StatsCapability {
	return &StatsCapability{stats: append([]StatSpec(nil), stats...)}
}

func (c *StatsCapability) Kind() CapabilityKind { return CapStats }

func (c *StatsCapability) List() []StatSpec {
	return append([]StatSpec(nil), c.stats...)
}

func (c *StatsCapability) Names() []string {
	names := make([]string, 0, len(c.stats))
	for _, s := range c.stats {
		names = append(names, s.Name)
	}
	return names
}

// Lookup returns the first statistic with the given name.
func (c *StatsCapability) Lookup(name string) (StatSpec, bool) {
	for _, s := range c.stats {
		if s.Name == name {
			return s, true
		}
	}
	return StatSpec{}, false
}

func (c *StatsCapability) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "      Statistics (%d total):\n", len(c.stats))
	for _, s := range c.stats {
		fmt.Fprintf(&b, "        %s: %s (%s).  Enable level = %d\n",
			s.Name, orEmpty(s.Description), orEmpty(s.Units), s.EnableLevel)
	}
	return b.String()
}

func (c *StatsCapability) Serialize(n DocNode) {
	for i, s := range c.stats {
		child := n.AddChild("Statistic")
		child.SetAttribute("Index", strconv.Itoa(i))
		child.SetAttribute("Name", s.Name)
		child.SetAttribute("Description", orEmpty(s.Description))
		child.SetAttribute("Units", orEmpty(s.Units))
		child.SetAttribute("EnableLevel", strconv.Itoa(int(s.EnableLevel)))
	}
}

// SlotsCapability holds the subcomponent slots of an element.
type SlotsCapability struct {
	slots []SlotSpec
}

func NewSlotsCapability(slots []SlotSpec) *SlotsCapability {
	return &SlotsCapability{slots: append([]SlotSpec(nil), slots...)}
}

func (c *SlotsCapability) Kind() CapabilityKind { return CapSlots }

func (c *SlotsCapability) List() []SlotSpec {
	return append([]SlotSpec(nil), c.slots...)
}

func (c *SlotsCapability) Names() []string {
	names := make([]string, 0, len(c.slots))
	for _, s := range c.slots {
		names = append(names, s.Name)
	}
	return names
}

func (c *SlotsCapability) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "      SubComponent Slots (%d total):\n", len(c.slots))
	for _, s := range c.slots {
		fmt.Fprintf(&b, "        %s: %s (%s)\n", s.Name, orEmpty(s.Description), orEmpty(s.Interface))
	}
	return b.String()
}

func (c *SlotsCapability) Serialize(n DocNode) {
	for i, s := range c.slots {
		child := n.AddChild("SubComponentSlot")
		child.SetAttribute("Index", strconv.Itoa(i))
		child.SetAttribute("Name", s.Name)
		child.SetAttribute("Description", orEmpty(s.Description))
		child.SetAttribute("Interface", orEmpty(s.Interface))
	}
}

// CategoryCapability tags a component with a free-form category.
type CategoryCapability struct {
	category string
}

func NewCategoryCapability(category string) *CategoryCapability {
	return &CategoryCapability{category: category}
}

func (c *CategoryCapability) Kind() CapabilityKind { return CapCategory }
func (c *CategoryCapability) Value() string        { return c.category }

func (c *CategoryCapability) Names() []string {
	if c.category == "" {
		return nil
	}
	return []string{c.category}
}

func (c *CategoryCapability) String() string {
	return fmt.Sprintf("      Category: %s\n", orEmpty(c.category))
}

func (c *CategoryCapability) Serialize(n DocNode) {
	n.SetAttribute("Category", orEmpty(c.category))
}

// InterfaceCapability names the interface an element provides.
type InterfaceCapability struct {
	name string
}

func NewInterfaceCapability(name string) *InterfaceCapability {
	return &InterfaceCapability{name: name}
}

func (c *InterfaceCapability) Kind() CapabilityKind { return CapInterface }
func (c *InterfaceCapability) Value() string        { return c.name }

func (c *InterfaceCapability) Names() []string {
	if c.name == "" {
		return nil
	}
	return []string{c.name}
}

func (c *InterfaceCapability) String() string {
	return fmt.Sprintf("      Interface: %s\n", orEmpty(c.name))
}

func (c *InterfaceCapability) Serialize(n DocNode) {
	n.SetAttribute("Interface", orEmpty(c.name))
}
