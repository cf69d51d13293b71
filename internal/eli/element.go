package eli

// Element is a registration declaration. Capability fields left nil are
// filled by probing the constructor result type for documenter interfaces.
type Element struct {
	Library     string
	Name        string
	Description string
	Version     Version
	// Interface is the interface name the element provides.
	Interface string
	Category  string

	Params []ParamSpec
	Ports  []PortSpec
	Stats  []StatSpec
	Slots  []SlotSpec

	Constructors []Constructor

	// Source overrides the file:line recorded for the registering call.
	Source string
}
