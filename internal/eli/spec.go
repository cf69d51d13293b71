package eli

// ParamSpec documents one accepted parameter. A nil Default marks the
// parameter as required.
type ParamSpec struct {
	Name        string
	Description string
	Default     *string
}

// PortSpec documents one port and the event types it carries.
type PortSpec struct {
	Name        string
	Description string
	Events      []string
}

// StatSpec documents one statistic.
type StatSpec struct {
	Name        string
	Description string
	Units       string
	EnableLevel uint8
}

// SlotSpec documents a subcomponent slot and the interface it loads.
type SlotSpec struct {
	Name        string
	Description string
	Interface   string
}

// DefaultValue returns a pointer to s, for use in ParamSpec literals.
func DefaultValue(s string) *string {
	return &s
}

// The documenter interfaces let a constructed type describe itself. When an
// Element declaration leaves a capability field nil, the registry probes the
// zero value of the constructor's result type for the matching interface.

type ParamDocumenter interface {
	ELIParams() []ParamSpec
}

type PortDocumenter interface {
	ELIPorts() []PortSpec
}

type StatDocumenter interface {
	ELIStatistics() []StatSpec
}

type SlotDocumenter interface {
	ELISubComponentSlots() []SlotSpec
}

type CategoryDocumenter interface {
	ELICategory() string
}

type InterfaceProvider interface {
	ELIInterface() string
}
