// Package eli implements the Extensible Library Interface: the registry that
// element plugins fill from their init functions and that the host queries by
// library and element name.
//
// A Family describes one abstract base (components, modules, partitioners and
// so on): its Go interface, the ordered list of constructor signatures it
// accepts, the capability kinds its metadata carries and its allocation
// policy. Elements register against a family with an Element declaration and
// one or more typed constructors built with Ctor0..Ctor4. Lookups return an
// Info (metadata only) or construct an instance by picking the first declared
// signature the caller's arguments satisfy.
//
// Every family stores its data in a Registry. Families are bound to the
// process-wide registry returned by Default unless rebound with WithRegistry,
// which is how tests get isolated registries.
package eli
