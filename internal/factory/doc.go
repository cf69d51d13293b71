// Package factory is the host-facing entry point to the element registry. It
// loads libraries on demand through a Loader, bridges legacy blocks into the
// registry, and constructs elements from "library.element" type strings.
//
// Failures the host cannot recover from (unknown libraries or elements,
// constructor signature mismatches, malformed legacy blocks) go through the
// factory's fatal handler, which by default logs the error and exits.
package factory
