// Package hcl loads legacy library manifests written in HCL. A manifest
// named <library>.eli.hcl describes one library's elements and names the Go
// allocation functions, registered in a legacy.SymbolTable, that build them.
package hcl
