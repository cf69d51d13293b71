// Package app contains the eli-info application logic: it wires the element
// registry, the library loaders and the factory together, loads every
// library it can find and renders their documentation. It is decoupled from
// the command line entrypoint.
package app
