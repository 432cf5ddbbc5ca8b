// Package dispatch maps parsed client commands onto registry
// operations and renders replies as plain text. It holds no state of
// its own; anything stateful happens inside the registry.
package dispatch
