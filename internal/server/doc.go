// Package server implements the connection layer: the TCP accept loop,
// the WebSocket upgrade path, and the per-session handshake and command
// loop. It owns all blocking I/O; the registry is only ever called with
// parsed input, and everything written back to a client happens outside
// the registry's consistency boundary.
package server
