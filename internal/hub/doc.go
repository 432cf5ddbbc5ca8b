// Package hub implements the Notification Hub component.
//
// The hub:
//   - Tracks one outbound channel per connected bidder
//   - Fans out state-change events to every channel, best-effort
//   - Never blocks the broadcaster on a slow recipient (full buffers drop)
//   - Optionally forwards typed events to the archive sink
package hub
