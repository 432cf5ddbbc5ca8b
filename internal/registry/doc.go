// Package registry implements the auction core: the item/bidder
// registry, the bid engine, and the auction lifecycle manager.
//
// All three live in one package because they share a single consistency
// boundary (one mutex). Every read and mutation of auction state
// acquires it, including the timed close that fires from its own
// goroutine. Broadcasts are enqueued through the notification hub while
// the mutex is held; hub enqueueing is non-blocking per recipient, so
// the boundary never waits on a slow client and every client observes
// broadcasts in the boundary's total order.
package registry
