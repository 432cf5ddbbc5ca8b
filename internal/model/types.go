package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemStatus is the lifecycle state of an auction item.
type ItemStatus string

const (
	StatusPending ItemStatus = "pending" // created, auction not yet started
	StatusActive  ItemStatus = "active"  // auction running, accepting bids
	StatusSold    ItemStatus = "sold"    // closed with a winning bid (terminal)
	StatusExpired ItemStatus = "expired" // closed with no bids (terminal)
)

// Terminal reports whether the status can never change again.
func (s ItemStatus) Terminal() bool {
	return s == StatusSold || s == StatusExpired
}

// Item is a lot in the auction house.
type Item struct {
	ID          int64
	Name        string
	Description string

	// BasePrice is fixed at creation. CurrentBid starts at BasePrice and
	// only increases while the item is active; it resets to BasePrice if
	// the leading bidder disconnects mid-auction.
	BasePrice  decimal.Decimal
	CurrentBid decimal.Decimal

	// HighestBidder is the display name of the current leader, empty when
	// no bid stands. LeaderSession identifies the leader's connection;
	// it is resolved through the registry, never compared across restarts.
	HighestBidder string
	LeaderSession uuid.UUID

	Status ItemStatus
}

// HasLeader reports whether a bid currently stands on the item.
func (i Item) HasLeader() bool {
	return i.LeaderSession != uuid.Nil
}

// Bidder is a connected client that completed the handshake.
type Bidder struct {
	// Session is the opaque handle tying the bidder to its connection
	// and its outbound channel in the notification hub.
	Session uuid.UUID

	Name   string
	Budget decimal.Decimal

	// Committed is the sum of amounts won, settled at auction close
	// (not at bid time). Always <= Budget.
	Committed decimal.Decimal
}

// Remaining returns the bidder's spendable capacity.
func (b Bidder) Remaining() decimal.Decimal {
	return b.Budget.Sub(b.Committed)
}
