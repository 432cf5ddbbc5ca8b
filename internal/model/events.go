package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Event is a state change broadcast to every connected bidder.
// Message returns the human-readable payload; the notification hub
// wraps it in brackets on the wire. Kind is a stable tag used by the
// event archive.
type Event interface {
	Kind() string
	Message() string
}

// AuctionStarted announces that an item is now accepting bids.
type AuctionStarted struct {
	Item  string
	Price decimal.Decimal
}

func (e AuctionStarted) Kind() string { return "auction_started" }

func (e AuctionStarted) Message() string {
	return fmt.Sprintf("AUCTION: %s started, Price: %s", e.Item, e.Price)
}

// BidAccepted announces a new leading bid.
type BidAccepted struct {
	Item   string
	Amount decimal.Decimal
	Bidder string
}

func (e BidAccepted) Kind() string { return "bid_accepted" }

func (e BidAccepted) Message() string {
	return fmt.Sprintf("BID: %s %s by %s", e.Item, e.Amount, e.Bidder)
}

// AuctionSold announces that an auction closed with a winner.
type AuctionSold struct {
	Item   string
	Amount decimal.Decimal
	Winner string
}

func (e AuctionSold) Kind() string { return "auction_sold" }

func (e AuctionSold) Message() string {
	return fmt.Sprintf("ENDED: %s sold to %s for %s", e.Item, e.Winner, e.Amount)
}

// AuctionExpired announces that an auction closed with no bids.
type AuctionExpired struct {
	Item string
}

func (e AuctionExpired) Kind() string { return "auction_expired" }

func (e AuctionExpired) Message() string {
	return fmt.Sprintf("ENDED: %s expired", e.Item)
}

// BidReset announces that the leading bidder disconnected and the item
// dropped back to its base price.
type BidReset struct {
	Item   string
	Price  decimal.Decimal
	Bidder string
}

func (e BidReset) Kind() string { return "bid_reset" }

func (e BidReset) Message() string {
	return fmt.Sprintf("RESET: %s back to %s, %s left", e.Item, e.Price, e.Bidder)
}

// BidderDropped announces that a bidder was disconnected for attempting
// to bid past their budget.
type BidderDropped struct {
	Bidder string
}

func (e BidderDropped) Kind() string { return "bidder_dropped" }

func (e BidderDropped) Message() string {
	return fmt.Sprintf("DROPPED: %s exceeded budget", e.Bidder)
}
