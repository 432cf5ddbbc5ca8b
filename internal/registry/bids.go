package registry

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/madhumi2611/auctiond/internal/model"
)

// PlaceBid validates and applies a bid. Preconditions are checked in
// order under the mutex:
//
//  1. The session must have a registered bidder.
//  2. The amount must fit the bidder's remaining capacity. Overbidding
//     the budget is terminating: the bidder forfeits participation.
//  3. The item must exist, be active, and the amount must strictly beat
//     the current bid.
//
// Capacity is debited at auction close, not here, so a bidder can lead
// several auctions at once without the bids reserving against each
// other. An outbid leader keeps their connection; they only lose
// standing.
func (r *Registry) PlaceBid(session uuid.UUID, itemID int64, amount decimal.Decimal) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	bidder, ok := r.bidders[session]
	if !ok {
		return BidderNotFound
	}

	if amount.GreaterThan(bidder.Remaining()) {
		r.logger.Info("bid over budget",
			"bidder", bidder.Name,
			"item_id", itemID,
			"amount", amount,
			"remaining", bidder.Remaining(),
		)
		r.hub.Broadcast(model.BidderDropped{Bidder: bidder.Name})
		return BudgetExceeded
	}

	item, ok := r.byID[itemID]
	if !ok || item.Status != model.StatusActive || !amount.GreaterThan(item.CurrentBid) {
		return InvalidBid
	}

	item.CurrentBid = amount
	item.HighestBidder = bidder.Name
	item.LeaderSession = session

	r.logger.Info("bid accepted",
		"item_id", item.ID,
		"item", item.Name,
		"amount", amount,
		"bidder", bidder.Name,
	)
	r.hub.Broadcast(model.BidAccepted{
		Item:   item.Name,
		Amount: amount,
		Bidder: bidder.Name,
	})
	return Accepted
}
