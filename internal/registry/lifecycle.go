package registry

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/madhumi2611/auctiond/internal/model"
)

// StartAuction transitions an item from pending to active, broadcasts
// the opening, and schedules the timed close. Starting an item that is
// already active or terminal is rejected.
func (r *Registry) StartAuction(itemID int64) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.byID[itemID]
	if !ok || item.Status != model.StatusPending {
		return CannotStart
	}

	item.Status = model.StatusActive

	r.logger.Info("auction started",
		"item_id", item.ID,
		"item", item.Name,
		"base_price", item.BasePrice,
		"closes_in", r.cfg.AuctionDuration,
	)
	r.hub.Broadcast(model.AuctionStarted{
		Item:  item.Name,
		Price: item.BasePrice,
	})

	r.scheduleClose(itemID, r.cfg.AuctionDuration)
	return Started
}

// scheduleClose arms the independent close task for an item. The timer
// is not cancelable through the API; it always fires and the close
// itself is idempotent. Only process shutdown abandons it.
func (r *Registry) scheduleClose(itemID int64, after time.Duration) {
	ctx := r.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		timer := time.NewTimer(after)
		defer timer.Stop()

		select {
		case <-ctx.Done():
		case <-timer.C:
			r.closeAuction(itemID)
		}
	}()
}

// closeAuction resolves an active auction. It runs from the timer
// goroutine and takes the same mutex as every other mutation, so it
// cannot interleave with an in-flight bid. Re-checking the status makes
// a second firing a no-op.
func (r *Registry) closeAuction(itemID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.byID[itemID]
	if !ok || item.Status != model.StatusActive {
		return
	}

	if !item.HasLeader() {
		item.Status = model.StatusExpired
		r.logger.Info("auction expired", "item_id", item.ID, "item", item.Name)
		r.hub.Broadcast(model.AuctionExpired{Item: item.Name})
		return
	}

	item.Status = model.StatusSold
	winner := item.HighestBidder
	if b, ok := r.bidders[item.LeaderSession]; ok {
		b.Committed = b.Committed.Add(item.CurrentBid)
	}
	item.LeaderSession = uuid.Nil

	r.logger.Info("auction sold",
		"item_id", item.ID,
		"item", item.Name,
		"amount", item.CurrentBid,
		"winner", winner,
	)
	r.hub.Broadcast(model.AuctionSold{
		Item:   item.Name,
		Amount: item.CurrentBid,
		Winner: winner,
	})
}
