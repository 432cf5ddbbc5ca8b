package hub

import (
	"testing"

	"github.com/google/uuid"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"

	"github.com/madhumi2611/auctiond/internal/model"
)

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	h := New(DefaultConfig(), nil)

	a := h.Subscribe(uuid.New(), "alice")
	b := h.Subscribe(uuid.New(), "bob")

	h.Broadcast(model.AuctionExpired{Item: "Vase"})

	check.Equal(t, "[ENDED: Vase expired]", <-a)
	check.Equal(t, "[ENDED: Vase expired]", <-b)
}

func TestBroadcastOrderPreserved(t *testing.T) {
	h := New(DefaultConfig(), nil)
	out := h.Subscribe(uuid.New(), "alice")

	h.Broadcast(model.AuctionStarted{Item: "Watch", Price: decimal.NewFromInt(100)})
	h.Broadcast(model.BidAccepted{Item: "Watch", Amount: decimal.NewFromInt(150), Bidder: "bob"})
	h.Broadcast(model.AuctionSold{Item: "Watch", Amount: decimal.NewFromInt(150), Winner: "bob"})

	check.Equal(t, "[AUCTION: Watch started, Price: 100]", <-out)
	check.Equal(t, "[BID: Watch 150 by bob]", <-out)
	check.Equal(t, "[ENDED: Watch sold to bob for 150]", <-out)
}

func TestSlowSubscriberDoesNotBlockOthers(t *testing.T) {
	h := New(Config{BufferSize: 1}, nil)

	slow := h.Subscribe(uuid.New(), "slow")
	fast := h.Subscribe(uuid.New(), "fast")

	// Second broadcast overflows the slow subscriber's buffer and must
	// still reach the fast one without blocking the caller.
	h.Broadcast(model.AuctionExpired{Item: "One"})
	h.Broadcast(model.AuctionExpired{Item: "Two"})

	check.Equal(t, "[ENDED: One expired]", <-fast)
	check.Equal(t, "[ENDED: Two expired]", <-fast)
	check.Equal(t, "[ENDED: One expired]", <-slow)

	stats := h.Stats()
	check.Equal(t, int64(2), stats.Broadcasts)
	check.Equal(t, int64(1), stats.Dropped)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := New(DefaultConfig(), nil)
	id := uuid.New()
	out := h.Subscribe(id, "alice")

	h.Unsubscribe(id)

	_, open := <-out
	check.False(t, open)
	check.Equal(t, 0, h.Stats().Subscribers)

	// Second unsubscribe is a no-op.
	h.Unsubscribe(id)
}

func TestEventSinkReceivesTypedEvents(t *testing.T) {
	h := New(DefaultConfig(), nil)
	sink := make(chan model.Event, 4)
	h.SetEventSink(sink)

	h.Broadcast(model.BidderDropped{Bidder: "bob"})

	assert.Equal(t, 1, len(sink))
	ev := <-sink
	check.Equal(t, "bidder_dropped", ev.Kind())
}
