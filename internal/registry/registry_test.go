package registry

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"

	"github.com/madhumi2611/auctiond/internal/hub"
	"github.com/madhumi2611/auctiond/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestRegistry returns a registry wired to a hub whose typed events
// are captured on the returned channel.
func newTestRegistry(t *testing.T, cfg Config) (*Registry, chan model.Event) {
	t.Helper()

	h := hub.New(hub.DefaultConfig(), testLogger())
	events := make(chan model.Event, 64)
	h.SetEventSink(events)

	r := New(cfg, h, testLogger())
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		r.Stop(ctx)
	})
	return r, events
}

// nextEvent waits for the next broadcast event.
func nextEvent(t *testing.T, events <-chan model.Event) model.Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast event")
		return nil
	}
}

func money(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestAddItemAssignsMonotonicIDs(t *testing.T) {
	r, _ := newTestRegistry(t, DefaultConfig())

	watch := r.AddItem("Watch", "Vintage pocket watch", money(100))
	painting := r.AddItem("Painting", "Oil painting", money(250))

	check.Equal(t, int64(1), watch.ID)
	check.Equal(t, int64(2), painting.ID)
	check.Equal(t, model.StatusPending, watch.Status)
	check.True(t, watch.CurrentBid.Equal(money(100)))
	check.False(t, watch.HasLeader())
}

func TestListItemsReturnsCopiesInCreationOrder(t *testing.T) {
	r, _ := newTestRegistry(t, DefaultConfig())

	r.AddItem("Watch", "", money(100))
	r.AddItem("Book", "", money(75))

	items := r.ListItems()
	assert.Equal(t, 2, len(items))
	check.Equal(t, "Watch", items[0].Name)
	check.Equal(t, "Book", items[1].Name)

	// Mutating the returned slice must not leak into the registry.
	items[0].CurrentBid = money(999)
	check.True(t, r.ListItems()[0].CurrentBid.Equal(money(100)))
}

func TestAddAndGetBidder(t *testing.T) {
	r, _ := newTestRegistry(t, DefaultConfig())
	session := uuid.New()

	r.AddBidder(session, "alice", money(500))

	b, ok := r.GetBidder(session)
	assert.True(t, ok)
	check.Equal(t, "alice", b.Name)
	check.True(t, b.Budget.Equal(money(500)))
	check.True(t, b.Remaining().Equal(money(500)))

	_, ok = r.GetBidder(uuid.New())
	check.False(t, ok)
}

func TestRemoveBidderResetsLedItems(t *testing.T) {
	r, events := newTestRegistry(t, Config{AuctionDuration: time.Hour})

	watch := r.AddItem("Watch", "", money(100))
	book := r.AddItem("Book", "", money(75))

	alice := uuid.New()
	r.AddBidder(alice, "alice", money(1000))

	check.Equal(t, Started, r.StartAuction(watch.ID))
	check.Equal(t, Started, r.StartAuction(book.ID))
	check.Equal(t, Accepted, r.PlaceBid(alice, watch.ID, money(150)))
	check.Equal(t, Accepted, r.PlaceBid(alice, book.ID, money(90)))

	// Drain the start/bid events before the part under test.
	for i := 0; i < 4; i++ {
		nextEvent(t, events)
	}

	r.RemoveBidder(alice)

	items := r.ListItems()
	for _, item := range items {
		check.True(t, item.CurrentBid.Equal(item.BasePrice))
		check.Equal(t, "", item.HighestBidder)
		check.False(t, item.HasLeader())
		check.Equal(t, model.StatusActive, item.Status)
	}

	// One reset broadcast per led item.
	for i := 0; i < 2; i++ {
		ev := nextEvent(t, events)
		check.Equal(t, "bid_reset", ev.Kind())
	}
}

func TestRemoveBidderLeavesSoldItemsAlone(t *testing.T) {
	r, events := newTestRegistry(t, Config{AuctionDuration: time.Hour})

	watch := r.AddItem("Watch", "", money(100))
	alice := uuid.New()
	r.AddBidder(alice, "alice", money(500))

	r.StartAuction(watch.ID)
	r.PlaceBid(alice, watch.ID, money(150))
	r.closeAuction(watch.ID)

	for i := 0; i < 3; i++ {
		nextEvent(t, events)
	}

	r.RemoveBidder(alice)

	item := r.ListItems()[0]
	check.Equal(t, model.StatusSold, item.Status)
	check.Equal(t, "alice", item.HighestBidder)
	check.True(t, item.CurrentBid.Equal(money(150)))
	check.Equal(t, 0, len(events))
}

func TestRemoveUnknownBidderIsNoop(t *testing.T) {
	r, events := newTestRegistry(t, DefaultConfig())
	r.RemoveBidder(uuid.New())
	check.Equal(t, 0, len(events))
}
