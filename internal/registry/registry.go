package registry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/madhumi2611/auctiond/internal/hub"
	"github.com/madhumi2611/auctiond/internal/model"
)

// Config holds registry configuration.
type Config struct {
	// AuctionDuration is how long an auction stays open after start.
	AuctionDuration time.Duration
}

// DefaultConfig returns sensible defaults. The demo duration is kept
// under a minute.
func DefaultConfig() Config {
	return Config{AuctionDuration: 45 * time.Second}
}

// Stats provides registry statistics for the health endpoint.
type Stats struct {
	Items   int
	Active  int
	Bidders int
}

// Registry is the sole owner of all items and bidders. Every component
// mutates auction state through it, under its single mutex.
type Registry struct {
	cfg    Config
	hub    *hub.Hub
	logger *slog.Logger

	mu      sync.Mutex
	items   []*model.Item // creation order
	byID    map[int64]*model.Item
	bidders map[uuid.UUID]*model.Bidder
	nextID  int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a registry. The hub is required: state changes broadcast
// through it.
func New(cfg Config, h *hub.Hub, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.AuctionDuration <= 0 {
		cfg.AuctionDuration = DefaultConfig().AuctionDuration
	}
	return &Registry{
		cfg:     cfg,
		hub:     h,
		logger:  logger,
		byID:    make(map[int64]*model.Item),
		bidders: make(map[uuid.UUID]*model.Bidder),
		nextID:  1,
	}
}

// Start arms the registry so auction close timers can be scheduled.
func (r *Registry) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.logger.Info("registry started", "auction_duration", r.cfg.AuctionDuration)
	return nil
}

// Stop cancels pending close timers and waits for them to finish.
func (r *Registry) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("registry stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AddItem creates a pending item at the given base price and returns a
// copy. IDs are assigned monotonically and never reused.
func (r *Registry) AddItem(name, description string, basePrice decimal.Decimal) model.Item {
	r.mu.Lock()
	defer r.mu.Unlock()

	item := &model.Item{
		ID:          r.nextID,
		Name:        name,
		Description: description,
		BasePrice:   basePrice,
		CurrentBid:  basePrice,
		Status:      model.StatusPending,
	}
	r.nextID++
	r.items = append(r.items, item)
	r.byID[item.ID] = item

	r.logger.Info("item added", "id", item.ID, "name", name, "base_price", basePrice)
	return *item
}

// ListItems returns copies of all items in creation order. Sold and
// expired items remain listed.
func (r *Registry) ListItems() []model.Item {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Item, len(r.items))
	for i, item := range r.items {
		out[i] = *item
	}
	return out
}

// AddBidder registers a bidder for a session after the handshake.
func (r *Registry) AddBidder(session uuid.UUID, name string, budget decimal.Decimal) model.Bidder {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := &model.Bidder{
		Session: session,
		Name:    name,
		Budget:  budget,
	}
	r.bidders[session] = b

	r.logger.Info("bidder joined", "session", session, "name", name, "budget", budget)
	return *b
}

// GetBidder returns a copy of the bidder for a session.
func (r *Registry) GetBidder(session uuid.UUID) (model.Bidder, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bidders[session]
	if !ok {
		return model.Bidder{}, false
	}
	return *b, true
}

// RemoveBidder deregisters a session. Any active item the bidder was
// leading drops back to its base price, and each reset is broadcast.
// Sold items keep their winner: settlement already happened.
func (r *Registry) RemoveBidder(session uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bidders[session]
	if !ok {
		return
	}
	delete(r.bidders, session)

	for _, item := range r.items {
		if item.Status != model.StatusActive || item.LeaderSession != session {
			continue
		}
		item.CurrentBid = item.BasePrice
		item.HighestBidder = ""
		item.LeaderSession = uuid.Nil

		r.hub.Broadcast(model.BidReset{
			Item:   item.Name,
			Price:  item.BasePrice,
			Bidder: b.Name,
		})
	}

	r.logger.Info("bidder left", "session", session, "name", b.Name)
}

// Stats returns current registry statistics.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	active := 0
	for _, item := range r.items {
		if item.Status == model.StatusActive {
			active++
		}
	}
	return Stats{
		Items:   len(r.items),
		Active:  active,
		Bidders: len(r.bidders),
	}
}
