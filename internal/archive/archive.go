package archive

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/madhumi2611/auctiond/internal/model"
)

// Config holds archiver batching settings.
type Config struct {
	BatchSize     int
	FlushInterval time.Duration
}

// Stats contains archiver runtime statistics.
type Stats struct {
	Inserts int64
	Flushes int64
	Errors  int64
}

// eventRow is the flattened form written to auction_events.
type eventRow struct {
	ReceivedAt time.Time
	Kind       string
	Item       string
	Bidder     string
	Amount     *string // nil when the event carries no amount
	Message    string
}

// Archiver consumes broadcast events and batch-inserts them.
type Archiver struct {
	cfg    Config
	logger *slog.Logger

	// Input from the notification hub's event tap
	input <-chan model.Event

	db *pgxpool.Pool

	batch       []eventRow
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	metrics Stats
}

// New creates an Archiver reading from input.
func New(cfg Config, input <-chan model.Event, db *pgxpool.Pool, logger *slog.Logger) *Archiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{
		cfg:    cfg,
		logger: logger,
		input:  input,
		db:     db,
		batch:  make([]eventRow, 0, cfg.BatchSize),
	}
}

// Start begins consuming events and writing batches.
func (a *Archiver) Start(ctx context.Context) error {
	a.ctx, a.cancel = context.WithCancel(ctx)
	a.flushTicker = time.NewTicker(a.cfg.FlushInterval)

	a.wg.Add(1)
	go a.consumeLoop()

	a.wg.Add(1)
	go a.flushLoop()

	a.logger.Info("event archiver started",
		"batch_size", a.cfg.BatchSize,
		"flush_interval", a.cfg.FlushInterval,
	)
	return nil
}

// Stop shuts down and flushes whatever is still batched.
func (a *Archiver) Stop(ctx context.Context) error {
	a.logger.Info("stopping event archiver")

	if a.cancel != nil {
		a.cancel()
	}
	if a.flushTicker != nil {
		a.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("event archiver stopped")
	case <-ctx.Done():
		a.logger.Warn("event archiver stop timed out")
	}

	a.flush()
	return nil
}

// Stats returns current metrics.
func (a *Archiver) Stats() Stats {
	a.batchMu.Lock()
	defer a.batchMu.Unlock()
	return a.metrics
}

// consumeLoop reads events and accumulates batches.
func (a *Archiver) consumeLoop() {
	defer a.wg.Done()

	for {
		select {
		case <-a.ctx.Done():
			return
		case ev, ok := <-a.input:
			if !ok {
				return
			}
			a.handleEvent(ev)
		}
	}
}

// flushLoop periodically flushes the batch.
func (a *Archiver) flushLoop() {
	defer a.wg.Done()

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-a.flushTicker.C:
			a.flush()
		}
	}
}

// handleEvent transforms and adds an event to the batch.
func (a *Archiver) handleEvent(ev model.Event) {
	row := transform(ev)

	a.batchMu.Lock()
	a.batch = append(a.batch, row)
	shouldFlush := len(a.batch) >= a.cfg.BatchSize
	a.batchMu.Unlock()

	if shouldFlush {
		a.flush()
	}
}

// transform flattens a typed event into a row.
func transform(ev model.Event) eventRow {
	row := eventRow{
		ReceivedAt: time.Now(),
		Kind:       ev.Kind(),
		Message:    ev.Message(),
	}

	switch e := ev.(type) {
	case model.AuctionStarted:
		row.Item = e.Item
		amount := e.Price.String()
		row.Amount = &amount
	case model.BidAccepted:
		row.Item = e.Item
		row.Bidder = e.Bidder
		amount := e.Amount.String()
		row.Amount = &amount
	case model.AuctionSold:
		row.Item = e.Item
		row.Bidder = e.Winner
		amount := e.Amount.String()
		row.Amount = &amount
	case model.AuctionExpired:
		row.Item = e.Item
	case model.BidReset:
		row.Item = e.Item
		row.Bidder = e.Bidder
		amount := e.Price.String()
		row.Amount = &amount
	case model.BidderDropped:
		row.Bidder = e.Bidder
	}
	return row
}

// flush writes the current batch to the database.
func (a *Archiver) flush() {
	a.batchMu.Lock()
	if len(a.batch) == 0 {
		a.batchMu.Unlock()
		return
	}

	// Take ownership of the current batch
	batch := a.batch
	a.batch = make([]eventRow, 0, a.cfg.BatchSize)
	a.batchMu.Unlock()

	start := time.Now()

	if err := a.batchInsert(batch); err != nil {
		a.logger.Error("batch insert failed", "error", err, "count", len(batch))
		a.batchMu.Lock()
		a.metrics.Errors++
		a.batchMu.Unlock()
		return
	}

	a.batchMu.Lock()
	a.metrics.Inserts += int64(len(batch))
	a.metrics.Flushes++
	a.batchMu.Unlock()

	a.logger.Debug("flushed events",
		"count", len(batch),
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows using pgx.Batch.
func (a *Archiver) batchInsert(rows []eventRow) error {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO auction_events (received_at, kind, item, bidder, amount, message)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			r.ReceivedAt, r.Kind, r.Item, r.Bidder, r.Amount, r.Message,
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results := a.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}
