package hub

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/madhumi2611/auctiond/internal/model"
)

// DefaultBufferSize is the per-subscriber outbound channel capacity.
const DefaultBufferSize = 64

// Config holds Notification Hub configuration.
type Config struct {
	// BufferSize is the capacity of each subscriber's outbound channel.
	// A subscriber whose buffer is full misses the message.
	BufferSize int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{BufferSize: DefaultBufferSize}
}

// Stats provides hub statistics for the health endpoint.
type Stats struct {
	Subscribers int
	Broadcasts  int64
	Dropped     int64
}

type subscriber struct {
	name string
	out  chan string
}

// Hub fans out formatted event lines to all connected bidders.
type Hub struct {
	cfg    Config
	logger *slog.Logger

	mu   sync.Mutex
	subs map[uuid.UUID]*subscriber

	// Optional typed tap for the event archive. Non-blocking like
	// subscriber sends; the archive missing an event is acceptable.
	sink chan<- model.Event

	broadcasts int64
	dropped    int64
}

// New creates a Notification Hub.
func New(cfg Config, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	return &Hub{
		cfg:    cfg,
		logger: logger,
		subs:   make(map[uuid.UUID]*subscriber),
	}
}

// SetEventSink registers a channel receiving every broadcast as a typed
// event. Must be called before the first Broadcast.
func (h *Hub) SetEventSink(ch chan<- model.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sink = ch
}

// Subscribe registers a session and returns its outbound channel.
// The channel is closed by Unsubscribe.
func (h *Hub) Subscribe(session uuid.UUID, name string) <-chan string {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &subscriber{
		name: name,
		out:  make(chan string, h.cfg.BufferSize),
	}
	h.subs[session] = sub

	h.logger.Debug("subscriber registered", "session", session, "name", name)
	return sub.out
}

// Unsubscribe removes a session and closes its outbound channel.
// Unknown sessions are a no-op.
func (h *Hub) Unsubscribe(session uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.subs[session]
	if !ok {
		return
	}
	delete(h.subs, session)
	close(sub.out)

	h.logger.Debug("subscriber removed", "session", session, "name", sub.name)
}

// Broadcast delivers an event to every subscriber, best-effort. A
// recipient whose buffer is full misses this message; delivery failures
// never propagate to the caller. Callers serialized by the registry's
// mutex observe a total order: enqueueing happens under the hub's own
// lock before Broadcast returns.
func (h *Hub) Broadcast(ev model.Event) {
	line := "[" + ev.Message() + "]"

	h.mu.Lock()
	defer h.mu.Unlock()

	h.broadcasts++
	for session, sub := range h.subs {
		select {
		case sub.out <- line:
		default:
			h.dropped++
			h.logger.Warn("dropped broadcast for slow subscriber",
				"session", session,
				"name", sub.name,
			)
		}
	}

	if h.sink != nil {
		select {
		case h.sink <- ev:
		default:
		}
	}
}

// Stats returns current hub statistics.
func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		Subscribers: len(h.subs),
		Broadcasts:  h.broadcasts,
		Dropped:     h.dropped,
	}
}
