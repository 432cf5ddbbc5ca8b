package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/madhumi2611/auctiond/internal/dispatch"
	"github.com/madhumi2611/auctiond/internal/hub"
	"github.com/madhumi2611/auctiond/internal/registry"
)

// session is one connected client from handshake to teardown.
type session struct {
	id     uuid.UUID
	t      Transport
	reg    *registry.Registry
	hub    *hub.Hub
	disp   *dispatch.Dispatcher
	logger *slog.Logger

	handshakeTimeout time.Duration
}

// run drives the session until disconnect. It always deregisters the
// bidder on the way out, which releases any standing bids.
func (s *session) run(ctx context.Context) {
	defer s.t.Close()

	// Unblock ReadLine when the server shuts down.
	sctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-sctx.Done()
		s.t.Close()
	}()

	name, budget, err := s.handshake()
	if err != nil {
		s.t.WriteLine(dispatch.FormatHandshakeError(err.Error()))
		s.logger.Info("handshake failed", "remote", s.t.RemoteAddr(), "error", err)
		return
	}

	bidder := s.reg.AddBidder(s.id, name, budget)
	out := s.hub.Subscribe(s.id, name)

	// Broadcast writer. Exits when Unsubscribe closes the channel; a
	// dead connection just burns the remaining buffered lines.
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range out {
			if err := s.t.WriteLine(msg); err != nil {
				for range out {
				}
				return
			}
		}
	}()

	defer func() {
		s.hub.Unsubscribe(s.id)
		s.reg.RemoveBidder(s.id)
		<-writerDone
		s.logger.Info("session closed", "session", s.id, "name", name)
	}()

	s.t.WriteLine(dispatch.FormatWelcome(bidder))
	s.logger.Info("session established",
		"session", s.id,
		"name", name,
		"budget", budget,
		"remote", s.t.RemoteAddr(),
	)

	for {
		line, err := s.t.ReadLine()
		if err != nil {
			return
		}

		reply, terminate := s.disp.Dispatch(s.id, line)
		if err := s.t.WriteLine(reply); err != nil {
			return
		}
		if terminate {
			return
		}
	}
}

// handshake prompts for identity and budget. Any invalid answer is
// fatal for the connection.
func (s *session) handshake() (string, decimal.Decimal, error) {
	if s.handshakeTimeout > 0 {
		s.t.SetReadDeadline(time.Now().Add(s.handshakeTimeout))
		defer s.t.SetReadDeadline(time.Time{})
	}

	if err := s.t.WriteLine("Username:"); err != nil {
		return "", decimal.Zero, err
	}
	name, err := s.t.ReadLine()
	if err != nil {
		return "", decimal.Zero, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", decimal.Zero, fmt.Errorf("username must not be empty")
	}

	if err := s.t.WriteLine("Budget:"); err != nil {
		return "", decimal.Zero, err
	}
	raw, err := s.t.ReadLine()
	if err != nil {
		return "", decimal.Zero, err
	}
	budget, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || budget.Sign() <= 0 {
		return "", decimal.Zero, fmt.Errorf("budget must be a positive number")
	}

	return name, budget, nil
}
