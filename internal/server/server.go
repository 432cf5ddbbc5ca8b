package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/madhumi2611/auctiond/internal/dispatch"
	"github.com/madhumi2611/auctiond/internal/hub"
	"github.com/madhumi2611/auctiond/internal/registry"
)

// Config holds connection-layer settings.
type Config struct {
	// ListenAddr is the TCP address for the line protocol.
	ListenAddr string

	// HandshakeTimeout bounds the identity/budget exchange.
	HandshakeTimeout time.Duration
}

// Server accepts client connections and runs one session per client.
type Server struct {
	cfg    Config
	reg    *registry.Registry
	hub    *hub.Hub
	disp   *dispatch.Dispatcher
	logger *slog.Logger

	ln     net.Listener
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Server.
func New(cfg Config, reg *registry.Registry, h *hub.Hub, disp *dispatch.Dispatcher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:    cfg,
		reg:    reg,
		hub:    h,
		disp:   disp,
		logger: logger,
	}
}

// Start binds the listener and begins accepting connections.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	s.ln = ln

	s.wg.Add(1)
	go s.acceptLoop()

	s.logger.Info("auction server listening", "addr", ln.Addr().String())
	return nil
}

// Stop closes the listener and waits for sessions to end.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping auction server")

	if s.cancel != nil {
		s.cancel()
	}
	if s.ln != nil {
		s.ln.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("auction server stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("shutdown timeout, sessions abandoned")
		return ctx.Err()
	}
}

// Addr returns the bound listen address.
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.cfg.ListenAddr
	}
	return s.ln.Addr().String()
}

// acceptLoop accepts connections until the listener closes.
func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if s.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("accept failed", "error", err)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(newTCPTransport(conn))
		}()
	}
}

// handle runs one session on any transport.
func (s *Server) handle(t Transport) {
	sess := &session{
		id:               uuid.New(),
		t:                t,
		reg:              s.reg,
		hub:              s.hub,
		disp:             s.disp,
		logger:           s.logger,
		handshakeTimeout: s.cfg.HandshakeTimeout,
	}
	sess.run(s.ctx)
}
