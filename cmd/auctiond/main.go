package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/madhumi2611/auctiond/internal/archive"
	"github.com/madhumi2611/auctiond/internal/config"
	"github.com/madhumi2611/auctiond/internal/database"
	"github.com/madhumi2611/auctiond/internal/dispatch"
	"github.com/madhumi2611/auctiond/internal/hub"
	"github.com/madhumi2611/auctiond/internal/model"
	"github.com/madhumi2611/auctiond/internal/registry"
	"github.com/madhumi2611/auctiond/internal/server"
	"github.com/madhumi2611/auctiond/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/auctiond.example.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting auctiond",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"listen_addr", cfg.Server.ListenAddr,
		"auction_duration", cfg.Auction.Duration,
		"seed_items", len(cfg.Items),
		"archive_enabled", cfg.Archive.Enabled,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Notification hub
	h := hub.New(hub.Config{BufferSize: cfg.Hub.BufferSize}, logger)

	// Optional event archive
	var (
		pool     *pgxpool.Pool
		archiver *archive.Archiver
	)
	if cfg.Archive.Enabled {
		logger.Info("connecting to archive database",
			"host", cfg.Archive.Postgres.Host,
			"port", cfg.Archive.Postgres.Port,
			"database", cfg.Archive.Postgres.Name,
		)
		pool, err = database.Connect(ctx, cfg.Archive.Postgres)
		if err != nil {
			logger.Error("failed to connect to archive database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		events := make(chan model.Event, cfg.Archive.BatchSize)
		h.SetEventSink(events)
		archiver = archive.New(archive.Config{
			BatchSize:     cfg.Archive.BatchSize,
			FlushInterval: cfg.Archive.FlushInterval,
		}, events, pool, logger)
		if err := archiver.Start(ctx); err != nil {
			logger.Error("failed to start archiver", "error", err)
			os.Exit(1)
		}
	}

	// Registry with seeded items
	reg := registry.New(registry.Config{AuctionDuration: cfg.Auction.Duration}, h, logger)
	if err := reg.Start(ctx); err != nil {
		logger.Error("failed to start registry", "error", err)
		os.Exit(1)
	}
	for _, seed := range cfg.Items {
		price, err := seed.Price()
		if err != nil {
			// Validate already rejected bad prices; this is corrupt state.
			logger.Error("invalid seed item", "name", seed.Name, "error", err)
			os.Exit(1)
		}
		reg.AddItem(seed.Name, seed.Description, price)
	}

	// Connection layer
	srv := server.New(server.Config{
		ListenAddr:       cfg.Server.ListenAddr,
		HandshakeTimeout: cfg.Server.HandshakeTimeout,
	}, reg, h, dispatch.New(reg, logger), logger)
	if err := srv.Start(ctx); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}

	// HTTP listener: health plus the WebSocket transport
	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: createHTTPHandler(reg, h, srv, pool),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http listener", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	logger.Info("auctiond running",
		"addr", srv.Addr(),
		"http_addr", cfg.Server.HTTPAddr,
	)

	if err := g.Wait(); err != nil {
		logger.Error("http listener failed", "error", err)
		cancel()
	}

	// Graceful shutdown
	logger.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	srv.Stop(shutdownCtx)
	reg.Stop(shutdownCtx)
	if archiver != nil {
		archiver.Stop(shutdownCtx)
	}

	logger.Info("auctiond stopped")
}

// createHTTPHandler serves /health and the /ws transport.
func createHTTPHandler(reg *registry.Registry, h *hub.Hub, srv *server.Server, pool *pgxpool.Pool) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/ws", srv.WSHandler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string         `json:"status"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]any),
		}

		stats := reg.Stats()
		health.Components["registry"] = map[string]int{
			"items":   stats.Items,
			"active":  stats.Active,
			"bidders": stats.Bidders,
		}

		hubStats := h.Stats()
		health.Components["hub"] = map[string]int64{
			"subscribers": int64(hubStats.Subscribers),
			"broadcasts":  hubStats.Broadcasts,
			"dropped":     hubStats.Dropped,
		}

		if pool != nil {
			if err := pool.Ping(ctx); err != nil {
				health.Status = "degraded"
				health.Components["archive"] = map[string]string{
					"status": "disconnected",
					"error":  err.Error(),
				}
			} else {
				health.Components["archive"] = "connected"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	return mux
}
