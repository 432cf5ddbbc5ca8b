package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultListenAddr       = ":8080"
	DefaultHTTPAddr         = ":8081"
	DefaultHandshakeTimeout = 30 * time.Second
	DefaultAuctionDuration  = 45 * time.Second
	DefaultHubBufferSize    = 64
	DefaultBatchSize        = 100
	DefaultFlushInterval    = 1 * time.Second
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 4
	DefaultMinConns         = 1
)

func (c *AuctiondConfig) applyDefaults() {
	// Server defaults
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = DefaultHTTPAddr
	}
	if c.Server.HandshakeTimeout == 0 {
		c.Server.HandshakeTimeout = DefaultHandshakeTimeout
	}

	// Auction defaults
	if c.Auction.Duration == 0 {
		c.Auction.Duration = DefaultAuctionDuration
	}

	// Hub defaults
	if c.Hub.BufferSize == 0 {
		c.Hub.BufferSize = DefaultHubBufferSize
	}

	// Archive defaults
	if c.Archive.BatchSize == 0 {
		c.Archive.BatchSize = DefaultBatchSize
	}
	if c.Archive.FlushInterval == 0 {
		c.Archive.FlushInterval = DefaultFlushInterval
	}
	applyDBDefaults(&c.Archive.Postgres)
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
