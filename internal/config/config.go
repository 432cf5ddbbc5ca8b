package config

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuctiondConfig is the root configuration for an auctiond instance.
type AuctiondConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Auction AuctionConfig `yaml:"auction"`
	Hub     HubConfig     `yaml:"hub"`
	Archive ArchiveConfig `yaml:"archive"`
	Items   []SeedItem    `yaml:"items"`
}

// ServerConfig holds the connection-layer settings.
type ServerConfig struct {
	// ListenAddr is the TCP address for the line protocol.
	ListenAddr string `yaml:"listen_addr"`

	// HTTPAddr serves /health and the /ws WebSocket transport.
	HTTPAddr string `yaml:"http_addr"`

	// HandshakeTimeout bounds the identity/budget exchange.
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
}

// AuctionConfig holds auction-rule settings.
type AuctionConfig struct {
	// Duration is how long an auction stays open after start.
	Duration time.Duration `yaml:"duration"`
}

// HubConfig holds notification hub settings.
type HubConfig struct {
	// BufferSize is each subscriber's outbound channel capacity.
	BufferSize int `yaml:"buffer_size"`
}

// ArchiveConfig holds the optional event archive settings.
type ArchiveConfig struct {
	Enabled       bool          `yaml:"enabled"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	Postgres      DBConfig      `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// SeedItem is an item preloaded into the registry at startup.
type SeedItem struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	BasePrice   string `yaml:"base_price"`
}

// Price parses the seed item's base price.
func (s SeedItem) Price() (decimal.Decimal, error) {
	return decimal.NewFromString(s.BasePrice)
}
