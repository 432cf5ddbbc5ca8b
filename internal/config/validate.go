package config

import "fmt"

// Validate checks required fields and internal consistency. Call after
// applying defaults.
func (c *AuctiondConfig) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	if c.Auction.Duration <= 0 {
		return fmt.Errorf("auction.duration must be positive")
	}
	if c.Hub.BufferSize <= 0 {
		return fmt.Errorf("hub.buffer_size must be positive")
	}

	if c.Archive.Enabled {
		db := c.Archive.Postgres
		if db.Host == "" {
			return fmt.Errorf("archive.postgres.host is required")
		}
		if db.Name == "" {
			return fmt.Errorf("archive.postgres.name is required")
		}
		if db.User == "" {
			return fmt.Errorf("archive.postgres.user is required")
		}
		if db.Password == "" {
			return fmt.Errorf("archive.postgres.password is required")
		}
		if db.MinConns > db.MaxConns {
			return fmt.Errorf("archive.postgres.min_conns (%d) cannot exceed max_conns (%d)",
				db.MinConns, db.MaxConns)
		}
	}

	for i, item := range c.Items {
		if item.Name == "" {
			return fmt.Errorf("items[%d].name is required", i)
		}
		price, err := item.Price()
		if err != nil {
			return fmt.Errorf("items[%d].base_price %q is not a valid amount", i, item.BasePrice)
		}
		if price.Sign() <= 0 {
			return fmt.Errorf("items[%d].base_price must be positive", i)
		}
	}

	return nil
}
