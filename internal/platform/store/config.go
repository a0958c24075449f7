package store

import (
	"time"

	"codg/internal/platform/config"
)

// Config selects and configures the backends
type Config struct {
	PG PGConfig
	CH CHConfig
}

// PGConfig configures the Postgres pool
type PGConfig struct {
	Enabled  bool
	URL      string
	MaxConns int32
	LogSQL   bool
	SlowMs   int
	// ConnectAttempts bounds the startup ping loop
	ConnectAttempts int
}

// CHConfig configures the ClickHouse archive connection
type CHConfig struct {
	Enabled    bool
	URL        string
	ClientName string
	ClientTag  string
}

// FromEnv reads DBURL, MAX_CONNS, LOG_SQL, SLOW_MS and CONNECT_ATTEMPTS under pg
// and ENABLED, DBURL under ch. Postgres is on when DBURL is set
func FromEnv(pg, ch config.Conf, role string) Config {
	c := Config{
		PG: PGConfig{
			URL:             pg.MayString("DBURL", ""),
			MaxConns:        int32(pg.MayInt("MAX_CONNS", 4)),
			LogSQL:          pg.MayBool("LOG_SQL", false),
			SlowMs:          pg.MayInt("SLOW_MS", 500),
			ConnectAttempts: pg.MayInt("CONNECT_ATTEMPTS", 20),
		},
		CH: CHConfig{
			Enabled:    ch.MayBool("ENABLED", false),
			ClientName: "codg",
			ClientTag:  role,
		},
	}
	c.PG.Enabled = c.PG.URL != ""
	if c.CH.Enabled {
		c.CH.URL = ch.MustString("DBURL")
	}
	return c
}

const (
	pingTimeout    = 3 * time.Second
	backoffStart   = 150 * time.Millisecond
	backoffCeiling = 2 * time.Second
)
