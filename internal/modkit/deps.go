package modkit

import (
	"time"

	"codg/internal/modkit/repokit"
	"codg/internal/platform/config"
	"codg/internal/platform/logger"
	"codg/internal/platform/metrics"
	"codg/internal/platform/store"
)

// Deps holds what modules share; PG, CH and Metrics may be nil
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	PG      repokit.TxRunner
	CH      store.Clickhouse
	Metrics *metrics.Metrics
	// Now defaults to time.Now, tests pin it
	Now func() time.Time
}

// Clock returns Now or time.Now
func (d Deps) Clock() func() time.Time {
	if d.Now != nil {
		return d.Now
	}
	return time.Now
}
