package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"couponradar-engine/internal/config"
	"couponradar-engine/internal/events"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	// Atomic stores
	CfgVal       *atomic.Value // stores config.Config
	ScrapeStatus *atomic.Value // stores scrape.Status

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Cycle entrypoint (injected for testability); returns
	// poll.ErrCycleRunning when a cycle is already in flight.
	RunCycle func(ctx context.Context) (added int, err error)
}
