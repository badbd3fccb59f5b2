package poll

import (
	"context"
	"errors"
	"log"
	"time"

	"couponradar-engine/internal/config"
)

// Start runs cycles on the configured interval until ctx is done. The first
// cycle fires immediately so a fresh install has data before the first full
// interval elapses. A tick that lands while the previous cycle is still
// running is skipped, not queued.
func (r *Runner) Start(ctx context.Context) {
	cfg := r.CfgVal.Load().(config.Config)
	interval := time.Duration(cfg.Scrape.IntervalMinutes) * time.Minute

	t := time.NewTicker(interval)
	defer t.Stop()

	log.Printf("[poll] scraping %s every %s", cfg.Scrape.URL, interval)

	r.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[poll] stopping: %v", ctx.Err())
			return
		case <-t.C:
			r.tick(ctx)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	added, err := r.RunCycle(ctx)
	switch {
	case errors.Is(err, ErrCycleRunning):
		log.Printf("[poll] previous cycle still running, tick skipped")
	case err != nil:
		// A failed cycle never stops the poller; the next tick fires as usual.
		log.Printf("[poll] cycle error: %v", err)
	default:
		log.Printf("[poll] cycle ok added=%d", added)
	}
}
