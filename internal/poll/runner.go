package poll

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"time"

	"couponradar-engine/internal/config"
	"couponradar-engine/internal/events"
	"couponradar-engine/internal/render"
	"couponradar-engine/internal/scrape"
	"couponradar-engine/internal/store"
)

// ErrCycleRunning is returned when a cycle is requested while the previous
// one is still in flight. Ticks and manual triggers treat it as a skip.
var ErrCycleRunning = errors.New("scrape cycle already running")

// Runner owns the cycle-in-progress flag: at most one collect-then-ingest
// cycle at a time, whether the ticker or the HTTP trigger started it. That
// discipline is what keeps the store's check-then-insert free of lost
// updates.
type Runner struct {
	DB     *sql.DB
	Source render.Source
	Hub    *events.Hub
	CfgVal *atomic.Value // stores config.Config
	Status *atomic.Value // stores scrape.Status

	running atomic.Bool
}

// RunCycle performs one collect-then-ingest pass and reports how many
// records were newly persisted. Refuses to overlap a running cycle.
func (r *Runner) RunCycle(ctx context.Context) (added int, err error) {
	if !r.running.CompareAndSwap(false, true) {
		return 0, ErrCycleRunning
	}
	defer r.running.Store(false)

	cfg := r.CfgVal.Load().(config.Config)

	r.setStatus(func(st *scrape.Status) {
		st.Running = true
		st.LastRunAt = time.Now().Format(time.RFC3339)
	})

	added, err = r.cycle(ctx, cfg)

	r.setStatus(func(st *scrape.Status) {
		st.Running = false
		st.LastAdded = added
		if err != nil {
			st.LastError = err.Error()
		} else {
			st.LastError = ""
			st.LastOkAt = time.Now().Format(time.RFC3339)
		}
	})

	if added > 0 {
		r.Hub.Publish(events.MakeEvent("", events.TypeCouponsIngested, map[string]any{"count": added}))
	}
	return added, err
}

func (r *Runner) cycle(ctx context.Context, cfg config.Config) (int, error) {
	collector := scrape.NewCollector(r.Source, cfg.Scrape.URL)
	coupons, err := collector.Collect(ctx)
	if err != nil {
		return 0, err
	}
	if len(coupons) == 0 {
		return 0, nil
	}

	ictx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	return store.Ingest(ictx, r.DB, coupons)
}

func (r *Runner) setStatus(mut func(*scrape.Status)) {
	st := scrape.Status{}
	if v := r.Status.Load(); v != nil {
		st = v.(scrape.Status)
	}
	mut(&st)
	r.Status.Store(st)
}
