package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync/atomic"

	"couponradar-engine/internal/poll"
	"couponradar-engine/internal/scrape"
)

type ScrapeHandler struct {
	ScrapeStatus *atomic.Value // stores scrape.Status
	RunCycle     func(ctx context.Context) (added int, err error)
}

func (h ScrapeHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := scrape.Status{}
	if v := h.ScrapeStatus.Load(); v != nil {
		st = v.(scrape.Status)
	}
	writeJSON(w, st)
}

// Run triggers a cycle outside the schedule. The runner's own flag is the
// real gate; the status check here just gives the dashboard a clean 409
// instead of a fire-and-forget that silently did nothing.
func (h ScrapeHandler) Run(w http.ResponseWriter, r *http.Request) {
	st := scrape.Status{}
	if v := h.ScrapeStatus.Load(); v != nil {
		st = v.(scrape.Status)
	}
	if st.Running {
		WriteError(w, r, http.StatusConflict, "cycle_running", "a scrape cycle is already running")
		return
	}

	go func() {
		// Detached from the request context: closing the dashboard tab that
		// asked for the run should not kill the run.
		added, err := h.RunCycle(context.Background())
		switch {
		case errors.Is(err, poll.ErrCycleRunning):
			log.Printf("[scrape] manual run skipped, cycle already running")
		case err != nil:
			log.Printf("[scrape] manual run error: %v", err)
		default:
			log.Printf("[scrape] manual run ok added=%d", added)
		}
	}()

	writeJSON(w, map[string]any{"ok": true})
}
