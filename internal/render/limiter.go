package render

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// hostLimiter throttles navigations per hostname so a scheduled cycle plus
// a burst of manual /scrape/run triggers cannot hammer the source site.
type hostLimiter struct {
	mu    sync.Mutex
	hosts map[string]*rate.Limiter
	every rate.Limit
	burst int
}

func newHostLimiter(perSec float64, burst int) *hostLimiter {
	return &hostLimiter{
		hosts: make(map[string]*rate.Limiter),
		every: rate.Limit(perSec),
		burst: burst,
	}
}

func (hl *hostLimiter) wait(ctx context.Context, raw string) error {
	host := "_"
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		host = u.Host
	}

	hl.mu.Lock()
	lim, ok := hl.hosts[host]
	if !ok {
		lim = rate.NewLimiter(hl.every, hl.burst)
		hl.hosts[host] = lim
	}
	hl.mu.Unlock()

	return lim.Wait(ctx)
}
