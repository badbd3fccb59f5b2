package poll

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"couponradar-engine/internal/config"
	"couponradar-engine/internal/events"
	"couponradar-engine/internal/scrape"
	"couponradar-engine/internal/store"
)

type staticSource struct {
	html string
	err  error
	// when set, Render blocks until the channel closes
	gate chan struct{}
}

func (s *staticSource) Render(ctx context.Context, url, waitSelector string) (*goquery.Document, error) {
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(s.html))
}

const twoCardPage = `<html><body><ul id="myList">
<li>
  <a href="/offer/123/">
    <img src="https://img.example.com/go.jpg">
    <h3>Go Basics</h3>
    <h5>Development</h5>
    <div class="row">
      <div class="p-2"><div class="mt-1">Udemy</div></div>
      <div class="p-2"><div class="mt-1">7 hours</div></div>
      <div class="p-2"><div class="mt-1">4.5</div></div>
      <div class="p-2"><div class="mt-1">English</div></div>
      <div class="p-2"><div class="mt-1">12,345</div></div>
      <div class="p-2"><span>$0.00</span><span class="card-price-full">$199.99</span></div>
      <div class="p-2"><div class="ml-1">1,024</div></div>
    </div>
  </a>
</li>
<li>
  <a href="/offer/456/">
    <h3>SQL Deep Dive</h3>
    <h5>Data</h5>
    <div class="row">
      <div class="p-2"><div class="mt-1">Udemy</div></div>
      <div class="p-2"><div class="mt-1">3 hours</div></div>
    </div>
  </a>
</li>
</ul></body></html>`

func newTestRunner(t *testing.T, src *staticSource) *Runner {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "coupons.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db.Pool))

	var cfg config.Config
	cfg.Scrape.URL = "https://www.real.discount/udemy-coupon-code/"
	cfg.Scrape.IntervalMinutes = 15
	var cfgVal atomic.Value
	cfgVal.Store(cfg)

	var status atomic.Value
	status.Store(scrape.Status{})

	return &Runner{
		DB:     db.Pool,
		Source: src,
		Hub:    events.NewHub(),
		CfgVal: &cfgVal,
		Status: &status,
	}
}

func TestRunCycleCollectsAndIngestsOnce(t *testing.T) {
	r := newTestRunner(t, &staticSource{html: twoCardPage})

	sub := r.Hub.Subscribe()
	defer r.Hub.Unsubscribe(sub)

	added, err := r.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	// the degraded card kept its known fields and got sentinels for the rest
	today := time.Now().Format("2006-01-02")
	rows, err := store.ListByDates(context.Background(), r.DB, []string{today})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// ingest event for the dashboard
	select {
	case raw := <-sub:
		var ev events.Event
		require.NoError(t, json.Unmarshal([]byte(raw), &ev))
		assert.Equal(t, events.TypeCouponsIngested, ev.Type)
	default:
		t.Fatal("expected a coupons_ingested event")
	}

	// the same page again: everything dedups away
	added, err = r.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	rows, err = store.ListByDates(context.Background(), r.DB, []string{today})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRunCycleRefusesOverlap(t *testing.T) {
	src := &staticSource{html: twoCardPage, gate: make(chan struct{})}
	r := newTestRunner(t, src)

	firstDone := make(chan error, 1)
	go func() {
		_, err := r.RunCycle(context.Background())
		firstDone <- err
	}()

	// wait for the first cycle to take the flag
	require.Eventually(t, func() bool {
		return r.running.Load()
	}, time.Second, 5*time.Millisecond)

	_, err := r.RunCycle(context.Background())
	assert.ErrorIs(t, err, ErrCycleRunning)

	close(src.gate)
	require.NoError(t, <-firstDone)
	assert.False(t, r.running.Load())
}

func TestRunCycleFailureLeavesRunnerUsable(t *testing.T) {
	src := &staticSource{err: errors.New("wait for selector timed out")}
	r := newTestRunner(t, src)

	_, err := r.RunCycle(context.Background())
	require.Error(t, err)

	st := r.Status.Load().(scrape.Status)
	assert.False(t, st.Running)
	assert.Contains(t, st.LastError, "timed out")

	// next cycle succeeds once the page renders again
	src.err = nil
	src.html = twoCardPage
	added, err := r.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	st = r.Status.Load().(scrape.Status)
	assert.Empty(t, st.LastError)
	assert.Equal(t, 2, st.LastAdded)
	assert.NotEmpty(t, st.LastOkAt)
}
