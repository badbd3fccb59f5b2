package scrape

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"couponradar-engine/internal/domain"
)

// staticSource serves a canned page, standing in for the headless browser.
type staticSource struct {
	html string
	err  error
}

func (s staticSource) Render(ctx context.Context, url, waitSelector string) (*goquery.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(s.html))
}

func listingPage(cards ...string) string {
	return `<html><body><ul id="myList">` + strings.Join(cards, "\n") + `</ul></body></html>`
}

func TestCollectKeepsDocumentOrder(t *testing.T) {
	page := listingPage(
		`<li><a href="/offer/1/"><h3>First</h3></a></li>`,
		`<li><a href="/offer/2/"><h3>Second</h3></a></li>`,
		`<li><a href="/offer/3/"><h3>Third</h3></a></li>`,
	)
	c := NewCollector(staticSource{html: page}, "https://www.real.discount/udemy-coupon-code/")

	got, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "First", got[0].Title)
	assert.Equal(t, "Second", got[1].Title)
	assert.Equal(t, "Third", got[2].Title)
}

func TestCollectSkipsNonOfferCards(t *testing.T) {
	page := listingPage(
		`<li><a href="/offer/1/"><h3>Real</h3></a></li>`,
		`<li><a href="/sponsored/banner"><h3>Promo</h3></a></li>`,
		`<li><h3>No link at all</h3></li>`,
	)
	c := NewCollector(staticSource{html: page}, "https://www.real.discount/udemy-coupon-code/")

	got, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Real", got[0].Title)
}

func TestCollectIsolatesPanickingItem(t *testing.T) {
	page := listingPage(
		`<li><a href="/offer/1/"><h3>A</h3></a></li>`,
		`<li><a href="/offer/2/"><h3>B</h3></a></li>`,
		`<li><a href="/offer/3/"><h3>C</h3></a></li>`,
		`<li><a href="/offer/4/"><h3>D</h3></a></li>`,
		`<li><a href="/offer/5/"><h3>E</h3></a></li>`,
	)
	c := NewCollector(staticSource{html: page}, "https://www.real.discount/udemy-coupon-code/")
	c.extract = func(card *goquery.Selection, idx int) (domain.Coupon, bool) {
		if idx == 2 {
			panic("selector blew up")
		}
		return Extract(card, idx)
	}

	got, err := c.Collect(context.Background())
	require.NoError(t, err, "one bad item must not abort the batch")
	require.Len(t, got, 4)
	assert.Equal(t, []string{"A", "B", "D", "E"}, []string{got[0].Title, got[1].Title, got[2].Title, got[3].Title})
}

func TestCollectRenderFailureFailsCycle(t *testing.T) {
	boom := errors.New("net::ERR_CONNECTION_REFUSED")
	c := NewCollector(staticSource{err: boom}, "https://www.real.discount/udemy-coupon-code/")

	got, err := c.Collect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
}

func TestCollectEmptyContainer(t *testing.T) {
	c := NewCollector(staticSource{html: listingPage()}, "https://www.real.discount/udemy-coupon-code/")

	got, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
