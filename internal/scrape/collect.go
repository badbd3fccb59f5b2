package scrape

import (
	"context"
	"fmt"
	"log"

	"github.com/PuerkitoBio/goquery"

	"couponradar-engine/internal/domain"
	"couponradar-engine/internal/render"
)

// Collector renders the listing page and maps every card on it to a Coupon.
type Collector struct {
	Source render.Source
	URL    string

	// extract is swappable for tests; defaults to Extract.
	extract func(*goquery.Selection, int) (domain.Coupon, bool)
}

func NewCollector(src render.Source, url string) *Collector {
	return &Collector{Source: src, URL: url, extract: Extract}
}

// Collect returns every successfully extracted listing in document order.
// A render failure or container-wait timeout fails the whole cycle; a
// failure inside one card only drops that card.
func (c *Collector) Collect(ctx context.Context) ([]domain.Coupon, error) {
	doc, err := c.Source.Render(ctx, c.URL, ListSelector)
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", c.URL, err)
	}

	cards := doc.Find(ListSelector)
	log.Printf("[collect] found %d listing elements", cards.Length())

	var out []domain.Coupon
	cards.Each(func(i int, card *goquery.Selection) {
		coupon, ok, err := c.extractOne(card, i)
		if err != nil {
			log.Printf("[collect] item=%d: extraction failed: %v", i, err)
			return
		}
		if !ok {
			log.Printf("[collect] item=%d: not an offer link, skipped", i)
			return
		}
		out = append(out, coupon)
	})
	return out, nil
}

// extractOne fences off a single card so a panic inside selector handling
// cannot take the rest of the batch down with it.
func (c *Collector) extractOne(card *goquery.Selection, idx int) (coupon domain.Coupon, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	coupon, ok = c.extract(card, idx)
	return coupon, ok, nil
}
