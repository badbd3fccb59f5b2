package scrape

import (
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"couponradar-engine/internal/domain"
)

// Extract maps one listing card to a Coupon. The offer link is checked
// first: no link, a link outside the site, or a promotional (non-/offer/)
// placement rejects the whole card before any field work. After that a
// missing sub-field never fails the card; it lands as domain.Unknown and is
// logged with the card's index so selector drift shows up in the logs.
func Extract(card *goquery.Selection, idx int) (domain.Coupon, bool) {
	courseURL, ok := offerURL(card)
	if !ok {
		return domain.Coupon{}, false
	}

	c := domain.Coupon{
		// The site exposes no timestamp of its own; the capture date is ours.
		CaptureDate: time.Now().Format("2006-01-02"),
		CourseURL:   courseURL,
	}
	for _, fs := range fieldSpecs {
		fs.set(&c, resolve(card, fs, idx))
	}
	return c, true
}

// offerURL gates a card on its anchor. Promotional cards either carry no
// anchor or link somewhere other than an offer detail page.
func offerURL(card *goquery.Selection) (string, bool) {
	href, ok := card.Find("a").First().Attr("href")
	if !ok {
		return "", false
	}
	href = strings.TrimSpace(href)

	switch {
	case strings.HasPrefix(href, offerPathPrefix):
		return siteOrigin + href, true
	case strings.HasPrefix(href, siteOrigin+offerPathPrefix):
		return href, true
	}
	return "", false
}

// resolve runs one row of the field table against a card. Zero matches is a
// degraded-but-valid outcome, not an error; empty-after-trim text from a
// matched element is kept as-is.
func resolve(card *goquery.Selection, fs fieldSpec, idx int) string {
	sel := card.Find(fs.sel).First()
	if sel.Length() == 0 {
		log.Printf("[extract] item=%d field=%s: no element for selector %q", idx, fs.name, fs.sel)
		return domain.Unknown
	}

	if fs.attr != "" {
		v, ok := sel.Attr(fs.attr)
		if !ok {
			log.Printf("[extract] item=%d field=%s: missing attribute %q", idx, fs.name, fs.attr)
			return domain.Unknown
		}
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(sel.Text())
}
