package scrape

import "couponradar-engine/internal/domain"

// Selectors for one listing card on real.discount. The six stat cells all
// share div.p-2 and only differ by position, and the two prices share the
// same span base where the full (pre-discount) price carries the
// card-price-full modifier. Disambiguation is structural on purpose: both
// prices render as near-identical currency strings.
const (
	// ListSelector enumerates listing cards under the container; it is also
	// the selector the renderer waits on before the page counts as loaded.
	ListSelector = "ul#myList li"

	siteOrigin      = "https://www.real.discount"
	offerPathPrefix = "/offer/"
)

// fieldSpec is one row of the extraction table: where to look inside a
// card, what to read (attribute or text), and where the value lands.
type fieldSpec struct {
	name string // shows up in diagnostics
	sel  string // scoped to the card
	attr string // empty = text content
	set  func(*domain.Coupon, string)
}

var fieldSpecs = []fieldSpec{
	{"image", "img", "src", func(c *domain.Coupon, v string) { c.ImageURL = v }},
	{"title", "h3", "", func(c *domain.Coupon, v string) { c.Title = v }},
	{"category", "h5", "", func(c *domain.Coupon, v string) { c.Category = v }},
	{"provider", "div.p-2:nth-child(1) div.mt-1", "", func(c *domain.Coupon, v string) { c.Provider = v }},
	{"duration", "div.p-2:nth-child(2) div.mt-1", "", func(c *domain.Coupon, v string) { c.Duration = v }},
	{"rating", "div.p-2:nth-child(3) div.mt-1", "", func(c *domain.Coupon, v string) { c.Rating = v }},
	{"language", "div.p-2:nth-child(4) div.mt-1", "", func(c *domain.Coupon, v string) { c.Language = v }},
	{"students_enrolled", "div.p-2:nth-child(5) div.mt-1", "", func(c *domain.Coupon, v string) { c.StudentsEnrolled = v }},
	{"price_discounted", "span:not(.card-price-full)", "", func(c *domain.Coupon, v string) { c.PriceDiscounted = v }},
	{"price_original", "span.card-price-full", "", func(c *domain.Coupon, v string) { c.PriceOriginal = v }},
	{"views", "div.p-2:nth-child(7) div.ml-1", "", func(c *domain.Coupon, v string) { c.Views = v }},
}
