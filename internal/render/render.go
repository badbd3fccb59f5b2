package render

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// Source turns a URL into a queryable document after client-side rendering
// has finished. Render blocks until waitSelector matches something or the
// source's timeout fires; either way every browser resource is released
// before it returns.
type Source interface {
	Render(ctx context.Context, url, waitSelector string) (*goquery.Document, error)
}
