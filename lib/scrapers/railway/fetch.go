package railway

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher loads a search results page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}
