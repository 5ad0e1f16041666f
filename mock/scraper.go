package mock

import (
	"context"

	"github.com/fwojciec/tramit"
)

var _ tramit.Scraper = (*Scraper)(nil)

// Scraper is a mock implementation of tramit.Scraper.
type Scraper struct {
	ScrapeFn func(ctx context.Context, url string) *tramit.Outcome
}

func (s *Scraper) Scrape(ctx context.Context, url string) *tramit.Outcome {
	return s.ScrapeFn(ctx, url)
}
