package tramit

import "context"

// Scraper fetches a page and extracts its record.
type Scraper interface {
	// Scrape never returns nil. Fetch failures produce a failure outcome;
	// extraction problems are absorbed into a success outcome.
	Scrape(ctx context.Context, url string) *Outcome
}
