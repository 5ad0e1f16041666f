package tramit

import "context"

// FetchResult holds the raw body and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	Body       []byte
}

// Fetcher retrieves static HTML from URLs.
type Fetcher interface {
	// Fetch performs a single GET and returns the body of a 2xx response.
	// Connection failures and non-2xx statuses return EUNAVAILABLE.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
