package mock

import (
	"context"

	"github.com/fwojciec/tramit"
)

var _ tramit.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of tramit.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*tramit.FetchResult, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*tramit.FetchResult, error) {
	return f.FetchFn(ctx, url)
}

var _ tramit.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of tramit.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
