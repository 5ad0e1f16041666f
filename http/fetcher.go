// Package http provides the HTTP side of tramit: a static-page
// implementation of tramit.Fetcher and the JSON API server.
package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/tramit"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// maxBodySize caps how much of a page is read.
const maxBodySize = 10 << 20

// browserHeaders make requests look like a desktop browser. Some municipal
// sites refuse clients with an unknown user agent.
var browserHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "es-ES,es;q=0.9,en;q=0.8",
	"DNT":                       "1",
	"Upgrade-Insecure-Requests": "1",
}

// Ensure Fetcher implements tramit.Fetcher at compile time.
var _ tramit.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using plain HTTP requests.
// It does not execute JavaScript.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	limiter tramit.DomainLimiter
	delays  []time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithLimiter makes every request wait on a per-host rate limiter.
func WithLimiter(l tramit.DomainLimiter) Option {
	return func(f *Fetcher) {
		f.limiter = l
	}
}

// WithRetryDelays enables retries of transport errors and 5xx responses.
// One retry is made per delay. By default a fetch is tried once.
func WithRetryDelays(delays []time.Duration) Option {
	return func(f *Fetcher) {
		f.delays = delays
	}
}

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the body of the given URL. Connection failures and
// non-2xx responses are returned as EUNAVAILABLE errors.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*tramit.FetchResult, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, tramit.Errorf(tramit.EINVALID, "invalid URL %q", rawURL)
	}

	var lastErr error
	for attempt := 0; attempt <= len(f.delays); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, tramit.WrapErrorf(ctx.Err(), tramit.EUNAVAILABLE, "fetch %s: %v", rawURL, ctx.Err())
			case <-time.After(f.delays[attempt-1]):
			}
		}

		result, retry, err := f.fetchOnce(ctx, u)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return nil, lastErr
}

// fetchOnce performs a single request. The bool reports whether the
// failure is worth retrying.
func (f *Fetcher) fetchOnce(ctx context.Context, u *url.URL) (*tramit.FetchResult, bool, error) {
	rawURL := u.String()

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, u.Host); err != nil {
			return nil, false, tramit.WrapErrorf(err, tramit.EUNAVAILABLE, "rate limit wait for %s: %v", u.Host, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, tramit.WrapErrorf(err, tramit.EINVALID, "invalid request for %s", rawURL)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, tramit.WrapErrorf(err, tramit.EUNAVAILABLE, "fetch %s: %v", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, resp.StatusCode >= 500, tramit.Errorf(tramit.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, true, tramit.WrapErrorf(err, tramit.EUNAVAILABLE, "read body of %s: %v", rawURL, err)
	}

	return &tramit.FetchResult{
		URL:        rawURL,
		StatusCode: resp.StatusCode,
		Body:       body,
	}, false, nil
}
