// Package rate provides per-host request throttling backed by
// golang.org/x/time/rate.
package rate

import (
	"context"
	"net"
	"strings"
	"sync"

	"github.com/fwojciec/tramit"
	"golang.org/x/time/rate"
)

// DefaultRPS is the request rate allowed per host when none is configured.
const DefaultRPS = 1.0

var _ tramit.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out requests to the same host. Each host has its own
// token bucket with a burst of 1, so a batch spanning several hosts is only
// throttled per host.
type DomainLimiter struct {
	limit rate.Limit

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewDomainLimiter allows rps requests per second to each host.
// A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limit:   rate.Limit(rps),
		buckets: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a request to host is allowed or ctx is done. host may
// be a URL host with a port; "Seu.Tarragona.cat:443" and "seu.tarragona.cat"
// share a bucket.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	if d.limit <= 0 {
		return ctx.Err()
	}
	return d.bucket(hostKey(host)).Wait(ctx)
}

func (d *DomainLimiter) bucket(key string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := d.buckets[key]
	if !ok {
		b = rate.NewLimiter(d.limit, 1)
		d.buckets[key] = b
	}
	return b
}

// hostKey reduces host to its case-folded name without port or trailing dot.
func hostKey(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimSuffix(strings.ToLower(host), ".")
}
