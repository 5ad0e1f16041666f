// Package scrape ties a Fetcher and an Extractor together into a
// tramit.Scraper.
package scrape

import (
	"context"
	"log/slog"

	"github.com/fwojciec/tramit"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages Batch scrapes at once when no
// limit is given.
const DefaultConcurrency = 4

var _ tramit.Scraper = (*Service)(nil)

// Service fetches a page, extracts its record and wraps the result in an
// outcome envelope.
type Service struct {
	Fetcher   tramit.Fetcher
	Extractor tramit.Extractor

	// Snapshots stores every outcome when set.
	Snapshots tramit.SnapshotService

	Logger *slog.Logger
}

// Scrape fetches url once and extracts its record. A fetch error yields a
// failure outcome. Extraction problems are logged and the partial record is
// still returned as a success.
func (s *Service) Scrape(ctx context.Context, url string) *tramit.Outcome {
	outcome := s.scrape(ctx, url)

	if s.Snapshots != nil {
		if err := s.Snapshots.CreateSnapshot(ctx, tramit.NewSnapshot(outcome)); err != nil {
			s.logger().Warn("snapshot not stored", "url", url, "err", err)
		}
	}

	return outcome
}

func (s *Service) scrape(ctx context.Context, url string) *tramit.Outcome {
	result, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		return tramit.NewFailureOutcome(url, err)
	}

	return s.outcome(url, result.Body, result.StatusCode)
}

// ScrapeHTML extracts a record from HTML that was obtained some other way,
// such as a saved file. The outcome carries no status code.
func (s *Service) ScrapeHTML(source string, html []byte) *tramit.Outcome {
	return s.outcome(source, html, 0)
}

func (s *Service) outcome(url string, html []byte, statusCode int) *tramit.Outcome {
	info, err := s.Extractor.Extract(html)
	if err != nil {
		s.logger().Warn("partial extraction", "url", url, "err", err)
	}
	return tramit.NewSuccessOutcome(url, info, statusCode)
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// Batch scrapes urls independently with at most concurrency requests in
// flight. Outcomes are returned in input order.
func Batch(ctx context.Context, scraper tramit.Scraper, urls []string, concurrency int) []*tramit.Outcome {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	outcomes := make([]*tramit.Outcome, len(urls))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, url := range urls {
		g.Go(func() error {
			outcomes[i] = scraper.Scrape(ctx, url)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}
