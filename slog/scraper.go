package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tramit"
)

var _ tramit.Scraper = (*LoggingScraper)(nil)

// LoggingScraper wraps a Scraper and logs each outcome.
type LoggingScraper struct {
	next   tramit.Scraper
	logger *slog.Logger
}

// NewLoggingScraper creates a new LoggingScraper.
func NewLoggingScraper(next tramit.Scraper, logger *slog.Logger) *LoggingScraper {
	return &LoggingScraper{next: next, logger: logger}
}

// Scrape delegates to the wrapped scraper.
func (s *LoggingScraper) Scrape(ctx context.Context, url string) (outcome *tramit.Outcome) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", url,
			"success", outcome.Success,
			"duration", time.Since(begin),
		}
		if outcome.Success {
			attrs = append(attrs, "status", outcome.StatusCode)
			s.logger.Info("scrape", attrs...)
			return
		}
		attrs = append(attrs, "error", outcome.Error)
		s.logger.Warn("scrape", attrs...)
	}(time.Now())
	return s.next.Scrape(ctx, url)
}
