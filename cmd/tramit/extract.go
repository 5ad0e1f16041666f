package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwojciec/tramit"
	"github.com/fwojciec/tramit/scrape"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	var outcomes []*tramit.Outcome

	switch {
	case c.File != "" && len(c.URLs) > 0:
		return fmt.Errorf("pass either URLs or --file, not both")
	case c.File != "":
		html, err := os.ReadFile(c.File)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", c.File, err)
		}
		svc := &scrape.Service{Extractor: deps.Extractor, Logger: deps.Logger}
		outcomes = append(outcomes, svc.ScrapeHTML(c.File, html))
	case len(c.URLs) == 0:
		return fmt.Errorf("no URL given. Pass one or more URLs or --file")
	default:
		outcomes = scrape.Batch(deps.Ctx, deps.Scraper, c.URLs, c.Concurrency)
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	var v any = outcomes
	if len(outcomes) == 1 {
		v = outcomes[0]
	}
	if err := enc.Encode(v); err != nil {
		return err
	}

	var failed int
	for _, o := range outcomes {
		if !o.Success {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d pages failed", failed, len(outcomes))
	}
	return nil
}
