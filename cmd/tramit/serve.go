package main

import (
	"fmt"

	tramithttp "github.com/fwojciec/tramit/http"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := tramithttp.NewServer(tramithttp.Config{
		Addr:             c.Addr,
		Scraper:          deps.Scraper,
		Snapshots:        deps.Snapshots,
		AllowedDomains:   c.AllowedDomain,
		DefaultURL:       c.DefaultURL,
		AllowedOrigin:    c.AllowedOrigin,
		BatchConcurrency: c.Concurrency,
		Logger:           deps.Logger,
	})
	if err := srv.Open(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", srv.Addr())

	<-deps.Ctx.Done()

	fmt.Fprintln(deps.Stdout, "Shutting down...")
	return srv.Close()
}
