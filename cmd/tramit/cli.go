package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/tramit"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Rules     tramit.Rules
	Extractor tramit.Extractor
	Scraper   tramit.Scraper

	// Snapshots is nil unless a database is configured.
	Snapshots tramit.SnapshotService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose   bool          `short:"v" help:"Enable debug logging"`
	DB        string        `env:"TRAMIT_DB" help:"SQLite database for scrape history"`
	RulesFile string        `name:"rules-file" env:"TRAMIT_RULES" type:"path" help:"YAML file with extraction rules"`
	Timeout   time.Duration `env:"TRAMIT_TIMEOUT" default:"30s" help:"HTTP request timeout"`
	Retries   int           `default:"0" help:"Retries for connection errors and 5xx responses (max 3)"`
	RPS       float64       `name:"rps" default:"1" help:"Requests per second per domain (0 disables limiting)"`

	Serve   ServeCmd   `cmd:"" help:"Run the HTTP API"`
	Extract ExtractCmd `cmd:"" help:"Scrape pages and print their records as JSON"`
	History HistoryCmd `cmd:"" help:"List stored snapshots for a URL"`
	Rules   RulesCmd   `cmd:"" help:"Print the effective extraction rules as YAML"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr          string   `env:"TRAMIT_ADDR" default:":8000" help:"Listen address"`
	AllowedDomain []string `name:"allowed-domain" env:"TRAMIT_ALLOWED_DOMAINS" default:"tarragona.cat" help:"Domains that may be scraped (repeatable)"`
	DefaultURL    string   `name:"default-url" help:"Page scraped by the quick route"`
	AllowedOrigin string   `env:"TRAMIT_ALLOWED_ORIGIN" help:"Value for Access-Control-Allow-Origin"`
	Concurrency   int      `short:"c" default:"4" help:"Concurrent fetches per batch request"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URLs        []string `arg:"" optional:"" name:"url" help:"Page URLs"`
	File        string   `short:"f" type:"path" help:"Extract from a saved HTML file instead of fetching"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent fetch limit"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	URL   string `arg:"" help:"Page URL"`
	Limit int    `short:"n" default:"10" help:"Number of snapshots to show"`
}

// RulesCmd is the "rules" subcommand.
type RulesCmd struct{}
