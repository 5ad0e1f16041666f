package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/tramit"
	"github.com/fwojciec/tramit/goquery"
	tramithttp "github.com/fwojciec/tramit/http"
	"github.com/fwojciec/tramit/rate"
	"github.com/fwojciec/tramit/scrape"
	tramitslog "github.com/fwojciec/tramit/slog"
	"github.com/fwojciec/tramit/sqlite"
	"github.com/fwojciec/tramit/yaml"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// EnvFile is loaded into the environment before flags are parsed.
	// A missing file is ignored.
	EnvFile string

	// SQLite database holding snapshots, opened when --db is set.
	DB *sqlite.DB

	// Fetcher replaces the HTTP fetcher when set.
	Fetcher tramit.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{EnvFile: ".env"}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if m.EnvFile != "" {
		if err := godotenv.Load(m.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", m.EnvFile, err)
		}
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("tramit"),
		kong.Description("Extract structured information from municipal procedure pages."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'tramit --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	rules := tramit.DefaultRules()
	if cli.RulesFile != "" {
		r, err := yaml.LoadRulesFile(cli.RulesFile)
		if err != nil {
			return fmt.Errorf("failed to load rules: %w", err)
		}
		rules = *r
	}
	deps.Rules = rules
	deps.Extractor = goquery.NewExtractor(rules)

	if cli.DB != "" {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		defer m.Close()
		deps.Snapshots = tramitslog.NewLoggingSnapshotService(sqlite.NewSnapshotService(m.DB), deps.Logger)
	}

	fetcher := m.Fetcher
	if fetcher == nil {
		opts := []tramithttp.Option{
			tramithttp.WithTimeout(cli.Timeout),
			tramithttp.WithLimiter(rate.NewDomainLimiter(cli.RPS)),
		}
		if n := min(cli.Retries, len(tramithttp.DefaultRetryDelays())); n > 0 {
			opts = append(opts, tramithttp.WithRetryDelays(tramithttp.DefaultRetryDelays()[:n]))
		}
		fetcher = tramithttp.NewFetcher(opts...)
	}

	deps.Scraper = tramitslog.NewLoggingScraper(&scrape.Service{
		Fetcher:   tramitslog.NewLoggingFetcher(fetcher, deps.Logger),
		Extractor: deps.Extractor,
		Snapshots: deps.Snapshots,
		Logger:    deps.Logger,
	}, deps.Logger)

	return kongCtx.Run(deps)
}
