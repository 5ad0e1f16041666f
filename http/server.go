package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/tramit"
	"github.com/fwojciec/tramit/scrape"
)

// DefaultPadronURL is the Tarragona "Alta al padró" page scraped by the quick route.
const DefaultPadronURL = "https://seu.tarragona.cat/sta/CarpetaPublic/doEvent?APP_CODE=STA&PAGE_CODE=CATALOGO&DETALLE=6269000003494351199500&lang=ES"

// DefaultAllowedDomain is the only domain the scrape routes accept by default.
const DefaultAllowedDomain = "tarragona.cat"

// ServiceName is reported by the health route.
const ServiceName = "tramit"

// Snapshot list limits.
const (
	defaultSnapshotLimit = 20
	maxSnapshotLimit     = 100
)

// ShutdownTimeout is how long Close waits for in-flight requests.
const ShutdownTimeout = 30 * time.Second

// Config configures a Server.
type Config struct {
	Addr    string
	Scraper tramit.Scraper

	// Snapshots backs the history routes. They return 404 when nil.
	Snapshots tramit.SnapshotService

	// AllowedDomains restricts the hosts that may be scraped. Nil means
	// DefaultAllowedDomain; an empty non-nil slice allows any host.
	AllowedDomains []string

	// DefaultURL is scraped by the quick route. Defaults to DefaultPadronURL.
	DefaultURL string

	// AllowedOrigin is sent as Access-Control-Allow-Origin when non-empty.
	AllowedOrigin string

	BatchConcurrency int
	Logger           *slog.Logger
}

// Server is the JSON API over a tramit.Scraper.
type Server struct {
	ln     net.Listener
	server *http.Server
	router *http.ServeMux

	addr           string
	scraper        tramit.Scraper
	snapshots      tramit.SnapshotService
	allowedDomains []string
	defaultURL     string
	allowedOrigin  string
	concurrency    int
	logger         *slog.Logger
}

// NewServer creates a Server and registers its routes.
func NewServer(cfg Config) *Server {
	s := &Server{
		router:         http.NewServeMux(),
		addr:           cfg.Addr,
		scraper:        cfg.Scraper,
		snapshots:      cfg.Snapshots,
		allowedDomains: cfg.AllowedDomains,
		defaultURL:     cfg.DefaultURL,
		allowedOrigin:  cfg.AllowedOrigin,
		concurrency:    cfg.BatchConcurrency,
		logger:         cfg.Logger,
	}
	if s.allowedDomains == nil {
		s.allowedDomains = []string{DefaultAllowedDomain}
	}
	if s.defaultURL == "" {
		s.defaultURL = DefaultPadronURL
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	s.router.HandleFunc("POST /scrape/tarragona-padron", s.handleScrape)
	s.router.HandleFunc("GET /scrape/tarragona-padron/quick", s.handleQuickScrape)
	s.router.HandleFunc("POST /scrape/batch", s.handleBatchScrape)
	s.router.HandleFunc("GET /snapshots", s.handleListSnapshots)
	s.router.HandleFunc("GET /snapshots/{id}", s.handleGetSnapshot)
	s.router.HandleFunc("GET /health", s.handleHealth)

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler returns the routes wrapped in the server's middleware.
func (s *Server) Handler() http.Handler {
	return s.withLogging(s.withCORS(s.router))
}

// Open starts listening on the configured address and serves in the background.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.addr); err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", "err", err)
		}
	}()

	s.logger.Info("http server listening", "addr", s.ln.Addr().String())
	return nil
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the address the server is listening on, or "" before Open.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.Error(w, r, err)
		return
	}
	if err := checkDomain(req.URL, s.allowedDomains); err != nil {
		s.Error(w, r, err)
		return
	}

	s.outcomeResponse(w, s.scraper.Scrape(r.Context(), req.URL))
}

func (s *Server) handleQuickScrape(w http.ResponseWriter, r *http.Request) {
	s.outcomeResponse(w, s.scraper.Scrape(r.Context(), s.defaultURL))
}

func (s *Server) handleBatchScrape(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.Error(w, r, err)
		return
	}
	for _, u := range req.URLs {
		if err := checkDomain(u, s.allowedDomains); err != nil {
			s.Error(w, r, err)
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, scrape.Batch(r.Context(), s.scraper, req.URLs, s.concurrency))
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.snapshots == nil {
		s.Error(w, r, tramit.Errorf(tramit.ENOTFOUND, "snapshot history is disabled"))
		return
	}

	filter := tramit.SnapshotFilter{Limit: defaultSnapshotLimit}
	if u := r.URL.Query().Get("url"); u != "" {
		filter.URL = &u
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxSnapshotLimit {
			s.Error(w, r, tramit.Errorf(tramit.EINVALID, "limit must be between 1 and %d", maxSnapshotLimit))
			return
		}
		filter.Limit = n
	}

	snaps, err := s.snapshots.FindSnapshots(r.Context(), filter)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snaps)
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.snapshots == nil {
		s.Error(w, r, tramit.Errorf(tramit.ENOTFOUND, "snapshot history is disabled"))
		return
	}

	snap, err := s.snapshots.FindSnapshotByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, HealthResponse{Status: "healthy", Service: ServiceName})
}

// outcomeResponse writes a scrape outcome. Failures use status 500.
func (s *Server) outcomeResponse(w http.ResponseWriter, o *tramit.Outcome) {
	status := http.StatusOK
	if !o.Success {
		status = http.StatusInternalServerError
	}
	s.jsonResponse(w, status, o)
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	if s.allowedOrigin == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func(begin time.Time) {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(begin),
			)
		}(time.Now())
		next.ServeHTTP(rec, r)
	})
}
