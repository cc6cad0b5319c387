// Package api provides the HTTP REST API server for StockMood.
//
// It exposes endpoints for ticker news, end-of-day prices, derived
// sentiment series, lexicon inspection, configuration, and WebSocket
// streaming.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/stockmood/stockmood/internal/analysis/sentiment"
	"github.com/stockmood/stockmood/internal/analysis/series"
	"github.com/stockmood/stockmood/internal/config"
	"github.com/stockmood/stockmood/internal/datasource"
	"github.com/stockmood/stockmood/pkg/models"
	"github.com/stockmood/stockmood/pkg/utils"
)

// Version is the build version reported by /health. Overridden at
// link time via -ldflags.
var Version = "dev"

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	agg    *datasource.Aggregator
	wsHub  *WSHub
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config) (*Server, error) {
	agg, err := NewAggregatorFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	srv := &Server{
		cfg:   cfg,
		agg:   agg,
		wsHub: NewWSHub(),
	}

	srv.router = srv.buildRouter()
	return srv, nil
}

// NewServerWithAggregator creates a server backed by the given aggregator.
// Used by tests to inject stub data sources.
func NewServerWithAggregator(cfg *config.Config, agg *datasource.Aggregator) *Server {
	srv := &Server{
		cfg:   cfg,
		agg:   agg,
		wsHub: NewWSHub(),
	}
	srv.router = srv.buildRouter()
	return srv
}

// NewAggregatorFromConfig wires the configured news and price sources
// into an aggregator.
func NewAggregatorFromConfig(cfg *config.Config) (*datasource.Aggregator, error) {
	var news datasource.NewsSource
	switch cfg.News.Source {
	case "", "polygon":
		news = datasource.NewPolygonWithBaseURL(cfg.Providers.PolygonKey, cfg.Providers.PolygonURL)
	case "rss":
		if len(cfg.News.RSSFeeds) > 0 {
			sources := make([]datasource.RSSSource, 0, len(cfg.News.RSSFeeds))
			for _, u := range cfg.News.RSSFeeds {
				sources = append(sources, datasource.RSSSource{Name: u, URL: u})
			}
			news = datasource.NewRSSWithSources(sources)
		} else {
			news = datasource.NewRSS()
		}
	default:
		return nil, errors.New("unknown news source: " + cfg.News.Source)
	}

	prices := datasource.NewMarketstackWithBaseURL(cfg.Providers.MarketstackKey, cfg.Providers.MarketstackURL)
	return datasource.NewAggregator(news, prices, cfg.Providers.RangeYears), nil
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// Hub returns the WebSocket hub for testing.
func (s *Server) Hub() *WSHub {
	return s.wsHub
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start WebSocket hub
	go s.wsHub.Run()

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health (also available at /health)
		r.Get("/health", s.handleHealth)

		// News
		r.Get("/news/{ticker}", s.handleNews)

		// Prices
		r.Get("/prices/{ticker}", s.handlePrices)

		// Sentiment series
		r.Get("/sentiment/{ticker}", s.handleSentiment)

		// Lexicon
		r.Get("/lexicon", s.handleLexicon)

		// Configuration
		r.Get("/config", s.handleGetConfig)
		r.Put("/config", s.handleUpdateConfig)
		r.Get("/config/keys", s.handleGetConfigKeys)

		// WebSocket
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SentimentResponse is the payload for GET /api/v1/sentiment/{ticker}.
type SentimentResponse struct {
	Ticker       string                  `json:"ticker"`
	Range        models.DateRange        `json:"range"`
	TimeFrame    models.TimeFrame        `json:"timeframe"`
	ArticleCount int                     `json:"articleCount"`
	Sentiment    []models.SentimentPoint `json:"sentiment"`
	Prices       []models.PricePoint     `json:"prices"`
	Chart        models.ChartSeries      `json:"chart"`
}

// LexiconResponse is the payload for GET /api/v1/lexicon.
type LexiconResponse struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":  "ok",
			"version": Version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}
	ticker = utils.NormalizeTicker(ticker)

	window, ok := s.parseWindow(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	articles, err := s.agg.News().GetNews(ctx, ticker, window.From, window.To)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: models.NewsResponse{
			Range:   window,
			Count:   len(articles),
			Results: articles,
		},
	})
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}
	ticker = utils.NormalizeTicker(ticker)

	tf, err := s.timeFrameParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	window, ok := s.parseWindow(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	bars, err := s.agg.Prices().GetEOD(ctx, ticker, window.From, window.To)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	points := series.AggregatePriceData(bars, tf)

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: models.PriceResponse{
			Range:   window,
			Count:   len(points),
			Results: points,
		},
	})
}

func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}
	ticker = utils.NormalizeTicker(ticker)

	tf, err := s.timeFrameParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	snap, err := s.agg.FetchSnapshot(ctx, ticker, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	scored := sentiment.ScoreArticles(snap.Articles)
	mood := series.BuildSentimentSeries(scored, tf)
	prices := series.AggregatePriceData(snap.Prices, tf)

	// Notify WebSocket clients that a fresh series is available
	s.wsHub.Broadcast(WSMessage{
		Type: "series_computed",
		Data: map[string]interface{}{
			"ticker":    snap.Ticker,
			"timeframe": string(tf),
			"points":    len(mood),
		},
	})

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: SentimentResponse{
			Ticker:       snap.Ticker,
			Range:        snap.Range,
			TimeFrame:    tf,
			ArticleCount: len(scored),
			Sentiment:    mood,
			Prices:       prices,
			Chart:        models.ToChartSeries(mood),
		},
	})
}

func (s *Server) handleLexicon(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: LexiconResponse{
			Positive: sentiment.PositiveKeywords(),
			Negative: sentiment.NegativeKeywords(),
		},
	})
}

// ============================================================
// Helpers
// ============================================================

// timeFrameParam resolves the timeframe query param, falling back to
// the configured default granularity.
func (s *Server) timeFrameParam(r *http.Request) (models.TimeFrame, error) {
	v := r.URL.Query().Get("timeframe")
	if v == "" {
		v = s.cfg.Analysis.TimeFrame
	}
	return models.ParseTimeFrame(v)
}

// parseWindow resolves the from/to query params into a date range,
// falling back to the configured default lookback. Writes a 400 and
// returns ok=false when a supplied date is malformed.
func (s *Server) parseWindow(w http.ResponseWriter, r *http.Request) (models.DateRange, bool) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	if from != "" {
		if _, err := utils.ParseDate(from); err != nil {
			writeError(w, http.StatusBadRequest, "invalid from date; use YYYY-MM-DD")
			return models.DateRange{}, false
		}
	}
	if to != "" {
		if _, err := utils.ParseDate(to); err != nil {
			writeError(w, http.StatusBadRequest, "invalid to date; use YYYY-MM-DD")
			return models.DateRange{}, false
		}
	}

	return s.agg.Window(from, to), true
}

// writeUpstreamError maps datasource errors onto HTTP status codes.
func writeUpstreamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, datasource.ErrMissingAPIKey), errors.Is(err, datasource.ErrInvalidCredentials):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, datasource.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, datasource.ErrUpstreamUnavailable):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

// ============================================================
// WebSocket Hub
// ============================================================

// WSMessage is a message sent over WebSocket connections.
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// WSHub manages WebSocket connections and message broadcasting.
type WSHub struct {
	mu         sync.RWMutex
	clients    map[*WSClient]bool
	broadcast  chan WSMessage
	register   chan *WSClient
	unregister chan *WSClient
}

// WSClient represents a single WebSocket connection.
type WSClient struct {
	hub  *WSHub
	send chan WSMessage
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub() *WSHub {
	return &WSHub{
		clients:    make(map[*WSClient]bool),
		broadcast:  make(chan WSMessage, 256),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
	}
}

// Run starts the hub event loop.
func (h *WSHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// Slow client; disconnect
					h.mu.RUnlock()
					h.mu.Lock()
					delete(h.clients, client)
					close(client.send)
					h.mu.Unlock()
					h.mu.RLock()
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a message to all connected WebSocket clients.
func (h *WSHub) Broadcast(msg WSMessage) {
	select {
	case h.broadcast <- msg:
	default:
		// Drop message if broadcast channel is full
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register adds a client to the hub.
func (h *WSHub) Register(client *WSClient) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *WSHub) Unregister(client *WSClient) {
	h.unregister <- client
}
