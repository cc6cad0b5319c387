// StockMood: news sentiment vs. price for stock tickers.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockmood/stockmood/api"
	"github.com/stockmood/stockmood/internal/analysis/sentiment"
	"github.com/stockmood/stockmood/internal/analysis/series"
	"github.com/stockmood/stockmood/internal/config"
	"github.com/stockmood/stockmood/internal/datasource"
	"github.com/stockmood/stockmood/pkg/models"
	"github.com/stockmood/stockmood/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stockmood",
	Short: "StockMood — news sentiment vs. price for stock tickers",
	Long: `StockMood turns a ticker's news flow into a cumulative sentiment
series and lines it up against end-of-day closing prices, daily or
resampled into calendar weeks.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(pricesCmd)
	rootCmd.AddCommand(sentimentCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// newAggregator wires data sources from the loaded config.
func newAggregator() (*datasource.Aggregator, error) {
	return api.NewAggregatorFromConfig(cfg)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("StockMood %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news [ticker]",
	Short: "Fetch recent news for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker := utils.NormalizeTicker(args[0])
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")

		agg, err := newAggregator()
		if err != nil {
			return err
		}
		window := agg.Window(from, to)

		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		articles, err := agg.News().GetNews(ctx, ticker, window.From, window.To)
		if err != nil {
			return fmt.Errorf("news fetch failed: %w", err)
		}

		fmt.Printf("📰 %s — %d articles (%s → %s)\n\n", ticker, len(articles), window.From, window.To)
		for _, a := range articles {
			fmt.Printf("  %s  %s\n", utils.DateKey(a.PublishedAt), a.Title)
		}
		return nil
	},
}

func init() {
	newsCmd.Flags().String("from", "", "start date (YYYY-MM-DD)")
	newsCmd.Flags().String("to", "", "end date (YYYY-MM-DD)")
}

// --- Prices Command ---

var pricesCmd = &cobra.Command{
	Use:   "prices [ticker]",
	Short: "Fetch end-of-day closing prices for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker := utils.NormalizeTicker(args[0])
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		tfStr, _ := cmd.Flags().GetString("timeframe")
		if tfStr == "" {
			tfStr = cfg.Analysis.TimeFrame
		}

		tf, err := models.ParseTimeFrame(tfStr)
		if err != nil {
			return err
		}

		agg, err := newAggregator()
		if err != nil {
			return err
		}
		window := agg.Window(from, to)

		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		bars, err := agg.Prices().GetEOD(ctx, ticker, window.From, window.To)
		if err != nil {
			return fmt.Errorf("price fetch failed: %w", err)
		}

		points := series.AggregatePriceData(bars, tf)
		fmt.Printf("💹 %s — %d %s closes (%s → %s)\n\n", ticker, len(points), tf, window.From, window.To)
		for _, p := range points {
			fmt.Printf("  %s  %10.2f\n", p.Date, p.Close)
		}
		return nil
	},
}

func init() {
	pricesCmd.Flags().String("from", "", "start date (YYYY-MM-DD)")
	pricesCmd.Flags().String("to", "", "end date (YYYY-MM-DD)")
	pricesCmd.Flags().String("timeframe", "", "series granularity (daily or weekly; default from config)")
}

// --- Sentiment Command ---

var sentimentCmd = &cobra.Command{
	Use:   "sentiment [ticker]",
	Short: "Build the cumulative sentiment series for a ticker",
	Long: `Fetch news and prices for a ticker, score each article against the
keyword lexicon, and print the cumulative sentiment series next to
the closing prices.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker := utils.NormalizeTicker(args[0])
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		tfStr, _ := cmd.Flags().GetString("timeframe")
		if tfStr == "" {
			tfStr = cfg.Analysis.TimeFrame
		}

		tf, err := models.ParseTimeFrame(tfStr)
		if err != nil {
			return err
		}

		agg, err := newAggregator()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		snap, err := agg.FetchSnapshot(ctx, ticker, from, to)
		if err != nil {
			return fmt.Errorf("snapshot fetch failed: %w", err)
		}

		scored := sentiment.ScoreArticles(snap.Articles)
		mood := series.BuildSentimentSeries(scored, tf)
		prices := series.AggregatePriceData(snap.Prices, tf)

		closes := make(map[string]float64, len(prices))
		for _, p := range prices {
			closes[p.Date] = p.Close
		}

		fmt.Printf("🧭 %s — %s sentiment from %d articles (%s → %s)\n\n",
			snap.Ticker, tf, len(scored), snap.Range.From, snap.Range.To)
		fmt.Printf("  %-12s %10s %12s\n", "date", "sentiment", "close")
		for _, p := range mood {
			if c, ok := closes[p.Date]; ok {
				fmt.Printf("  %-12s %10d %12.2f\n", p.Date, p.CumulativeScore, c)
			} else {
				fmt.Printf("  %-12s %10d %12s\n", p.Date, p.CumulativeScore, "—")
			}
		}
		return nil
	},
}

func init() {
	sentimentCmd.Flags().String("from", "", "start date (YYYY-MM-DD)")
	sentimentCmd.Flags().String("to", "", "end date (YYYY-MM-DD)")
	sentimentCmd.Flags().String("timeframe", "", "series granularity (daily or weekly; default from config)")
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := api.NewServer(cfg)
		if err != nil {
			return fmt.Errorf("server setup failed: %w", err)
		}

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 Starting StockMood API server on %s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  StockMood — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:     %s (%s)\n", version, commit)
		fmt.Printf("  Time (UTC):  %s\n", time.Now().UTC().Format("2006-01-02 15:04:05"))
		fmt.Println()

		// Config summary
		fmt.Println("  Configuration:")
		fmt.Printf("    News Source:   %s\n", cfg.News.Source)
		fmt.Printf("    Lookback:      %d years\n", cfg.Providers.RangeYears)
		fmt.Printf("    API Server:    %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Println()

		// API keys status
		fmt.Println("  API Keys:")
		keys := config.CheckAPIKeys(cfg)
		for _, k := range keys {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
