package datasource

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/stockmood/stockmood/pkg/models"
	"github.com/stockmood/stockmood/pkg/utils"
)

// Snapshot bundles everything fetched for one ticker and window:
// the raw article and price bar collections the analytic core consumes.
type Snapshot struct {
	Ticker   string
	Range    models.DateRange
	Articles []models.NewsArticle
	Prices   []models.PriceBar
}

// Aggregator composes the configured news and price sources and fetches
// both sides of a snapshot concurrently.
type Aggregator struct {
	news       NewsSource
	prices     PriceSource
	rangeYears int
}

// NewAggregator wires the news and price sources. rangeYears controls
// the default query window when the caller supplies no dates.
func NewAggregator(news NewsSource, prices PriceSource, rangeYears int) *Aggregator {
	if rangeYears <= 0 {
		rangeYears = 2
	}
	return &Aggregator{news: news, prices: prices, rangeYears: rangeYears}
}

// News returns the news source for direct access.
func (a *Aggregator) News() NewsSource { return a.news }

// Prices returns the price source for direct access.
func (a *Aggregator) Prices() PriceSource { return a.prices }

// Window resolves the effective date range: both dates provided are used
// as-is, otherwise the default lookback window applies.
func (a *Aggregator) Window(from, to string) models.DateRange {
	if from != "" && to != "" {
		return models.DateRange{From: from, To: to}
	}
	f, t := utils.DefaultRange(a.rangeYears)
	return models.DateRange{From: f, To: t}
}

// FetchSnapshot fetches news and prices for the ticker concurrently.
// Either side failing fails the snapshot.
func (a *Aggregator) FetchSnapshot(ctx context.Context, ticker, from, to string) (*Snapshot, error) {
	symbol := utils.NormalizeTicker(ticker)
	window := a.Window(from, to)

	snap := &Snapshot{Ticker: symbol, Range: window}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		articles, err := a.news.GetNews(gctx, symbol, window.From, window.To)
		if err != nil {
			return fmt.Errorf("news: %w", err)
		}
		snap.Articles = articles
		return nil
	})

	g.Go(func() error {
		bars, err := a.prices.GetEOD(gctx, symbol, window.From, window.To)
		if err != nil {
			return fmt.Errorf("prices: %w", err)
		}
		snap.Prices = bars
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}
