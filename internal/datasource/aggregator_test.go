package datasource

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stockmood/stockmood/pkg/models"
)

type stubNews struct {
	articles []models.NewsArticle
	err      error
	gotFrom  string
	gotTo    string
}

func (s *stubNews) Name() string { return "stub news" }

func (s *stubNews) GetNews(_ context.Context, _, from, to string) ([]models.NewsArticle, error) {
	s.gotFrom, s.gotTo = from, to
	return s.articles, s.err
}

type stubPrices struct {
	bars []models.PriceBar
	err  error
}

func (s *stubPrices) Name() string { return "stub prices" }

func (s *stubPrices) GetEOD(_ context.Context, _, _, _ string) ([]models.PriceBar, error) {
	return s.bars, s.err
}

func TestFetchSnapshot(t *testing.T) {
	news := &stubNews{articles: []models.NewsArticle{
		{ID: "a1", Title: "Profit surge", PublishedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
	}}
	prices := &stubPrices{bars: []models.PriceBar{
		{Date: "2024-03-01", Symbol: "AAPL", Close: 100},
	}}

	agg := NewAggregator(news, prices, 2)
	snap, err := agg.FetchSnapshot(context.Background(), "aapl", "2024-03-01", "2024-03-31")
	if err != nil {
		t.Fatalf("FetchSnapshot returned error: %v", err)
	}

	if snap.Ticker != "AAPL" {
		t.Errorf("ticker = %s, want AAPL", snap.Ticker)
	}
	if len(snap.Articles) != 1 || len(snap.Prices) != 1 {
		t.Errorf("snapshot incomplete: %+v", snap)
	}
	if snap.Range.From != "2024-03-01" || snap.Range.To != "2024-03-31" {
		t.Errorf("explicit window not honored: %+v", snap.Range)
	}
	if news.gotFrom != "2024-03-01" || news.gotTo != "2024-03-31" {
		t.Errorf("window not forwarded to source: %s..%s", news.gotFrom, news.gotTo)
	}
}

func TestFetchSnapshotDefaultWindow(t *testing.T) {
	news := &stubNews{}
	agg := NewAggregator(news, &stubPrices{}, 2)

	snap, err := agg.FetchSnapshot(context.Background(), "AAPL", "", "")
	if err != nil {
		t.Fatalf("FetchSnapshot returned error: %v", err)
	}

	from, err := time.Parse("2006-01-02", snap.Range.From)
	if err != nil {
		t.Fatalf("default from is not a date: %v", err)
	}
	to, err := time.Parse("2006-01-02", snap.Range.To)
	if err != nil {
		t.Fatalf("default to is not a date: %v", err)
	}
	if !from.Before(to) {
		t.Errorf("default window inverted: %s..%s", snap.Range.From, snap.Range.To)
	}
}

func TestFetchSnapshotPropagatesErrors(t *testing.T) {
	wantErr := errors.New("boom")
	agg := NewAggregator(&stubNews{err: wantErr}, &stubPrices{}, 2)

	_, err := agg.FetchSnapshot(context.Background(), "AAPL", "", "")
	if !errors.Is(err, wantErr) {
		t.Errorf("expected news error to propagate, got %v", err)
	}
}
