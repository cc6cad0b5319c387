package datasource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/stockmood/stockmood/pkg/models"
	"github.com/stockmood/stockmood/pkg/utils"
)

// RSSSource describes one configured RSS feed.
type RSSSource struct {
	Name string
	URL  string
}

// DefaultRSSSources lists market news feeds usable without an API key.
var DefaultRSSSources = []RSSSource{
	{Name: "Yahoo Finance", URL: "https://finance.yahoo.com/news/rssindex"},
	{Name: "CNBC Markets", URL: "https://search.cnbc.com/rs/search/combinedcms/view.xml?partnerId=wrss01&id=10000664"},
	{Name: "MarketWatch", URL: "https://feeds.content.dowjones.io/public/rss/mw_topstories"},
}

// RSS implements a keyless news source backed by public RSS feeds.
// It is the fallback when no Polygon API key is configured; articles
// are filtered by ticker mention rather than provider-side tagging.
type RSS struct {
	sources []RSSSource
	cache   *Cache
	limiter *RateLimiter
	parser  *gofeed.Parser
}

var _ NewsSource = (*RSS)(nil)

// NewRSS creates an RSS news source with the default feeds.
func NewRSS() *RSS {
	return NewRSSWithSources(DefaultRSSSources)
}

// NewRSSWithSources creates an RSS news source with custom feeds.
func NewRSSWithSources(sources []RSSSource) *RSS {
	return &RSS{
		sources: sources,
		cache:   NewCache(10 * time.Minute),
		limiter: NewRateLimiter(2, time.Second), // conservative: 2 req/s
		parser:  gofeed.NewParser(),
	}
}

// Name returns the data source name.
func (r *RSS) Name() string { return "RSS News" }

// GetNews returns articles from all configured feeds that mention the
// ticker and fall inside the date window. Failed feeds are skipped;
// the fetch fails only when every feed fails.
func (r *RSS) GetNews(ctx context.Context, ticker, from, to string) ([]models.NewsArticle, error) {
	symbol := utils.NormalizeTicker(ticker)

	cacheKey := fmt.Sprintf("rss:%s:%s:%s", symbol, from, to)
	if cached, ok := r.cache.Get(cacheKey); ok {
		return cached.([]models.NewsArticle), nil
	}

	fromT, err := utils.ParseDate(from)
	if err != nil {
		return nil, err
	}
	toT, err := utils.ParseDate(to)
	if err != nil {
		return nil, err
	}
	// End of the "to" day.
	toT = toT.Add(24*time.Hour - time.Nanosecond)

	var articles []models.NewsArticle
	var lastErr error
	failed := 0

	for _, src := range r.sources {
		items, err := r.fetchFeed(ctx, src)
		if err != nil {
			failed++
			lastErr = err
			continue
		}
		articles = append(articles, items...)
	}

	if failed == len(r.sources) && lastErr != nil {
		return nil, fmt.Errorf("all RSS feeds failed: %w: %v", ErrUpstreamUnavailable, lastErr)
	}

	needle := strings.ToLower(symbol)
	filtered := make([]models.NewsArticle, 0, len(articles))
	for _, a := range articles {
		if a.PublishedAt.Before(fromT) || a.PublishedAt.After(toT) {
			continue
		}
		content := strings.ToLower(a.Title + " " + a.Description)
		if !strings.Contains(content, needle) {
			continue
		}
		a.Tickers = []string{symbol}
		filtered = append(filtered, a)
	}

	r.cache.Set(cacheKey, filtered)
	return filtered, nil
}

// fetchFeed parses one RSS feed into articles.
func (r *RSS) fetchFeed(ctx context.Context, src RSSSource) ([]models.NewsArticle, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := r.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", src.Name, err)
	}

	articles := make([]models.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.PublishedParsed == nil {
			// No usable timestamp; the series builder needs one.
			continue
		}
		a := models.NewsArticle{
			ID:          item.GUID,
			Title:       item.Title,
			Description: cleanHTML(item.Description),
			PublishedAt: *item.PublishedParsed,
			URL:         item.Link,
			Tickers:     []string{},
			Keywords:    item.Categories,
		}
		if a.ID == "" {
			a.ID = item.Link
		}
		if a.Keywords == nil {
			a.Keywords = []string{}
		}
		articles = append(articles, a)
	}

	return articles, nil
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
