package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/stockmood/stockmood/pkg/models"
	"github.com/stockmood/stockmood/pkg/utils"
)

const (
	// defaultPolygonURL is the Polygon.io reference news endpoint.
	defaultPolygonURL = "https://api.polygon.io/v2/reference/news"

	// polygonPageSize is the number of articles requested per page.
	polygonPageSize = 50

	// polygonMaxArticles caps how many articles a single query collects
	// across pages.
	polygonMaxArticles = 400
)

// Polygon fetches ticker news from the Polygon.io reference news API,
// following next_url pagination until the article cap is reached.
type Polygon struct {
	baseURL string
	apiKey  string
	cache   *Cache
	limiter *RateLimiter
}

var _ NewsSource = (*Polygon)(nil)

// NewPolygon creates a Polygon news source with the given API key.
func NewPolygon(apiKey string) *Polygon {
	return &Polygon{
		baseURL: defaultPolygonURL,
		apiKey:  apiKey,
		cache:   NewCache(time.Hour),
		limiter: NewRateLimiter(5, time.Second),
	}
}

// NewPolygonWithBaseURL creates a Polygon source against a custom endpoint.
// An empty baseURL keeps the default.
func NewPolygonWithBaseURL(apiKey, baseURL string) *Polygon {
	p := NewPolygon(apiKey)
	if baseURL != "" {
		p.baseURL = baseURL
	}
	return p
}

// Name returns the data source name.
func (p *Polygon) Name() string { return "Polygon.io News" }

// --- Polygon API types ---

type polygonNewsItem struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	PublishedUTC string   `json:"published_utc"`
	ArticleURL   string   `json:"article_url"`
	Tickers      []string `json:"tickers"`
	ImageURL     string   `json:"image_url"`
	Keywords     []string `json:"keywords"`
}

type polygonNewsResponse struct {
	Results []polygonNewsItem `json:"results"`
	NextURL string            `json:"next_url"`
	Status  string            `json:"status"`
	Error   string            `json:"error"`
}

// GetNews returns sanitized news articles for the ticker between from and
// to (inclusive "2006-01-02" dates). Articles arrive oldest first.
func (p *Polygon) GetNews(ctx context.Context, ticker, from, to string) ([]models.NewsArticle, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("polygon: %w", ErrMissingAPIKey)
	}

	symbol := utils.NormalizeTicker(ticker)
	cacheKey := fmt.Sprintf("news:%s:%s:%s", symbol, from, to)
	if cached, ok := p.cache.Get(cacheKey); ok {
		return cached.([]models.NewsArticle), nil
	}

	params := url.Values{}
	params.Set("ticker", symbol)
	params.Set("limit", strconv.Itoa(polygonPageSize))
	params.Set("order", "asc")
	params.Set("published_utc.gte", from+"T00:00:00Z")
	params.Set("published_utc.lte", to+"T23:59:59Z")
	params.Set("apiKey", p.apiKey)

	var items []polygonNewsItem
	nextURL := p.baseURL + "?" + params.Encode()

	for nextURL != "" && len(items) < polygonMaxArticles {
		page, err := p.fetchPage(ctx, nextURL)
		if err != nil {
			return nil, err
		}
		if page.Error != "" {
			return nil, fmt.Errorf("polygon API error: %s", page.Error)
		}
		if len(page.Results) == 0 {
			break
		}

		items = append(items, page.Results...)

		if page.NextURL == "" {
			break
		}
		nextURL, err = withAPIKey(page.NextURL, p.apiKey)
		if err != nil {
			return nil, fmt.Errorf("polygon next_url: %w", err)
		}
	}

	if len(items) > polygonMaxArticles {
		items = items[:polygonMaxArticles]
	}

	articles, err := sanitizeArticles(items)
	if err != nil {
		return nil, err
	}

	p.cache.Set(cacheKey, articles)
	return articles, nil
}

// fetchPage requests one page of news results.
func (p *Polygon) fetchPage(ctx context.Context, pageURL string) (*polygonNewsResponse, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, status, err := doGet(ctx, pageURL, nil)
	if err != nil {
		switch status {
		case 401, 403:
			return nil, fmt.Errorf("polygon: %w: %v", ErrInvalidCredentials, err)
		case 429:
			return nil, fmt.Errorf("polygon: %w", ErrRateLimited)
		}
		if status >= 500 {
			return nil, fmt.Errorf("polygon: %w: %v", ErrUpstreamUnavailable, err)
		}
		return nil, fmt.Errorf("polygon news request: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read polygon response: %w", err)
	}

	var page polygonNewsResponse
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("parse polygon response: %w", err)
	}
	return &page, nil
}

// sanitizeArticles maps raw Polygon items to the domain model, parsing
// publish timestamps at this boundary so the analytic core never sees a
// malformed date. An unparseable timestamp fails the whole fetch and
// names the offending record.
func sanitizeArticles(items []polygonNewsItem) ([]models.NewsArticle, error) {
	articles := make([]models.NewsArticle, 0, len(items))
	for _, item := range items {
		publishedAt, err := utils.ParseTimestamp(item.PublishedUTC)
		if err != nil {
			return nil, fmt.Errorf("article %q: %w", item.Title, err)
		}

		id := item.ID
		if id == "" {
			id = item.PublishedUTC + "-" + item.ArticleURL
		}

		tickers := item.Tickers
		if tickers == nil {
			tickers = []string{}
		}
		keywords := item.Keywords
		if keywords == nil {
			keywords = []string{}
		}

		articles = append(articles, models.NewsArticle{
			ID:          id,
			Title:       item.Title,
			Description: item.Description,
			PublishedAt: publishedAt,
			URL:         item.ArticleURL,
			Tickers:     tickers,
			ImageURL:    item.ImageURL,
			Keywords:    keywords,
		})
	}
	return articles, nil
}

// withAPIKey re-appends the API key to a provider-supplied next_url.
func withAPIKey(rawURL, apiKey string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := parsed.Query()
	q.Set("apiKey", apiKey)
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}
