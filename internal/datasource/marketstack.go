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
	// defaultMarketstackURL is the Marketstack end-of-day endpoint.
	defaultMarketstackURL = "http://api.marketstack.com/v1/eod"

	// marketstackLimit is the maximum number of bars requested per query.
	marketstackLimit = 1000
)

// Marketstack fetches end-of-day price bars from the Marketstack API.
type Marketstack struct {
	baseURL string
	apiKey  string
	cache   *Cache
	limiter *RateLimiter
}

var _ PriceSource = (*Marketstack)(nil)

// NewMarketstack creates a Marketstack price source with the given API key.
func NewMarketstack(apiKey string) *Marketstack {
	return &Marketstack{
		baseURL: defaultMarketstackURL,
		apiKey:  apiKey,
		cache:   NewCache(time.Hour),
		limiter: NewRateLimiter(5, time.Second),
	}
}

// NewMarketstackWithBaseURL creates a Marketstack source against a custom
// endpoint. An empty baseURL keeps the default.
func NewMarketstackWithBaseURL(apiKey, baseURL string) *Marketstack {
	m := NewMarketstack(apiKey)
	if baseURL != "" {
		m.baseURL = baseURL
	}
	return m
}

// Name returns the data source name.
func (m *Marketstack) Name() string { return "Marketstack EOD" }

// --- Marketstack API types ---

type marketstackEODItem struct {
	Date   string  `json:"date"`
	Symbol string  `json:"symbol"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type marketstackError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type marketstackResponse struct {
	Data  []marketstackEODItem `json:"data"`
	Error *marketstackError    `json:"error"`
}

// GetEOD returns daily price bars for the ticker between from and to
// (inclusive "2006-01-02" dates). Provider dates are trimmed to the
// calendar day.
func (m *Marketstack) GetEOD(ctx context.Context, ticker, from, to string) ([]models.PriceBar, error) {
	if m.apiKey == "" {
		return nil, fmt.Errorf("marketstack: %w", ErrMissingAPIKey)
	}

	symbol := utils.NormalizeTicker(ticker)
	cacheKey := fmt.Sprintf("eod:%s:%s:%s", symbol, from, to)
	if cached, ok := m.cache.Get(cacheKey); ok {
		return cached.([]models.PriceBar), nil
	}

	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("access_key", m.apiKey)
	params.Set("symbols", symbol)
	params.Set("date_from", from)
	params.Set("date_to", to)
	params.Set("limit", strconv.Itoa(marketstackLimit))

	body, status, err := doGet(ctx, m.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		switch status {
		case 401, 403:
			return nil, fmt.Errorf("marketstack: %w: %v", ErrInvalidCredentials, err)
		case 429:
			return nil, fmt.Errorf("marketstack: %w", ErrRateLimited)
		}
		if status >= 500 {
			return nil, fmt.Errorf("marketstack: %w: %v", ErrUpstreamUnavailable, err)
		}
		return nil, fmt.Errorf("marketstack eod request: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read marketstack response: %w", err)
	}

	var resp marketstackResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse marketstack response: %w", err)
	}
	if resp.Error != nil {
		if resp.Error.Code == "invalid_access_key" {
			return nil, fmt.Errorf("marketstack: %w: %s", ErrInvalidCredentials, resp.Error.Message)
		}
		return nil, fmt.Errorf("marketstack API error %s: %s", resp.Error.Code, resp.Error.Message)
	}

	bars := make([]models.PriceBar, 0, len(resp.Data))
	for _, item := range resp.Data {
		date := utils.TrimDate(item.Date)
		if _, err := utils.ParseDate(date); err != nil {
			return nil, fmt.Errorf("price bar %s/%s: %w", item.Symbol, item.Date, err)
		}
		bars = append(bars, models.PriceBar{
			Date:   date,
			Symbol: item.Symbol,
			Open:   item.Open,
			High:   item.High,
			Low:    item.Low,
			Close:  item.Close,
			Volume: int64(item.Volume),
		})
	}

	m.cache.Set(cacheKey, bars)
	return bars, nil
}
