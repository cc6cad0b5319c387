// Package models defines the core data structures used throughout StockMood.
package models

import "time"

// NewsArticle is a single news item fetched from an upstream provider.
// Records handed to the analytic core are assumed deduplicated and to
// carry a parseable publish timestamp; the datasource boundary enforces both.
type NewsArticle struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	PublishedAt time.Time `json:"published_utc"`
	URL         string    `json:"url,omitempty"`
	Tickers     []string  `json:"tickers"`
	ImageURL    string    `json:"image_url,omitempty"`
	Keywords    []string  `json:"keywords"`
}

// ScoredArticle is a NewsArticle enriched with a signed sentiment score.
// The score is ±1 in current behavior; 0 is reserved for future use.
type ScoredArticle struct {
	NewsArticle
	SentimentScore int `json:"sentimentScore"`
}

// DateRange describes the inclusive date window of a response.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NewsResponse is the envelope served for news queries.
type NewsResponse struct {
	Range   DateRange     `json:"range"`
	Count   int           `json:"count"`
	Results []NewsArticle `json:"results"`
}
