// Package sentiment implements the keyword-based polarity classifier
// (offline, deterministic). Matching is plain substring containment
// against lowercase lexicons; no negation handling, no word boundaries.
package sentiment

import (
	"strings"

	"github.com/stockmood/stockmood/pkg/models"
)

// Label is the polarity classification of a block of text.
type Label string

const (
	LabelPositive Label = "positive"
	LabelNegative Label = "negative"
)

// Result carries the classification of one block of text.
type Result struct {
	Label           Label    `json:"label"`
	Score           int      `json:"score"`
	PositiveMatches []string `json:"positiveMatches"`
	NegativeMatches []string `json:"negativeMatches"`
}

// collectMatches returns the lexicon terms contained in the normalized text.
func collectMatches(keywords []string, normalized string) []string {
	var matches []string
	for _, kw := range keywords {
		if strings.Contains(normalized, kw) {
			matches = append(matches, kw)
		}
	}
	return matches
}

// ScoreText classifies arbitrary text against the keyword lexicons.
// Ties, including text with no keyword matches at all, classify as
// negative. The output is always binary: +1 or -1.
func ScoreText(text string) Result {
	normalized := strings.ToLower(text)

	pos := collectMatches(positiveKeywords, normalized)
	neg := collectMatches(negativeKeywords, normalized)

	res := Result{
		PositiveMatches: pos,
		NegativeMatches: neg,
	}

	if len(pos) > len(neg) {
		res.Label = LabelPositive
		res.Score = 1
		return res
	}

	res.Label = LabelNegative
	res.Score = -1
	return res
}

// ScoreArticleContent scores an article's textual fields as one block.
// Title always contributes; empty description and keywords are skipped.
func ScoreArticleContent(title, description string, keywords []string) Result {
	parts := make([]string, 0, 2+len(keywords))
	if title != "" {
		parts = append(parts, title)
	}
	if description != "" {
		parts = append(parts, description)
	}
	for _, kw := range keywords {
		if kw != "" {
			parts = append(parts, kw)
		}
	}
	return ScoreText(strings.Join(parts, ". "))
}

// ScoreArticles enriches each article with its sentiment score,
// preserving input order and all original fields.
func ScoreArticles(articles []models.NewsArticle) []models.ScoredArticle {
	scored := make([]models.ScoredArticle, 0, len(articles))
	for _, a := range articles {
		res := ScoreArticleContent(a.Title, a.Description, a.Keywords)
		scored = append(scored, models.ScoredArticle{
			NewsArticle:    a,
			SentimentScore: res.Score,
		})
	}
	return scored
}
