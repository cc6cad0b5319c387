package series

import (
	"sort"

	"github.com/stockmood/stockmood/pkg/models"
	"github.com/stockmood/stockmood/pkg/utils"
)

// BuildSentimentSeries turns scored articles into a cumulative sentiment
// curve at the requested granularity. The input slice is never mutated;
// articles are copied and stably sorted by publish time, so equal
// timestamps keep their original relative order and any permutation of
// the same article set yields an identical series.
func BuildSentimentSeries(articles []models.ScoredArticle, tf models.TimeFrame) []models.SentimentPoint {
	sorted := make([]models.ScoredArticle, len(articles))
	copy(sorted, articles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.Before(sorted[j].PublishedAt)
	})

	// Running total keyed by publish day. Later articles on the same day
	// overwrite the entry with the already-incremented total, so each day
	// carries the cumulative score as of its last article.
	cumulative := 0
	totals := map[string]int{}
	order := make([]string, 0, len(sorted))

	for _, a := range sorted {
		cumulative += a.SentimentScore
		key := utils.DateKey(a.PublishedAt)
		if _, seen := totals[key]; !seen {
			order = append(order, key)
		}
		totals[key] = cumulative
	}

	daily := make([]models.SentimentPoint, 0, len(order))
	for _, key := range order {
		daily = append(daily, models.SentimentPoint{Date: key, CumulativeScore: totals[key]})
	}

	if tf == models.TimeFrameWeekly {
		return aggregateSentimentByWeek(daily)
	}
	return daily
}

// aggregateSentimentByWeek groups daily points into Jan-1-anchored week
// buckets. Each bucket's value is the SUM of the per-day cumulative
// readings that fall in it, not a re-based weekly cumulative. The bucket
// is labelled with the date of its first daily point, and buckets are
// emitted in first-seen order, which is chronological because the daily
// series is already sorted.
func aggregateSentimentByWeek(daily []models.SentimentPoint) []models.SentimentPoint {
	type bucket struct {
		date  string
		value int
	}

	idx := map[string]int{}
	buckets := make([]bucket, 0, len(daily))

	for _, p := range daily {
		day, err := utils.ParseDate(p.Date)
		if err != nil {
			// Daily keys are produced by DateKey and always parse.
			continue
		}
		key := WeekKey(day)
		if i, ok := idx[key]; ok {
			buckets[i].value += p.CumulativeScore
			continue
		}
		idx[key] = len(buckets)
		buckets = append(buckets, bucket{date: p.Date, value: p.CumulativeScore})
	}

	weekly := make([]models.SentimentPoint, 0, len(buckets))
	for _, b := range buckets {
		weekly = append(weekly, models.SentimentPoint{Date: b.date, CumulativeScore: b.value})
	}
	return weekly
}
