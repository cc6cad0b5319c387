// Package series builds the cumulative sentiment and resampled price
// time series consumed by charts and tables.
package series

import (
	"fmt"
	"time"
)

// WeekKey buckets a date into a fixed 7-day window anchored to January 1st
// of its calendar year, formatted "2024-W05". This is NOT ISO week
// numbering: boundaries do not fall on Mondays, the first bucket of a year
// may be shorter than 7 days, and late December maps to index 52 or 53
// depending on leap years. Sentiment and price series both key weeks with
// this function so their buckets align.
func WeekKey(t time.Time) string {
	t = t.UTC()
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	week := int(t.Sub(jan1) / (7 * 24 * time.Hour))
	return fmt.Sprintf("%d-W%02d", t.Year(), week)
}
