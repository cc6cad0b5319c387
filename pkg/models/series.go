package models

import "fmt"

// TimeFrame selects the granularity of a derived series.
type TimeFrame string

const (
	TimeFrameDaily  TimeFrame = "daily"
	TimeFrameWeekly TimeFrame = "weekly"
)

// ParseTimeFrame validates a user-supplied timeframe string.
// An empty string defaults to daily.
func ParseTimeFrame(s string) (TimeFrame, error) {
	switch TimeFrame(s) {
	case "":
		return TimeFrameDaily, nil
	case TimeFrameDaily, TimeFrameWeekly:
		return TimeFrame(s), nil
	default:
		return "", fmt.Errorf("invalid timeframe %q (want daily or weekly)", s)
	}
}

// SentimentPoint is one reading of the cumulative sentiment curve.
// Date is a calendar day ("2006-01-02") in daily mode or the
// representative date of a week bucket in weekly mode.
type SentimentPoint struct {
	Date            string `json:"date"`
	CumulativeScore int    `json:"cumulativeScore"`
}

// ChartSeries is a presentation-friendly projection of a sentiment
// series: parallel label and value slices ready for plotting.
type ChartSeries struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// ToChartSeries flattens a sentiment series into chartable arrays.
func ToChartSeries(series []SentimentPoint) ChartSeries {
	cs := ChartSeries{
		Labels: make([]string, 0, len(series)),
		Values: make([]int, 0, len(series)),
	}
	for _, p := range series {
		cs.Labels = append(cs.Labels, p.Date)
		cs.Values = append(cs.Values, p.CumulativeScore)
	}
	return cs
}
