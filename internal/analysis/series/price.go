package series

import (
	"github.com/stockmood/stockmood/pkg/models"
	"github.com/stockmood/stockmood/pkg/utils"
)

// AggregatePriceData resamples daily price bars to the requested
// granularity. Daily mode is an order-preserving projection to
// {date, close}. Weekly mode keeps, per week bucket, the bar with the
// strictly latest date: the first bar seeds the bucket and later bars
// replace it only when their date parses strictly greater. Buckets are
// emitted in first-seen order.
func AggregatePriceData(prices []models.PriceBar, tf models.TimeFrame) []models.PricePoint {
	if tf != models.TimeFrameWeekly {
		points := make([]models.PricePoint, 0, len(prices))
		for _, p := range prices {
			points = append(points, models.PricePoint{Date: p.Date, Close: p.Close})
		}
		return points
	}

	type bucket struct {
		date  string
		close float64
	}

	idx := map[string]int{}
	buckets := make([]bucket, 0, len(prices))

	for _, p := range prices {
		day, err := utils.ParseDate(p.Date)
		if err != nil {
			// Bar dates are sanitized at the datasource boundary.
			continue
		}
		key := WeekKey(day)

		i, ok := idx[key]
		if !ok {
			idx[key] = len(buckets)
			buckets = append(buckets, bucket{date: p.Date, close: p.Close})
			continue
		}

		existing, err := utils.ParseDate(buckets[i].date)
		if err != nil {
			continue
		}
		if day.After(existing) {
			buckets[i].date = p.Date
			buckets[i].close = p.Close
		}
	}

	points := make([]models.PricePoint, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, models.PricePoint{Date: b.date, Close: b.close})
	}
	return points
}
