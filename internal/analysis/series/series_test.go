package series

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/stockmood/stockmood/pkg/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func scored(id string, published time.Time, score int) models.ScoredArticle {
	return models.ScoredArticle{
		NewsArticle: models.NewsArticle{
			ID:          id,
			Title:       "headline " + id,
			PublishedAt: published,
		},
		SentimentScore: score,
	}
}

// --- WeekKey ---

func TestWeekKeyAnchoredToJan1(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{day(2024, time.January, 1), "2024-W00"},
		{day(2024, time.January, 7), "2024-W00"},
		{day(2024, time.January, 8), "2024-W01"},
		{day(2024, time.December, 31), "2024-W52"}, // leap year, day 365
		{day(2023, time.December, 31), "2023-W52"},
		{day(2025, time.January, 1), "2025-W00"}, // year boundary resets the bucket index
	}
	for _, tt := range tests {
		if got := WeekKey(tt.date); got != tt.want {
			t.Errorf("WeekKey(%s) = %s, want %s", tt.date.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestWeekKeyNotISO(t *testing.T) {
	// For 2021 (Jan 1 a Friday) the anchored bucket spans Fri..Thu,
	// which no ISO week does.
	if WeekKey(day(2021, time.January, 1)) != WeekKey(day(2021, time.January, 7)) {
		t.Error("Fri Jan 1 and Thu Jan 7 2021 must share a bucket")
	}
	if WeekKey(day(2021, time.January, 7)) == WeekKey(day(2021, time.January, 8)) {
		t.Error("Jan 7 and Jan 8 2021 must be in different buckets")
	}
}

// --- BuildSentimentSeries ---

func TestBuildSentimentSeriesDaily(t *testing.T) {
	articles := []models.ScoredArticle{
		scored("a", day(2024, time.March, 1).Add(9*time.Hour), 1),
		scored("b", day(2024, time.March, 1).Add(15*time.Hour), 1),
		scored("c", day(2024, time.March, 3).Add(10*time.Hour), -1),
	}

	got := BuildSentimentSeries(articles, models.TimeFrameDaily)
	want := []models.SentimentPoint{
		{Date: "2024-03-01", CumulativeScore: 2},
		{Date: "2024-03-03", CumulativeScore: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("daily series = %+v, want %+v", got, want)
	}
}

func TestBuildSentimentSeriesSameDayOverwrite(t *testing.T) {
	// The last article of a day determines that day's reading.
	articles := []models.ScoredArticle{
		scored("a", day(2024, time.March, 1).Add(8*time.Hour), 1),
		scored("b", day(2024, time.March, 1).Add(12*time.Hour), -1),
		scored("c", day(2024, time.March, 1).Add(18*time.Hour), -1),
	}

	got := BuildSentimentSeries(articles, models.TimeFrameDaily)
	if len(got) != 1 {
		t.Fatalf("expected 1 point, got %d", len(got))
	}
	if got[0].CumulativeScore != -1 {
		t.Errorf("expected cumulative -1 after all three articles, got %d", got[0].CumulativeScore)
	}
}

func TestBuildSentimentSeriesOrderIndependent(t *testing.T) {
	articles := []models.ScoredArticle{
		scored("a", day(2024, time.February, 26).Add(1*time.Hour), 1),
		scored("b", day(2024, time.February, 27).Add(2*time.Hour), -1),
		scored("c", day(2024, time.March, 4).Add(3*time.Hour), 1),
		scored("d", day(2024, time.March, 8).Add(4*time.Hour), 1),
		scored("e", day(2024, time.March, 8).Add(5*time.Hour), -1),
	}

	want := BuildSentimentSeries(articles, models.TimeFrameDaily)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := make([]models.ScoredArticle, len(articles))
		copy(shuffled, articles)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		if got := BuildSentimentSeries(shuffled, models.TimeFrameDaily); !reflect.DeepEqual(got, want) {
			t.Fatalf("permuted input produced different series:\n got %+v\nwant %+v", got, want)
		}
	}
}

func TestBuildSentimentSeriesDoesNotMutateInput(t *testing.T) {
	articles := []models.ScoredArticle{
		scored("late", day(2024, time.March, 5), -1),
		scored("early", day(2024, time.March, 1), 1),
	}
	snapshot := make([]models.ScoredArticle, len(articles))
	copy(snapshot, articles)

	BuildSentimentSeries(articles, models.TimeFrameDaily)

	if !reflect.DeepEqual(articles, snapshot) {
		t.Error("input slice was reordered")
	}
}

func TestBuildSentimentSeriesWeeklySumsCumulatives(t *testing.T) {
	// Both days land in 2024-W00; the bucket value is the SUM of the two
	// daily cumulative readings (1 and 2), labelled with the first date.
	articles := []models.ScoredArticle{
		scored("a", day(2024, time.January, 2), 1),
		scored("b", day(2024, time.January, 4), 1),
		scored("c", day(2024, time.January, 10), -1), // 2024-W01
	}

	got := BuildSentimentSeries(articles, models.TimeFrameWeekly)
	want := []models.SentimentPoint{
		{Date: "2024-01-02", CumulativeScore: 3}, // 1 + 2
		{Date: "2024-01-10", CumulativeScore: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("weekly series = %+v, want %+v", got, want)
	}
}

func TestBuildSentimentSeriesWeeklyChronologicalAcrossYears(t *testing.T) {
	articles := []models.ScoredArticle{
		scored("dec", day(2023, time.December, 29), 1),
		scored("jan", day(2024, time.January, 2), 1),
	}

	got := BuildSentimentSeries(articles, models.TimeFrameWeekly)
	if len(got) != 2 {
		t.Fatalf("expected 2 weekly points, got %d", len(got))
	}
	if got[0].Date != "2023-12-29" || got[1].Date != "2024-01-02" {
		t.Errorf("weekly points out of chronological order: %+v", got)
	}
}

func TestBuildSentimentSeriesWeeklyCountBound(t *testing.T) {
	var articles []models.ScoredArticle
	start := day(2024, time.January, 1)
	for i := 0; i < 30; i++ {
		articles = append(articles, scored("x", start.AddDate(0, 0, i), 1))
	}

	daily := BuildSentimentSeries(articles, models.TimeFrameDaily)
	weekly := BuildSentimentSeries(articles, models.TimeFrameWeekly)

	weeks := map[string]struct{}{}
	for _, p := range daily {
		d, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			t.Fatalf("bad daily key %q", p.Date)
		}
		weeks[WeekKey(d)] = struct{}{}
	}

	if len(weekly) != len(weeks) {
		t.Errorf("weekly emitted %d points for %d distinct weeks", len(weekly), len(weeks))
	}
	if len(weekly) > len(daily) {
		t.Errorf("weekly count %d exceeds daily count %d", len(weekly), len(daily))
	}
}

func TestBuildSentimentSeriesEmpty(t *testing.T) {
	if got := BuildSentimentSeries(nil, models.TimeFrameDaily); len(got) != 0 {
		t.Errorf("expected empty daily series, got %+v", got)
	}
	if got := BuildSentimentSeries(nil, models.TimeFrameWeekly); len(got) != 0 {
		t.Errorf("expected empty weekly series, got %+v", got)
	}
}

func TestBuildSentimentSeriesIdempotent(t *testing.T) {
	articles := []models.ScoredArticle{
		scored("a", day(2024, time.March, 1), 1),
		scored("b", day(2024, time.March, 7), -1),
	}
	first := BuildSentimentSeries(articles, models.TimeFrameWeekly)
	second := BuildSentimentSeries(articles, models.TimeFrameWeekly)
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated runs must produce identical output")
	}
}

// --- AggregatePriceData ---

func TestAggregatePriceDataDaily(t *testing.T) {
	prices := []models.PriceBar{
		{Date: "2024-01-03", Symbol: "AAPL", Close: 105},
		{Date: "2024-01-01", Symbol: "AAPL", Close: 100},
	}

	got := AggregatePriceData(prices, models.TimeFrameDaily)
	want := []models.PricePoint{
		{Date: "2024-01-03", Close: 105},
		{Date: "2024-01-01", Close: 100},
	}
	// Daily mode preserves input order, sorted or not.
	if !reflect.DeepEqual(got, want) {
		t.Errorf("daily prices = %+v, want %+v", got, want)
	}
}

func TestAggregatePriceDataWeeklyLatestWins(t *testing.T) {
	prices := []models.PriceBar{
		{Date: "2024-01-01", Symbol: "AAPL", Close: 100},
		{Date: "2024-01-03", Symbol: "AAPL", Close: 105},
	}

	got := AggregatePriceData(prices, models.TimeFrameWeekly)
	want := []models.PricePoint{{Date: "2024-01-03", Close: 105}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("weekly prices = %+v, want %+v", got, want)
	}
}

func TestAggregatePriceDataWeeklyUnsortedInput(t *testing.T) {
	// Latest-in-bucket wins even when bars arrive out of order.
	prices := []models.PriceBar{
		{Date: "2024-01-03", Close: 105},
		{Date: "2024-01-01", Close: 100},
		{Date: "2024-01-02", Close: 102},
	}

	got := AggregatePriceData(prices, models.TimeFrameWeekly)
	if len(got) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(got))
	}
	if got[0].Date != "2024-01-03" || got[0].Close != 105 {
		t.Errorf("expected latest bar 2024-01-03/105, got %+v", got[0])
	}
}

func TestAggregatePriceDataWeeklyBucketOrder(t *testing.T) {
	prices := []models.PriceBar{
		{Date: "2024-01-02", Close: 100},
		{Date: "2024-01-09", Close: 101},
		{Date: "2024-01-04", Close: 99},
	}

	got := AggregatePriceData(prices, models.TimeFrameWeekly)
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(got))
	}
	// First-seen bucket order: W00 (seeded by Jan 2) before W01.
	if got[0].Date != "2024-01-04" || got[1].Date != "2024-01-09" {
		t.Errorf("unexpected bucket order: %+v", got)
	}
}

func TestAggregatePriceDataEmpty(t *testing.T) {
	if got := AggregatePriceData(nil, models.TimeFrameWeekly); len(got) != 0 {
		t.Errorf("expected empty series, got %+v", got)
	}
	if got := AggregatePriceData([]models.PriceBar{}, models.TimeFrameDaily); len(got) != 0 {
		t.Errorf("expected empty series, got %+v", got)
	}
}
