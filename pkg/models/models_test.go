package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// ── TimeFrame ──

func TestParseTimeFrame(t *testing.T) {
	tests := []struct {
		input   string
		want    TimeFrame
		wantErr bool
	}{
		{"", TimeFrameDaily, false},
		{"daily", TimeFrameDaily, false},
		{"weekly", TimeFrameWeekly, false},
		{"monthly", "", true},
		{"Daily", "", true},
		{"WEEKLY", "", true},
	}

	for _, tc := range tests {
		got, err := ParseTimeFrame(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseTimeFrame(%q): expected error, got %q", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeFrame(%q): unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimeFrame(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

// ── ToChartSeries ──

func TestToChartSeries(t *testing.T) {
	points := []SentimentPoint{
		{Date: "2024-01-02", CumulativeScore: 1},
		{Date: "2024-01-03", CumulativeScore: 0},
		{Date: "2024-01-05", CumulativeScore: -2},
	}

	cs := ToChartSeries(points)

	if len(cs.Labels) != 3 || len(cs.Values) != 3 {
		t.Fatalf("got %d labels / %d values, want 3/3", len(cs.Labels), len(cs.Values))
	}
	for i, p := range points {
		if cs.Labels[i] != p.Date {
			t.Errorf("Labels[%d]: got %q, want %q", i, cs.Labels[i], p.Date)
		}
		if cs.Values[i] != p.CumulativeScore {
			t.Errorf("Values[%d]: got %d, want %d", i, cs.Values[i], p.CumulativeScore)
		}
	}
}

func TestToChartSeriesEmpty(t *testing.T) {
	cs := ToChartSeries(nil)
	if cs.Labels == nil || cs.Values == nil {
		t.Error("empty input should still yield non-nil slices")
	}
	if len(cs.Labels) != 0 || len(cs.Values) != 0 {
		t.Errorf("got %d labels / %d values, want 0/0", len(cs.Labels), len(cs.Values))
	}
}

// ── JSON shapes ──

func TestNewsArticleJSON(t *testing.T) {
	a := NewsArticle{
		ID:          "n1",
		Title:       "Quarterly results",
		PublishedAt: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		Tickers:     []string{"AAPL"},
		Keywords:    []string{},
	}

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)

	if !strings.Contains(s, `"published_utc":"2024-03-01T12:30:00Z"`) {
		t.Errorf("published timestamp should use the published_utc key: %s", s)
	}
	if strings.Contains(s, `"description"`) {
		t.Errorf("empty description should be omitted: %s", s)
	}
	if !strings.Contains(s, `"keywords":[]`) {
		t.Errorf("empty keywords should serialize as [], not null: %s", s)
	}
}

func TestScoredArticleJSON(t *testing.T) {
	sa := ScoredArticle{
		NewsArticle:    NewsArticle{ID: "n2", Title: "Upgrade"},
		SentimentScore: 1,
	}

	data, err := json.Marshal(sa)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)

	// Embedded article fields flatten into the same object.
	if !strings.Contains(s, `"id":"n2"`) || !strings.Contains(s, `"sentimentScore":1`) {
		t.Errorf("unexpected JSON shape: %s", s)
	}
}

func TestPriceBarJSON(t *testing.T) {
	b := PriceBar{Date: "2024-01-02", Symbol: "AAPL", Open: 99.5, Close: 100.25, Volume: 12345}

	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got PriceBar
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != b {
		t.Errorf("round trip: got %+v, want %+v", got, b)
	}
}
