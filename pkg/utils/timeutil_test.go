package utils

import (
	"testing"
	"time"
)

func TestDateKey(t *testing.T) {
	ts := time.Date(2024, 3, 1, 23, 45, 0, 0, time.FixedZone("EST", -5*3600))
	// 23:45 EST is already March 2nd in UTC.
	if got := DateKey(ts); got != "2024-03-02" {
		t.Errorf("DateKey = %s, want 2024-03-02", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.January || d.Day() != 15 {
		t.Errorf("ParseDate = %v, want 2024-01-15", d)
	}
	if d.Location() != time.UTC {
		t.Errorf("ParseDate location = %v, want UTC", d.Location())
	}

	if _, err := ParseDate("15/01/2024"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2024-03-01T14:30:00Z")
	if err != nil {
		t.Fatalf("ParseTimestamp returned error: %v", err)
	}
	if ts.Hour() != 14 || ts.Minute() != 30 {
		t.Errorf("ParseTimestamp = %v, want 14:30 UTC", ts)
	}

	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Error("expected error for malformed timestamp")
	}
}

func TestTrimDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-01T00:00:00+0000", "2024-03-01"},
		{"2024-03-01", "2024-03-01"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := TrimDate(tt.in); got != tt.want {
			t.Errorf("TrimDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDefaultRange(t *testing.T) {
	from, to := DefaultRange(2)
	fromT, err := ParseDate(from)
	if err != nil {
		t.Fatalf("from is not a date: %v", err)
	}
	toT, err := ParseDate(to)
	if err != nil {
		t.Fatalf("to is not a date: %v", err)
	}
	if !fromT.Before(toT) {
		t.Errorf("expected from %s before to %s", from, to)
	}
	if !toT.AddDate(-2, 0, 0).Equal(fromT) {
		t.Errorf("expected from to be exactly two years before to, got %s..%s", from, to)
	}
}

func TestNormalizeTicker(t *testing.T) {
	if got := NormalizeTicker("  aapl "); got != "AAPL" {
		t.Errorf("NormalizeTicker = %q, want AAPL", got)
	}
}
