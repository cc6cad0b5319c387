package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMarketstackGetEOD(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbols"); got != "AAPL" {
			t.Errorf("symbols = %s, want AAPL", got)
		}
		if got := r.URL.Query().Get("access_key"); got != "test-key" {
			t.Errorf("access_key = %s, want test-key", got)
		}
		if got := r.URL.Query().Get("limit"); got != "1000" {
			t.Errorf("limit = %s, want 1000", got)
		}

		fmt.Fprint(w, `{
			"data": [
				{"date": "2024-01-03T00:00:00+0000", "symbol": "AAPL", "open": 101, "high": 106, "low": 100, "close": 105, "volume": 1200},
				{"date": "2024-01-01T00:00:00+0000", "symbol": "AAPL", "open": 99, "high": 101, "low": 98, "close": 100, "volume": 900}
			]
		}`)
	}))
	defer server.Close()

	m := NewMarketstackWithBaseURL("test-key", server.URL)
	bars, err := m.GetEOD(context.Background(), " aapl ", "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("GetEOD returned error: %v", err)
	}

	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[0].Date != "2024-01-03" {
		t.Errorf("provider datetime must trim to calendar day, got %s", bars[0].Date)
	}
	if bars[0].Close != 105 || bars[1].Close != 100 {
		t.Errorf("unexpected closes: %+v", bars)
	}
	if bars[0].Volume != 1200 {
		t.Errorf("volume = %d, want 1200", bars[0].Volume)
	}
}

func TestMarketstackGetEODMissingKey(t *testing.T) {
	m := NewMarketstack("")
	_, err := m.GetEOD(context.Background(), "AAPL", "2024-01-01", "2024-01-31")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestMarketstackGetEODInvalidKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error": {"code": "invalid_access_key", "message": "invalid api access key"}}`)
	}))
	defer server.Close()

	m := NewMarketstackWithBaseURL("bad-key", server.URL)
	_, err := m.GetEOD(context.Background(), "AAPL", "2024-01-01", "2024-01-31")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestMarketstackGetEODEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer server.Close()

	m := NewMarketstackWithBaseURL("test-key", server.URL)
	bars, err := m.GetEOD(context.Background(), "AAPL", "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("GetEOD returned error: %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("expected no bars, got %d", len(bars))
	}
}

func TestMarketstackGetEODCaches(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"data": [{"date": "2024-01-03", "symbol": "AAPL", "close": 105, "volume": 10}]}`)
	}))
	defer server.Close()

	m := NewMarketstackWithBaseURL("test-key", server.URL)
	ctx := context.Background()

	if _, err := m.GetEOD(ctx, "AAPL", "2024-01-01", "2024-01-31"); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if _, err := m.GetEOD(ctx, "AAPL", "2024-01-01", "2024-01-31"); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if requests != 1 {
		t.Errorf("expected cached second fetch, got %d requests", requests)
	}
}
