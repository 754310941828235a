package scraper

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetcher_SucceedsOnThirdAttempt(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("event page"))
	}))
	defer server.Close()

	f := NewFetcher(testLogger(), "test", 5*time.Second, 3, "test-agent", "")

	body, status, err := f.Fetch(t.Context(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, want %d", status, http.StatusOK)
	}
	if body != "event page" {
		t.Errorf("body = %q, want %q", body, "event page")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestFetcher_ExhaustsAttempts(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	f := NewFetcher(testLogger(), "test", 5*time.Second, 3, "test-agent", "")

	body, status, err := f.Fetch(t.Context(), server.URL)
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("Fetch() error = %v, want ErrFetchFailed", err)
	}
	if body != "" {
		t.Errorf("body = %q, want empty", body)
	}
	if status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", status, http.StatusServiceUnavailable)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestFetcher_TransportErrorExhausts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // соединение будет отклоняться

	f := NewFetcher(testLogger(), "test", time.Second, 3, "test-agent", "")

	_, _, err := f.Fetch(t.Context(), server.URL)
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("Fetch() error = %v, want ErrFetchFailed", err)
	}
}

func TestFetcher_SetsHeaders(t *testing.T) {
	var gotUA, gotReferer string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotReferer = r.Header.Get("Referer")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	f := NewFetcher(testLogger(), "test", 5*time.Second, 3, "crawler-agent/1.0", "http://example.com/events")

	if _, _, err := f.Fetch(t.Context(), server.URL); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if gotUA != "crawler-agent/1.0" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "crawler-agent/1.0")
	}
	if gotReferer != "http://example.com/events" {
		t.Errorf("Referer = %q, want %q", gotReferer, "http://example.com/events")
	}
}

func TestSleepJitter_ZeroRangeReturnsImmediately(t *testing.T) {
	start := time.Now()
	SleepJitter(t.Context(), 0, 0)
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("SleepJitter with zero range took %v", elapsed)
	}
}

func TestSleepJitter_StaysWithinRange(t *testing.T) {
	start := time.Now()
	SleepJitter(t.Context(), 10*time.Millisecond, 30*time.Millisecond)
	elapsed := time.Since(start)

	if elapsed < 10*time.Millisecond {
		t.Errorf("SleepJitter returned after %v, want at least 10ms", elapsed)
	}
	if elapsed > 500*time.Millisecond {
		t.Errorf("SleepJitter took %v, want well under a second", elapsed)
	}
}
