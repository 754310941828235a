package publisher

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventsCrawler/internal/config"
	"eventsCrawler/internal/models/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecord() domain.EventRecord {
	return domain.EventRecord{
		Summary:     "Jazz Night",
		Location:    "San Francisco",
		Description: "[DESCRIPTION]\nAn evening of jazz\n",
		Start:       domain.EventDateTime{DateTime: "2023-11-14T22:13:20Z", TimeZone: "America/Los_Angeles"},
		End:         domain.EventDateTime{DateTime: "2023-11-14T23:13:20Z", TimeZone: "America/Los_Angeles"},
	}
}

func TestPush_SendsRecord(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(testLogger(), config.StoreConfig{BaseURL: server.URL, Timeout: 5})

	status, err := c.Push(t.Context(), testRecord())
	if err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, want %d", status, http.StatusOK)
	}
	if gotPath != "POST /add" {
		t.Errorf("request = %q, want %q", gotPath, "POST /add")
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
	for _, key := range []string{"summary", "location", "description", "start", "end"} {
		if _, ok := gotBody[key]; !ok {
			t.Errorf("request body has no %q key", key)
		}
	}
}

func TestPush_RejectionIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "duplicate", http.StatusConflict)
	}))
	defer server.Close()

	c := New(testLogger(), config.StoreConfig{BaseURL: server.URL, Timeout: 5})

	status, err := c.Push(t.Context(), testRecord())
	if err != nil {
		t.Fatalf("Push() error = %v, want nil for non-2xx status", err)
	}
	if status != http.StatusConflict {
		t.Errorf("status = %d, want %d", status, http.StatusConflict)
	}
}

func TestPush_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := New(testLogger(), config.StoreConfig{BaseURL: server.URL, Timeout: 5})

	if _, err := c.Push(t.Context(), testRecord()); err == nil {
		t.Fatal("Push() error = nil, want transport error")
	}
}

func TestTriggerRefresh(t *testing.T) {
	var gotPath string
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		gotPath = r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(testLogger(), config.StoreConfig{BaseURL: server.URL, Timeout: 5})

	if err := c.TriggerRefresh(t.Context()); err != nil {
		t.Fatalf("TriggerRefresh() error = %v", err)
	}
	if gotPath != "GET /list" {
		t.Errorf("request = %q, want %q", gotPath, "GET /list")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestTriggerRefresh_RejectionIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := New(testLogger(), config.StoreConfig{BaseURL: server.URL, Timeout: 5})

	if err := c.TriggerRefresh(t.Context()); err != nil {
		t.Fatalf("TriggerRefresh() error = %v, want nil for non-2xx status", err)
	}
}
