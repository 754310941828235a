package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventsCrawler/internal/models/domain"
	"eventsCrawler/internal/orchestrator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeOrchestrator struct {
	allCalls  int
	siteCalls []string
	err       error
}

func (f *fakeOrchestrator) TriggerCrawl() error {
	f.allCalls++
	return f.err
}

func (f *fakeOrchestrator) TriggerCrawlSite(site string) error {
	f.siteCalls = append(f.siteCalls, site)
	return f.err
}

func (f *fakeOrchestrator) Status() []domain.SiteStatus {
	return []domain.SiteStatus{{Site: "alpha", State: domain.CrawlStateIdle}}
}

func TestTriggerCrawl_EmptyBodyRunsAllSites(t *testing.T) {
	orch := &fakeOrchestrator{}
	h := NewCrawlHandler(testLogger(), orch, nil)

	rec := httptest.NewRecorder()
	h.TriggerCrawl(rec, httptest.NewRequest(http.MethodPost, "/api/v1/crawl", nil))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
	if orch.allCalls != 1 {
		t.Errorf("allCalls = %d, want 1", orch.allCalls)
	}
	if len(orch.siteCalls) != 0 {
		t.Errorf("siteCalls = %v, want none", orch.siteCalls)
	}
}

func TestTriggerCrawl_BySiteName(t *testing.T) {
	orch := &fakeOrchestrator{}
	h := NewCrawlHandler(testLogger(), orch, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/crawl", strings.NewReader(`{"site": "beta"}`))
	h.TriggerCrawl(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
	if orch.allCalls != 0 {
		t.Errorf("allCalls = %d, want 0", orch.allCalls)
	}
	if len(orch.siteCalls) != 1 || orch.siteCalls[0] != "beta" {
		t.Errorf("siteCalls = %v, want [beta]", orch.siteCalls)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["site"] != "beta" {
		t.Errorf("response site = %q, want %q", resp["site"], "beta")
	}
}

func TestTriggerCrawl_UnknownSite(t *testing.T) {
	orch := &fakeOrchestrator{err: fmt.Errorf("%w: nope", orchestrator.ErrUnknownSite)}
	h := NewCrawlHandler(testLogger(), orch, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/crawl", strings.NewReader(`{"site": "nope"}`))
	h.TriggerCrawl(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestTriggerCrawl_InProgressConflict(t *testing.T) {
	orch := &fakeOrchestrator{err: orchestrator.ErrCrawlInProgress}
	h := NewCrawlHandler(testLogger(), orch, nil)

	rec := httptest.NewRecorder()
	h.TriggerCrawl(rec, httptest.NewRequest(http.MethodPost, "/api/v1/crawl", nil))

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestTriggerCrawl_MalformedBody(t *testing.T) {
	orch := &fakeOrchestrator{}
	h := NewCrawlHandler(testLogger(), orch, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/crawl", strings.NewReader("not json"))
	h.TriggerCrawl(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if orch.allCalls != 0 || len(orch.siteCalls) != 0 {
		t.Error("malformed body must not trigger a crawl")
	}
}

func TestStatus(t *testing.T) {
	h := NewCrawlHandler(testLogger(), &fakeOrchestrator{}, nil)

	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/api/v1/crawl/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 1 || resp[0]["site"] != "alpha" {
		t.Errorf("response = %v, want single alpha status", resp)
	}
}

func TestPublishes_JournalDisabled(t *testing.T) {
	h := NewCrawlHandler(testLogger(), &fakeOrchestrator{}, nil)

	rec := httptest.NewRecorder()
	h.Publishes(rec, httptest.NewRequest(http.MethodGet, "/api/v1/publishes", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}
