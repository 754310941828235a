package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoggerMiddleware_UsesInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	called := false
	h := LoggerMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/crawl/status", nil))

	if !called {
		t.Fatal("next handler was not called")
	}
	if !strings.Contains(buf.String(), "/api/v1/crawl/status") {
		t.Errorf("log output %q does not mention the request path", buf.String())
	}
	if !strings.Contains(buf.String(), "GET") {
		t.Errorf("log output %q does not mention the method", buf.String())
	}
}
