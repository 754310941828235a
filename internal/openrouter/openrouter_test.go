package openrouter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"eventsCrawler/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCleanJSONResponse(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain json",
			in:   `{"events": {}}`,
			want: `{"events": {}}`,
		},
		{
			name: "json fence",
			in:   "```json\n{\"events\": {}}\n```",
			want: `{"events": {}}`,
		},
		{
			name: "bare fence",
			in:   "```\n{\"events\": {}}\n```",
			want: `{"events": {}}`,
		},
		{
			name: "trailing commentary",
			in:   `{"events": {"1": {"name": "x"}}} Let me know if you need anything else!`,
			want: `{"events": {"1": {"name": "x"}}}`,
		},
		{
			name: "leading commentary",
			in:   `Here is the extraction: {"events": {}}`,
			want: `{"events": {}}`,
		},
		{
			name: "braces inside strings",
			in:   `{"events": {"1": {"description": "use {curly} braces and a \" quote"}}} extra`,
			want: `{"events": {"1": {"description": "use {curly} braces and a \" quote"}}}`,
		},
		{
			name: "no json at all",
			in:   "sorry, I cannot do that",
			want: "sorry, I cannot do that",
		},
		{
			name: "unbalanced braces passthrough",
			in:   `{"events": {`,
			want: `{"events": {`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cleanJSONResponse(tc.in); got != tc.want {
				t.Errorf("cleanJSONResponse(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParse_CancelledContext(t *testing.T) {
	cfg := &config.Config{
		OracleConfig: config.OracleConfig{
			ModelName:  "test-model",
			AIApiToken: "test-token",
			Timeout:    600,
			MaxTokens:  100,
		},
	}
	c := NewClient(testLogger(), cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Дедлайн оракула строится поверх контекста вызывающего: отменённый
	// контекст обрывает запрос без сетевого обращения
	if _, err := c.Parse(ctx, "source_url:http://example.com/e\tcontent"); err == nil {
		t.Fatal("Parse() error = nil, want error for cancelled context")
	}
}

func TestIsRateLimitError(t *testing.T) {
	if !isRateLimitError(errors.New("unexpected status code: 429, Rate limit exceeded")) {
		t.Error("429 error should be treated as rate limit")
	}
	if isRateLimitError(errors.New("unexpected status code: 500")) {
		t.Error("500 error should not be treated as rate limit")
	}
	if isRateLimitError(nil) {
		t.Error("nil error should not be treated as rate limit")
	}
}

func TestIsEOFError(t *testing.T) {
	if !isEOFError(errors.New("Post \"https://openrouter.ai\": unexpected EOF")) {
		t.Error("EOF error should be retryable")
	}
	if isEOFError(errors.New("context canceled")) {
		t.Error("cancellation should not be treated as EOF")
	}
	if isEOFError(nil) {
		t.Error("nil error should not be treated as EOF")
	}
}
