package scraper

import (
	"strings"
	"testing"
)

const detailHTML = `
<html><body>
<div id="content">
	<h1>Jazz Night</h1>
	<p>Doors at 8pm.</p>
	<div id="other-events-day-list"><a href="/e/1">Another event</a></div>
</div>
</body></html>`

func TestExtractor_PrefixesSourceURL(t *testing.T) {
	e := NewExtractor(testLogger())

	text := e.Extract(detailHTML, Selectors{Content: "#content", Noise: "#other-events-day-list"}, "http://example.com/e/42")

	if !strings.HasPrefix(text, "source_url:http://example.com/e/42\t") {
		t.Errorf("text = %q, want source_url prefix", text)
	}
	if !strings.Contains(text, "Jazz Night") {
		t.Error("text should contain main content")
	}
}

func TestExtractor_RemovesNoiseContainer(t *testing.T) {
	e := NewExtractor(testLogger())

	text := e.Extract(detailHTML, Selectors{Content: "#content", Noise: "#other-events-day-list"}, "http://example.com/e/42")

	if strings.Contains(text, "Another event") {
		t.Errorf("text = %q, noise container should be removed", text)
	}
}

func TestExtractor_MissingContentContainer(t *testing.T) {
	e := NewExtractor(testLogger())

	text := e.Extract(detailHTML, Selectors{Content: "#no-such-container"}, "http://example.com/e/42")

	if text != "" {
		t.Errorf("text = %q, want empty for missing container", text)
	}
}

func TestExtractor_MissingNoiseContainerProceeds(t *testing.T) {
	e := NewExtractor(testLogger())

	text := e.Extract(detailHTML, Selectors{Content: "#content", Noise: "#no-such-noise"}, "http://example.com/e/42")

	if !strings.Contains(text, "Jazz Night") {
		t.Errorf("text = %q, want content despite missing noise selector", text)
	}
	if !strings.Contains(text, "Another event") {
		t.Error("without a matching noise selector nothing should be excised")
	}
}

func TestExtractor_NoNoiseConfigured(t *testing.T) {
	e := NewExtractor(testLogger())

	text := e.Extract(detailHTML, Selectors{Content: "#content"}, "http://example.com/e/42")

	if !strings.Contains(text, "Jazz Night") || !strings.Contains(text, "Another event") {
		t.Errorf("text = %q, want full container text", text)
	}
}
