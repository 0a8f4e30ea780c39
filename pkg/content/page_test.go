package content

import (
	"strings"
	"testing"
)

const episodePageHTML = `<!DOCTYPE html>
<html>
<head><title>Episode 42: Distributed Systems | Example Podcast</title></head>
<body>
<nav><a href="/">Home</a><a href="/episodes">Episodes</a></nav>
<article>
<h1>Episode 42: Distributed Systems</h1>
<p>In this episode we talk about consensus protocols, replication strategies,
and why clocks cannot be trusted. Our guest has spent a decade building
storage systems and shares war stories from production outages.</p>
<p>We also cover the practical side: how to test distributed code, what to
monitor, and which failure modes show up first in real deployments.</p>
</article>
<footer>Copyright Example Podcast</footer>
</body>
</html>`

func TestExtractMainText(t *testing.T) {
	text, err := ExtractMainText(episodePageHTML)
	if err != nil {
		t.Fatalf("ExtractMainText returned error: %v", err)
	}

	if !strings.Contains(text, "consensus protocols") {
		t.Errorf("main text missing article content: %.100q", text)
	}
	if strings.Contains(text, "\n") {
		t.Error("main text should be whitespace-normalized to a single line")
	}
}

func TestExtractMainText_EmptyInput(t *testing.T) {
	if _, err := ExtractMainText("  "); err == nil {
		t.Fatal("expected error for empty HTML")
	}
}

func TestExtractTitle(t *testing.T) {
	title, err := ExtractTitle(episodePageHTML)
	if err != nil {
		t.Fatalf("ExtractTitle returned error: %v", err)
	}

	if !strings.Contains(title, "Episode 42") {
		t.Errorf("title = %q, want it to mention Episode 42", title)
	}
}

func TestExtractTitle_FallsBackToH1(t *testing.T) {
	html := `<html><body><h1>Only Heading Here</h1><p>body</p></body></html>`

	title, err := ExtractTitle(html)
	if err != nil {
		t.Fatalf("ExtractTitle returned error: %v", err)
	}
	if title != "Only Heading Here" {
		t.Errorf("title = %q, want %q", title, "Only Heading Here")
	}
}
