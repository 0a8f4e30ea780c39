package parser

import (
	"strings"
	"testing"
)

func TestStripHTML_ParagraphsAndBreaks(t *testing.T) {
	got := StripHTML("<p>Hello &amp; welcome</p><br>Bye")

	want := "Hello & welcome\nBye"
	if got != want {
		t.Fatalf("StripHTML = %q, want %q", got, want)
	}
}

func TestStripHTML_RemovesScriptAndStyleWithContent(t *testing.T) {
	raw := `<html><head><style>body { color: red; }</style>
<script>var tracking = "should not appear";</script></head>
<body><p>Actual transcript text</p></body></html>`

	got := StripHTML(raw)

	if strings.Contains(got, "tracking") || strings.Contains(got, "color") {
		t.Fatalf("script/style content leaked into output: %q", got)
	}
	if !strings.Contains(got, "Actual transcript text") {
		t.Fatalf("body text missing from output: %q", got)
	}
}

func TestStripHTML_DecodesBasicEntities(t *testing.T) {
	got := StripHTML("a &lt; b &gt; c &quot;quoted&quot; it&#39;s&nbsp;here")

	want := `a < b > c "quoted" it's here`
	if got != want {
		t.Fatalf("StripHTML = %q, want %q", got, want)
	}
}

func TestStripHTML_CollapsesWhitespaceRuns(t *testing.T) {
	got := StripHTML("<p>too     many\t\tspaces</p>\n\n\n<p>next</p>")

	want := "too many spaces\nnext"
	if got != want {
		t.Fatalf("StripHTML = %q, want %q", got, want)
	}
}

func TestStripHTML_EmptyInput(t *testing.T) {
	if got := StripHTML("  <p> </p> "); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestLooksLikeHTML(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"<!DOCTYPE html><html><body>x</body></html>", true},
		{"<html lang=\"en\">", true},
		{"plain transcript text, nothing else", false},
		{"WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nhi", false},
	}

	for _, tc := range cases {
		if got := LooksLikeHTML(tc.raw); got != tc.want {
			t.Errorf("LooksLikeHTML(%.30q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}
