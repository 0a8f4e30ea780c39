package parser

import (
	"regexp"
	"strings"
)

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleBlockRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	lineBreakRe   = regexp.MustCompile(`(?i)<br\s*/?>|</p>`)
	anyTagRe      = regexp.MustCompile(`<[^>]+>`)

	horizontalSpaceRe = regexp.MustCompile(`[ \t]+`)
	newlineRunRe      = regexp.MustCompile(`\s*\n\s*`)

	htmlEntityReplacer = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
)

// StripHTML reduces an HTML fragment to plain text: script/style blocks are
// dropped with their content, <br> and closing </p> become newlines, all
// remaining tags are stripped, the five basic entities are decoded, and
// whitespace runs collapse (horizontal runs to one space, newline runs to one
// newline), trimmed.
//
// The output carries no timing data; callers segment it with Segmentize.
func StripHTML(raw string) string {
	s := scriptBlockRe.ReplaceAllString(raw, "")
	s = styleBlockRe.ReplaceAllString(s, "")
	s = lineBreakRe.ReplaceAllString(s, "\n")
	s = anyTagRe.ReplaceAllString(s, "")
	s = htmlEntityReplacer.Replace(s)

	s = horizontalSpaceRe.ReplaceAllString(s, " ")
	s = newlineRunRe.ReplaceAllString(s, "\n")

	return strings.TrimSpace(s)
}

// LooksLikeHTML reports whether a payload served without a useful
// content type is probably markup rather than a plain-text transcript.
func LooksLikeHTML(raw string) bool {
	head := strings.ToLower(strings.TrimSpace(raw))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype html") ||
		strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<body")
}
