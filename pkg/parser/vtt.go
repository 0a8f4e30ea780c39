package parser

import (
	"regexp"
	"strconv"
	"strings"

	"podcast-transcripts/pkg/domain"
)

// vttTimestampRe matches a WebVTT cue timing line such as
// "00:00:01.000 --> 00:00:04.000 align:start". Only the start side is
// captured; sub-second precision is deliberately discarded.
var vttTimestampRe = regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2})[.,]\d{3}\s+-->`)

// cueIdentifierRe matches the optional numeric cue identifier line that some
// encoders emit above the timing line.
var cueIdentifierRe = regexp.MustCompile(`^\d+$`)

// ParseVTT parses a WebVTT payload into plain text and timed segments.
//
// It is a line-oriented state machine: a timing line opens a cue, blank lines
// and NOTE comments close it, and any other non-blank line while a cue is
// open is cue text. The WEBVTT header, numeric cue identifiers, and inline
// tags are skipped. Consecutive text lines within one cue are joined with a
// single space, and the full text is the cue texts joined in emission order.
func ParseVTT(raw string) (string, []domain.TranscriptSegment) {
	var (
		segments []domain.TranscriptSegment
		texts    []string

		inCue    bool
		cueStart *float64
		cueLines []string
	)

	flush := func() {
		if !inCue {
			return
		}
		text := strings.TrimSpace(strings.Join(cueLines, " "))
		if text != "" {
			segments = append(segments, domain.NewSegment(cueStart, nil, text))
			texts = append(texts, text)
		}
		inCue = false
		cueStart = nil
		cueLines = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))

		switch {
		case line == "" || strings.HasPrefix(line, "NOTE"):
			flush()

		case strings.HasPrefix(line, "WEBVTT"):
			// File header; also appears after a BOM in some feeds.

		case vttTimestampRe.MatchString(line):
			flush()
			cueStart = parseVTTStart(line)
			inCue = true

		case cueIdentifierRe.MatchString(line):
			// Cue identifier, not text.

		default:
			if inCue {
				cueLines = append(cueLines, stripInlineTags(line))
			}
		}
	}
	flush()

	return strings.Join(texts, " "), segments
}

// parseVTTStart extracts the cue start in whole seconds from a timing line.
func parseVTTStart(line string) *float64 {
	m := vttTimestampRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])

	return domain.Float64(float64(hours*3600 + minutes*60 + seconds))
}
