// Package parser converts raw transcript payloads in their native wire
// formats (WebVTT, SRT, loose JSON, HTML, PDF, plain text) into the canonical
// segment model.
//
// All text parsers are pure functions with the same contract: best-effort
// extraction, never an error for malformed input. One corrupt cue must not
// abort parsing of the rest of the transcript, so malformed pieces are
// skipped and an empty result is returned only when nothing recoverable
// exists.
package parser

import (
	"regexp"

	"podcast-transcripts/pkg/domain"
)

// ParseFunc is the shared contract of all text format parsers.
type ParseFunc func(raw string) (string, []domain.TranscriptSegment)

// inlineTagRe matches inline markup like <i>, <c.colorE5E5E5>, or
// <00:00:01.000> cue-internal timestamps that VTT/SRT payloads embed in text.
var inlineTagRe = regexp.MustCompile(`<[^>]*>`)

func stripInlineTags(s string) string {
	return inlineTagRe.ReplaceAllString(s, "")
}
