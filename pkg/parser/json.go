package parser

import (
	"encoding/json"
	"strings"

	"podcast-transcripts/pkg/domain"
)

// jsonSegment mirrors the loose per-item shapes transcript APIs emit. Field
// resolution is priority-ordered: text > content > transcript for the cue
// text, start > startTime for the offset.
type jsonSegment struct {
	Text       string   `json:"text"`
	Content    string   `json:"content"`
	Transcript string   `json:"transcript"`
	Start      *float64 `json:"start"`
	StartTime  *float64 `json:"startTime"`
	Duration   *float64 `json:"duration"`
}

func (s jsonSegment) text() string {
	for _, candidate := range []string{s.Text, s.Content, s.Transcript} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func (s jsonSegment) start() *float64 {
	if s.Start != nil {
		return s.Start
	}
	return s.StartTime
}

// jsonEnvelope covers the two object shapes: a segments array wrapper, or a
// scalar transcript/text field with no timing data.
type jsonEnvelope struct {
	Segments   []jsonSegment `json:"segments"`
	Transcript string        `json:"transcript"`
	Text       string        `json:"text"`
}

// ParseJSON parses a JSON transcript payload of any of the three supported
// shapes: a top-level array of segment-like objects, an object with a
// "segments" array, or an object with a scalar "transcript"/"text" field
// (segmented synthetically). Malformed JSON yields an empty result.
func ParseJSON(raw string) (string, []domain.TranscriptSegment) {
	data := []byte(strings.TrimSpace(raw))
	if len(data) == 0 {
		return "", nil
	}

	var items []jsonSegment
	if err := json.Unmarshal(data, &items); err == nil {
		return buildFromJSONSegments(items)
	}

	var envelope jsonEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return "", nil
	}

	if len(envelope.Segments) > 0 {
		return buildFromJSONSegments(envelope.Segments)
	}

	flat := strings.TrimSpace(envelope.Transcript)
	if flat == "" {
		flat = strings.TrimSpace(envelope.Text)
	}
	if flat == "" {
		return "", nil
	}

	segments := Segmentize(flat)
	return flat, segments
}

func buildFromJSONSegments(items []jsonSegment) (string, []domain.TranscriptSegment) {
	var (
		segments []domain.TranscriptSegment
		texts    []string
	)

	for _, item := range items {
		text := item.text()
		if text == "" {
			continue
		}
		segments = append(segments, domain.NewSegment(item.start(), item.Duration, text))
		texts = append(texts, text)
	}

	return strings.Join(texts, " "), segments
}
