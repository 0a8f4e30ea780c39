package domain

import "strings"

// TranscriptSource identifies which acquisition method produced a transcript.
type TranscriptSource string

const (
	SourcePodcastRSS      TranscriptSource = "podcast_rss"
	SourceYouTubeFallback TranscriptSource = "youtube_fallback"
	SourceWhisperASR      TranscriptSource = "whisper_asr"
	SourceYouTubeAuto     TranscriptSource = "youtube_auto"
	SourceManual          TranscriptSource = "manual"
)

// Confidence is a coarse trust label on a transcript's accuracy, driven by
// how reliable its source is (feed-supplied vs. third-party re-derivation).
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// MinValidTranscriptChars is the validity floor: anything shorter is treated
// as an acquisition failure rather than a (useless) success.
const MinValidTranscriptChars = 100

// TranscriptSegment is a timed span of transcript text. Start/Duration/End
// are pointers because many sources provide no timing data at all, and a
// legitimate segment can start at 0.
type TranscriptSegment struct {
	Start    *float64 `json:"start,omitempty" bson:"start,omitempty"`
	Duration *float64 `json:"duration,omitempty" bson:"duration,omitempty"`
	End      *float64 `json:"end,omitempty" bson:"end,omitempty"`
	Text     string   `json:"text" bson:"text"`
}

// NewSegment builds a segment, deriving End when both start and duration are
// known. Pass nil for unknown timing.
func NewSegment(start, duration *float64, text string) TranscriptSegment {
	seg := TranscriptSegment{Start: start, Duration: duration, Text: text}
	if start != nil && duration != nil {
		end := *start + *duration
		seg.End = &end
	}
	return seg
}

// Float64 returns a pointer to v. Convenience for building segments.
func Float64(v float64) *float64 {
	return &v
}

// TranscriptResult is the canonical normalized transcript handed to the
// caller for persistence and downstream analysis. It is constructed once per
// acquisition attempt and never mutated.
type TranscriptResult struct {
	FullText   string              `json:"fullText"`
	Segments   []TranscriptSegment `json:"segments"`
	Language   string              `json:"language"`
	Source     TranscriptSource    `json:"source"`
	WordCount  int                 `json:"wordCount"`
	Confidence Confidence          `json:"confidence"`
}

// NewTranscriptResult builds a result from segments, deriving FullText (the
// whitespace-joined segment texts) and WordCount. Language falls back to "en"
// when the source did not report one.
func NewTranscriptResult(segments []TranscriptSegment, language string, source TranscriptSource, confidence Confidence) *TranscriptResult {
	texts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.Text != "" {
			texts = append(texts, seg.Text)
		}
	}

	fullText := strings.Join(texts, " ")
	if language == "" {
		language = "en"
	}

	return &TranscriptResult{
		FullText:   fullText,
		Segments:   segments,
		Language:   language,
		Source:     source,
		WordCount:  CountWords(fullText),
		Confidence: confidence,
	}
}

// IsValid reports whether the transcript clears the validity floor.
func (r *TranscriptResult) IsValid() bool {
	return r != nil && len(r.FullText) >= MinValidTranscriptChars
}

// CountWords counts whitespace-separated tokens.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
