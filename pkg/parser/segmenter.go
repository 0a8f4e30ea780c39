package parser

import (
	"regexp"
	"strings"

	"podcast-transcripts/pkg/domain"
)

const (
	// segmentWordBudget caps how many words a synthetic segment holds before
	// a new one is started at the next sentence boundary.
	segmentWordBudget = 40

	// syntheticWordsPerSecond is the speaking-rate assumption (~150 wpm)
	// used to invent monotonically non-decreasing start offsets for sources
	// with no timing data, so timestamp-driven consumers degrade gracefully
	// instead of crashing on missing timing.
	syntheticWordsPerSecond = 2.5
)

// sentenceBoundaryRe splits after terminal punctuation followed by
// whitespace. Good enough for transcripts; abbreviation-aware splitting is
// not worth the complexity here.
var sentenceBoundaryRe = regexp.MustCompile(`([.!?])\s+`)

// Segmentize derives synthetic segments from unsegmented plain text. The
// partition is deterministic: sentences are grouped until the word budget is
// exceeded, and each chunk gets a start/duration derived from a fixed
// speaking-rate assumption, so re-running on identical input yields identical
// segments.
func Segmentize(text string) []domain.TranscriptSegment {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var (
		segments  []domain.TranscriptSegment
		chunk     []string
		chunkWords int
		elapsed   float64
	)

	emit := func() {
		if len(chunk) == 0 {
			return
		}
		segText := strings.Join(chunk, " ")
		duration := float64(chunkWords) / syntheticWordsPerSecond
		segments = append(segments, domain.NewSegment(
			domain.Float64(elapsed),
			domain.Float64(duration),
			segText,
		))
		elapsed += duration
		chunk = nil
		chunkWords = 0
	}

	for _, sentence := range splitSentences(text) {
		words := domain.CountWords(sentence)
		if chunkWords > 0 && chunkWords+words > segmentWordBudget {
			emit()
		}
		chunk = append(chunk, sentence)
		chunkWords += words
	}
	emit()

	return segments
}

// splitSentences breaks text at sentence boundaries, keeping the terminal
// punctuation with the preceding sentence.
func splitSentences(text string) []string {
	marked := sentenceBoundaryRe.ReplaceAllString(text, "$1\x00")

	var sentences []string
	for _, part := range strings.Split(marked, "\x00") {
		part = strings.TrimSpace(part)
		if part != "" {
			sentences = append(sentences, part)
		}
	}
	return sentences
}
