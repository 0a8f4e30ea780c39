package parser

import (
	"regexp"
	"strconv"
	"strings"

	"podcast-transcripts/pkg/domain"
)

// srtTimestampRe matches the start side of an SRT timing line, accepting both
// the standard comma millisecond separator and the dot variant some encoders
// produce ("00:00:02,500 --> 00:00:05,000").
var srtTimestampRe = regexp.MustCompile(`(\d{2,}):(\d{2}):(\d{2})[,.]\d{3}`)

// srtBlockSplitRe splits an SRT payload into cue blocks on blank-line runs.
var srtBlockSplitRe = regexp.MustCompile(`\n{2,}`)

// ParseSRT parses a SubRip payload into plain text and timed segments.
//
// The payload is split into blocks on blank-line runs. A block with no "-->"
// line is discarded. The start time is taken from the first timing match in
// the block (sub-second precision discarded) and all lines after the timing
// line form the cue text, joined with single spaces with inline tags
// stripped. Blocks yielding empty text are discarded.
func ParseSRT(raw string) (string, []domain.TranscriptSegment) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	var (
		segments []domain.TranscriptSegment
		texts    []string
	)

	for _, block := range srtBlockSplitRe.Split(raw, -1) {
		lines := strings.Split(block, "\n")

		timingIdx := -1
		for i, line := range lines {
			if strings.Contains(line, "-->") {
				timingIdx = i
				break
			}
		}
		if timingIdx < 0 {
			continue
		}

		var start *float64
		if m := srtTimestampRe.FindStringSubmatch(lines[timingIdx]); m != nil {
			hours, _ := strconv.Atoi(m[1])
			minutes, _ := strconv.Atoi(m[2])
			seconds, _ := strconv.Atoi(m[3])
			start = domain.Float64(float64(hours*3600 + minutes*60 + seconds))
		}

		var cueLines []string
		for _, line := range lines[timingIdx+1:] {
			line = strings.TrimSpace(stripInlineTags(line))
			if line != "" {
				cueLines = append(cueLines, line)
			}
		}

		text := strings.Join(cueLines, " ")
		if text == "" {
			continue
		}

		segments = append(segments, domain.NewSegment(start, nil, text))
		texts = append(texts, text)
	}

	return strings.Join(texts, " "), segments
}
