package parser

import (
	"strings"
	"testing"
)

func TestParseSRT_SingleBlock(t *testing.T) {
	raw := "1\n00:00:02,500 --> 00:00:05,000\nLine one\nLine two\n"

	text, segments := ParseSRT(raw)

	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].Start == nil || *segments[0].Start != 2 {
		t.Errorf("start = %v, want 2", segments[0].Start)
	}
	if segments[0].Text != "Line one Line two" {
		t.Errorf("segment text = %q, want %q", segments[0].Text, "Line one Line two")
	}
	if text != "Line one Line two" {
		t.Errorf("full text = %q, want %q", text, "Line one Line two")
	}
}

func TestParseSRT_MultipleBlocksAndDotSeparator(t *testing.T) {
	raw := strings.Join([]string{
		"1",
		"00:00:01,000 --> 00:00:03,000",
		"First cue",
		"",
		"2",
		"00:01:05.250 --> 00:01:08.000",
		"Second cue",
	}, "\n")

	text, segments := ParseSRT(raw)

	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if *segments[1].Start != 65 {
		t.Errorf("second start = %v, want 65 (dot separator accepted)", *segments[1].Start)
	}
	if text != "First cue Second cue" {
		t.Errorf("full text = %q", text)
	}
}

func TestParseSRT_DiscardsBlocksWithoutTiming(t *testing.T) {
	raw := "this block has no timing line\nat all\n\n1\n00:00:01,000 --> 00:00:02,000\nKept"

	_, segments := ParseSRT(raw)

	if len(segments) != 1 {
		t.Fatalf("expected only the timed block to survive, got %d segments", len(segments))
	}
	if segments[0].Text != "Kept" {
		t.Errorf("segment text = %q, want %q", segments[0].Text, "Kept")
	}
}

func TestParseSRT_DiscardsEmptyTextBlocks(t *testing.T) {
	raw := "1\n00:00:01,000 --> 00:00:02,000\n\n\n2\n00:00:03,000 --> 00:00:04,000\nHas text"

	_, segments := ParseSRT(raw)

	if len(segments) != 1 {
		t.Fatalf("expected timed-but-empty block to be dropped, got %d segments", len(segments))
	}
}

func TestParseSRT_StripsInlineTagsAndCRLF(t *testing.T) {
	raw := "1\r\n00:00:01,000 --> 00:00:02,000\r\n<i>Italic</i> words\r\n"

	text, _ := ParseSRT(raw)

	if text != "Italic words" {
		t.Fatalf("full text = %q, want %q", text, "Italic words")
	}
}

func TestParseSRT_MalformedInputDegrades(t *testing.T) {
	text, segments := ParseSRT("complete garbage with no structure")

	if text != "" || len(segments) != 0 {
		t.Fatalf("expected empty result, got text=%q segments=%d", text, len(segments))
	}
}
