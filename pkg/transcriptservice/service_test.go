package transcriptservice

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"podcast-transcripts/pkg/domain"
)

// stubStrategy is a scriptable strategy that counts its Attempt calls.
// Safe for concurrent use so batch tests can share one instance across workers.
type stubStrategy struct {
	name     string
	eligible bool
	result   *domain.TranscriptResult
	err      error

	mu    sync.Mutex
	calls int
}

func (s *stubStrategy) Name() string                    { return s.name }
func (s *stubStrategy) Eligible(_ domain.Locators) bool { return s.eligible }
func (s *stubStrategy) Attempt(_ context.Context, _ domain.Locators) (*domain.TranscriptResult, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.result, s.err
}

func validResult(source domain.TranscriptSource) *domain.TranscriptResult {
	text := strings.Repeat("enough words to clear the validity floor ", 5)
	return domain.NewTranscriptResult(
		[]domain.TranscriptSegment{domain.NewSegment(domain.Float64(0), nil, strings.TrimSpace(text))},
		"en", source, domain.ConfidenceHigh,
	)
}

func TestService_ShortCircuitsOnFirstSuccess(t *testing.T) {
	first := &stubStrategy{name: "podcast_rss", eligible: true, result: validResult(domain.SourcePodcastRSS)}
	second := &stubStrategy{name: "youtube_fallback", eligible: true}
	third := &stubStrategy{name: "whisper_asr", eligible: true}

	result := New(first, second, third).Fetch(context.Background(), domain.Locators{ContentID: "ep-1"})

	if !result.Success {
		t.Fatal("expected success")
	}
	if first.calls != 1 {
		t.Errorf("first strategy called %d times, want 1", first.calls)
	}
	if second.calls != 0 || third.calls != 0 {
		t.Errorf("later strategies must not run after a success: youtube=%d asr=%d", second.calls, third.calls)
	}
	if result.Debug.Method != "podcast_rss" {
		t.Errorf("debug method = %q, want podcast_rss", result.Debug.Method)
	}
	if result.Debug.ItemCount == nil || *result.Debug.ItemCount != 1 {
		t.Errorf("debug item count = %v, want 1", result.Debug.ItemCount)
	}
}

func TestService_FallsThroughSoftFailures(t *testing.T) {
	first := &stubStrategy{name: "podcast_rss", eligible: true}                                     // soft failure
	second := &stubStrategy{name: "youtube_fallback", eligible: true, err: errors.New("timeout")}   // hard failure
	third := &stubStrategy{name: "whisper_asr", eligible: true, result: validResult(domain.SourceWhisperASR)}

	result := New(first, second, third).Fetch(context.Background(), domain.Locators{ContentID: "ep-2"})

	if !result.Success {
		t.Fatalf("expected the last strategy to win, got error %v", result.Error)
	}
	if result.Debug.Method != "whisper_asr" {
		t.Errorf("debug method = %q, want whisper_asr", result.Debug.Method)
	}
	if len(result.Debug.Attempts) != 3 {
		t.Fatalf("expected 3 recorded attempts, got %d", len(result.Debug.Attempts))
	}
	if result.Debug.Attempts[1].Error != "timeout" {
		t.Errorf("second attempt error = %q, want %q", result.Debug.Attempts[1].Error, "timeout")
	}
}

func TestService_AllExhaustedSurfacesLastError(t *testing.T) {
	first := &stubStrategy{name: "podcast_rss", eligible: true}
	second := &stubStrategy{name: "whisper_asr", eligible: true, err: errors.New("engine down")}

	result := New(first, second).Fetch(context.Background(), domain.Locators{ContentID: "ep-3"})

	if result.Success {
		t.Fatal("expected failure")
	}
	if result.Data != nil {
		t.Error("failed acquisition must carry no data")
	}
	if result.Error == nil || !strings.Contains(*result.Error, "engine down") {
		t.Errorf("error = %v, want the last strategy's error surfaced", result.Error)
	}
	if result.Debug.ErrorType == nil || *result.Debug.ErrorType != "acquisition_failed" {
		t.Errorf("debug error type = %v", result.Debug.ErrorType)
	}
}

func TestService_NoEligibleStrategy(t *testing.T) {
	ineligible := &stubStrategy{name: "podcast_rss"}

	result := New(ineligible).Fetch(context.Background(), domain.Locators{ContentID: "ep-4"})

	if result.Success {
		t.Fatal("expected failure")
	}
	if result.Error == nil || *result.Error != "no acquisition method available" {
		t.Errorf("error = %v, want the generic no-method message", result.Error)
	}
	if ineligible.calls != 0 {
		t.Error("ineligible strategies must never be attempted")
	}
	if result.Debug.Method != "none" {
		t.Errorf("debug method = %q, want none", result.Debug.Method)
	}
}

func TestService_RepeatFetchYieldsEqualData(t *testing.T) {
	st := &stubStrategy{name: "podcast_rss", eligible: true, result: validResult(domain.SourcePodcastRSS)}
	svc := New(st)

	first := svc.Fetch(context.Background(), domain.Locators{ContentID: "ep-5"})
	second := svc.Fetch(context.Background(), domain.Locators{ContentID: "ep-5"})

	if !first.Success || !second.Success {
		t.Fatal("both fetches should succeed")
	}
	if first.Data.FullText != second.Data.FullText {
		t.Error("full text differs across identical acquisitions")
	}
	if first.Data.WordCount != second.Data.WordCount {
		t.Error("word count differs across identical acquisitions")
	}
	if !reflect.DeepEqual(first.Data.Segments, second.Data.Segments) {
		t.Error("segments differ across identical acquisitions")
	}
	// Debug telemetry is allowed to differ (fresh attempt id/timestamp).
	if first.Debug.AttemptID == second.Debug.AttemptID {
		t.Error("each acquisition should get its own attempt id")
	}
}
