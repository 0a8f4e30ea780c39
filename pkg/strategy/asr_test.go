package strategy

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"podcast-transcripts/pkg/domain"
)

// newStubEngine returns an httptest server that answers the transcription
// endpoint with a canned verbose response, plus a counter of calls made.
func newStubEngine(t *testing.T, body string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected engine path %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("engine expected multipart form: %v", err)
		}
		if got := r.FormValue("response_format"); got != "verbose_json" {
			t.Errorf("response_format = %q, want verbose_json", got)
		}
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	return server, &calls
}

func TestWhisperASR_MapsVerboseSegments(t *testing.T) {
	audioServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("fake mp3 bytes"))
	}))
	defer audioServer.Close()

	engineBody := fmt.Sprintf(`{
		"task": "transcribe",
		"language": "english",
		"duration": 9.5,
		"segments": [
			{"id": 0, "start": 0, "end": 4.5, "text": " %s"},
			{"id": 1, "start": 4.5, "end": 9.5, "text": " And a second engine segment."}
		],
		"text": "%s And a second engine segment."
	}`, longSentence, longSentence)

	engine, calls := newStubEngine(t, engineBody)
	defer engine.Close()

	s := NewWhisperASRWithBaseURL("test-key", engine.URL)
	result, err := s.Attempt(context.Background(), domain.Locators{
		ContentID: "ep-1",
		AudioURL:  audioServer.URL + "/episode.mp3",
	})
	if err != nil {
		t.Fatalf("Attempt returned error: %v", err)
	}
	if result == nil {
		t.Fatal("expected a transcript result")
	}
	if *calls != 1 {
		t.Fatalf("engine called %d times, want 1", *calls)
	}

	if result.Source != domain.SourceWhisperASR {
		t.Errorf("source = %q, want whisper_asr", result.Source)
	}
	if result.Confidence != domain.ConfidenceHigh {
		t.Errorf("confidence = %q, want high", result.Confidence)
	}
	if result.Language != "en" {
		t.Errorf("language = %q, want en (normalized from %q)", result.Language, "english")
	}
	if len(result.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(result.Segments))
	}
	if result.Segments[0].Duration == nil || *result.Segments[0].Duration != 4.5 {
		t.Errorf("first duration = %v, want 4.5 (end-start)", result.Segments[0].Duration)
	}
	if result.Segments[0].Text != longSentence {
		t.Errorf("segment text not trimmed: %q", result.Segments[0].Text)
	}
}

func TestWhisperASR_SynthesizesWhenEngineOmitsSegments(t *testing.T) {
	audioServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake bytes"))
	}))
	defer audioServer.Close()

	engine, _ := newStubEngine(t, fmt.Sprintf(
		`{"task": "transcribe", "language": "en", "duration": 5, "segments": [], "text": "%s"}`, longSentence))
	defer engine.Close()

	s := NewWhisperASRWithBaseURL("test-key", engine.URL)
	result, err := s.Attempt(context.Background(), domain.Locators{
		ContentID: "ep-2",
		AudioURL:  audioServer.URL + "/episode.mp3",
	})
	if err != nil || result == nil {
		t.Fatalf("expected synthesized result, got result=%v err=%v", result, err)
	}
	if len(result.Segments) == 0 {
		t.Fatal("expected synthesized segments from flat text")
	}
	if result.Segments[0].Start == nil {
		t.Error("synthesized segments should carry synthetic timing")
	}
}

func TestWhisperASR_RejectsOversizedContentLengthBeforeDownload(t *testing.T) {
	served := false
	audioServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = true
		w.Header().Set("Content-Length", strconv.Itoa(MaxAudioBytes+1))
		w.WriteHeader(http.StatusOK)
	}))
	defer audioServer.Close()

	engine, calls := newStubEngine(t, `{}`)
	defer engine.Close()

	s := NewWhisperASRWithBaseURL("test-key", engine.URL)
	result, err := s.Attempt(context.Background(), domain.Locators{
		ContentID: "ep-3",
		AudioURL:  audioServer.URL + "/huge.mp3",
	})
	if err == nil {
		t.Fatal("expected an error for oversized audio")
	}
	if result != nil {
		t.Fatal("expected no result for oversized audio")
	}
	if !served {
		t.Fatal("the audio server should have received the request")
	}
	if *calls != 0 {
		t.Fatalf("the paid engine must never be called for oversized audio, got %d calls", *calls)
	}
}

func TestWhisperASR_EngineFailureSurfaces(t *testing.T) {
	audioServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake bytes"))
	}))
	defer audioServer.Close()

	engine := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer engine.Close()

	s := NewWhisperASRWithBaseURL("test-key", engine.URL)
	result, err := s.Attempt(context.Background(), domain.Locators{
		ContentID: "ep-4",
		AudioURL:  audioServer.URL + "/episode.mp3",
	})
	if err == nil {
		t.Fatal("expected engine failure to surface as an error")
	}
	if result != nil {
		t.Fatal("expected no result on engine failure")
	}
}

func TestIsValidAudioURL(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://cdn.example.com/episodes/42.mp3", true},
		{"https://cdn.example.com/episodes/42.m4a?auth=token", true},
		{"https://cdn.example.com/episodes/42.ogg", true},
		{"https://example.com/stream/audio/42", true},
		{"https://example.com/episodes/42", false},
		{"https://example.com/video/42.mp4", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsValidAudioURL(tc.url); got != tc.want {
			t.Errorf("IsValidAudioURL(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestAudioMIMEType(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://cdn.example.com/ep.m4a", "audio/mp4"},
		{"https://cdn.example.com/ep.wav", "audio/wav"},
		{"https://cdn.example.com/ep.ogg", "audio/ogg"},
		{"https://cdn.example.com/ep.webm", "audio/webm"},
		{"https://cdn.example.com/ep.mp3", "audio/mpeg"},
		{"https://cdn.example.com/ep", "audio/mpeg"},
	}

	for _, tc := range cases {
		if got := AudioMIMEType(tc.url); got != tc.want {
			t.Errorf("AudioMIMEType(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
