package strategy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"path"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"podcast-transcripts/pkg/domain"
	"podcast-transcripts/pkg/httpclient"
	"podcast-transcripts/pkg/parser"
)

const (
	// MaxAudioBytes is the transcription engine's own input limit. Audio
	// larger than this is rejected before any paid API call is made.
	MaxAudioBytes = 25 << 20 // 25 MiB

	// MaxAdvisoryDurationSeconds is the practical length cap. Exceeding it
	// only warns: feed duration metadata is advisory, not authoritative.
	MaxAdvisoryDurationSeconds = 7200
)

// WhisperASR is the fallback of last resort: it downloads the episode audio
// and submits it to a speech-to-text engine. It is the most expensive and
// failure-prone strategy, so every step emits telemetry with byte sizes and
// elapsed time.
type WhisperASR struct {
	client     *openai.Client
	downloader *httpclient.HTTPClient
}

// NewWhisperASR creates the ASR strategy with an OpenAI API credential.
func NewWhisperASR(apiKey string) *WhisperASR {
	return NewWhisperASRWithBaseURL(apiKey, "")
}

// NewWhisperASRWithBaseURL overrides the engine endpoint; used by tests and
// for self-hosted engines speaking the same API.
func NewWhisperASRWithBaseURL(apiKey, baseURL string) *WhisperASR {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &WhisperASR{
		client:     openai.NewClientWithConfig(cfg),
		downloader: httpclient.NewClient(httpclient.BrowserClient),
	}
}

// Name implements Strategy.
func (s *WhisperASR) Name() string {
	return string(domain.SourceWhisperASR)
}

// Eligible implements Strategy.
func (s *WhisperASR) Eligible(locators domain.Locators) bool {
	return locators.AudioURL != "" && IsValidAudioURL(locators.AudioURL)
}

// Attempt downloads the audio (size-guarded), submits it for transcription
// with segment-level timestamps, and maps the verbose output into the
// canonical model. Download or transcription failures are soft.
func (s *WhisperASR) Attempt(ctx context.Context, locators domain.Locators) (*domain.TranscriptResult, error) {
	if locators.ExpectedDurationSeconds > MaxAdvisoryDurationSeconds {
		log.Printf("[asr] %s: expected duration %ds exceeds practical cap %ds, proceeding anyway",
			locators.ContentID, locators.ExpectedDurationSeconds, MaxAdvisoryDurationSeconds)
	}

	audio, err := s.downloadAudio(ctx, locators)
	if err != nil {
		return nil, err
	}

	return s.transcribe(ctx, locators, audio)
}

// downloadAudio pulls the full audio body into memory, enforcing the size
// cap both on the Content-Length header and on the actual bytes read, since
// the header may be absent or wrong.
func (s *WhisperASR) downloadAudio(ctx context.Context, locators domain.Locators) ([]byte, error) {
	log.Printf("[asr] %s: download start: %s", locators.ContentID, locators.AudioURL)
	started := time.Now()

	resp, err := s.downloader.GetContext(ctx, locators.AudioURL)
	if err != nil {
		log.Printf("[asr] %s: download failed after %s: %v", locators.ContentID, time.Since(started), err)
		return nil, fmt.Errorf("download audio: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("[asr] %s: download failed: status %d", locators.ContentID, resp.StatusCode)
		return nil, fmt.Errorf("download audio: unexpected status %d", resp.StatusCode)
	}

	if resp.ContentLength > MaxAudioBytes {
		log.Printf("[asr] %s: audio rejected before download, Content-Length %d exceeds %d byte cap",
			locators.ContentID, resp.ContentLength, MaxAudioBytes)
		return nil, fmt.Errorf("audio size %d exceeds %d byte limit", resp.ContentLength, int64(MaxAudioBytes))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxAudioBytes+1))
	if err != nil {
		log.Printf("[asr] %s: download failed after %s: %v", locators.ContentID, time.Since(started), err)
		return nil, fmt.Errorf("read audio body: %w", err)
	}
	if len(data) > MaxAudioBytes {
		log.Printf("[asr] %s: audio rejected after download, body exceeds %d byte cap", locators.ContentID, MaxAudioBytes)
		return nil, fmt.Errorf("audio size exceeds %d byte limit", int64(MaxAudioBytes))
	}

	log.Printf("[asr] %s: download complete, %d bytes in %s", locators.ContentID, len(data), time.Since(started))
	return data, nil
}

func (s *WhisperASR) transcribe(ctx context.Context, locators domain.Locators, audio []byte) (*domain.TranscriptResult, error) {
	filename := "audio" + audioExtension(locators.AudioURL)

	log.Printf("[asr] %s: transcribe start, %d bytes as %s", locators.ContentID, len(audio), filename)
	started := time.Now()

	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
		Format:   openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularitySegment,
		},
	})
	if err != nil {
		log.Printf("[asr] %s: transcribe failed after %s: %v", locators.ContentID, time.Since(started), err)
		return nil, fmt.Errorf("transcribe audio: %w", err)
	}

	log.Printf("[asr] %s: transcribe complete in %s, %d engine segments, %d chars",
		locators.ContentID, time.Since(started), len(resp.Segments), len(resp.Text))

	segments := make([]domain.TranscriptSegment, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, domain.NewSegment(
			domain.Float64(seg.Start),
			domain.Float64(seg.End-seg.Start),
			text,
		))
	}

	// Engines occasionally return a flat transcript with no segment
	// timestamps; synthesize segments so downstream consumers still work.
	if len(segments) == 0 {
		segments = parser.Segmentize(strings.TrimSpace(resp.Text))
	}

	result := domain.NewTranscriptResult(segments, normalizeLanguage(resp.Language), domain.SourceWhisperASR, domain.ConfidenceHigh)
	if !result.IsValid() {
		log.Printf("[asr] %s: transcript too short to be valid (%d chars)", locators.ContentID, len(result.FullText))
		return nil, nil
	}

	return result, nil
}

// IsValidAudioURL reports whether a URL plausibly points at downloadable
// audio: its path ends in a known audio extension or the URL mentions audio.
// Used by callers to decide whether the ASR strategy is worth attempting.
func IsValidAudioURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return strings.Contains(strings.ToLower(rawURL), "audio")
	}

	switch strings.ToLower(path.Ext(u.Path)) {
	case ".mp3", ".m4a", ".wav", ".ogg", ".webm", ".aac", ".flac":
		return true
	}

	return strings.Contains(strings.ToLower(rawURL), "audio")
}

// audioExtension infers the filename extension to present to the engine from
// the URL path. Anything unknown is treated as mp3, the dominant podcast
// enclosure format.
func audioExtension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ".mp3"
	}

	switch ext := strings.ToLower(path.Ext(u.Path)); ext {
	case ".m4a", ".wav", ".ogg", ".webm":
		return ext
	default:
		return ".mp3"
	}
}

// AudioMIMEType maps a URL to the MIME type of its audio payload, following
// the same extension inference as audioExtension.
func AudioMIMEType(rawURL string) string {
	switch audioExtension(rawURL) {
	case ".m4a":
		return "audio/mp4"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	case ".webm":
		return "audio/webm"
	default:
		return "audio/mpeg"
	}
}

// normalizeLanguage reduces engine language labels ("english", "en") to an
// ISO-639-1-ish code, defaulting to "en" when unsure.
func normalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if len(lang) == 2 {
		return lang
	}

	known := map[string]string{
		"english": "en", "spanish": "es", "french": "fr", "german": "de",
		"italian": "it", "portuguese": "pt", "dutch": "nl", "japanese": "ja",
		"korean": "ko", "chinese": "zh", "russian": "ru", "arabic": "ar",
		"hindi": "hi",
	}
	if code, ok := known[lang]; ok {
		return code
	}
	return "en"
}
