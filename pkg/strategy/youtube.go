package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"podcast-transcripts/pkg/domain"
)

// DefaultTranscriptServiceURL is where the YouTube transcript microservice
// listens when no override is configured.
const DefaultTranscriptServiceURL = "http://localhost:8080"

// transcriptServiceEnvVar overrides the microservice base URL.
const transcriptServiceEnvVar = "TRANSCRIPT_SERVICE_URL"

// YouTubeFallback asks the external transcript microservice for a video's
// transcript. The service already returns structured segments, so no format
// parsing is needed -- its response maps straight into the canonical model.
type YouTubeFallback struct {
	baseURL string
	client  *http.Client
}

// NewYouTubeFallback creates the strategy. An empty baseURL falls back to
// the TRANSCRIPT_SERVICE_URL environment variable, then the default.
func NewYouTubeFallback(baseURL string) *YouTubeFallback {
	if baseURL == "" {
		baseURL = os.Getenv(transcriptServiceEnvVar)
	}
	if baseURL == "" {
		baseURL = DefaultTranscriptServiceURL
	}

	return &YouTubeFallback{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Name implements Strategy.
func (s *YouTubeFallback) Name() string {
	return string(domain.SourceYouTubeFallback)
}

// Eligible implements Strategy.
func (s *YouTubeFallback) Eligible(locators domain.Locators) bool {
	return locators.VideoID != ""
}

// transcriptServiceResponse mirrors the microservice's JSON contract.
type transcriptServiceResponse struct {
	Success  bool   `json:"success"`
	VideoID  string `json:"videoId"`
	Segments []struct {
		Start    float64 `json:"start"`
		Duration float64 `json:"duration"`
		Text     string  `json:"text"`
	} `json:"segments"`
	FullText  string `json:"fullText"`
	WordCount int    `json:"wordCount"`
	Language  string `json:"language"`
	Error     string `json:"error"`
}

// Attempt calls the microservice and maps its segments. Any non-success
// response or network failure is a soft failure.
func (s *YouTubeFallback) Attempt(ctx context.Context, locators domain.Locators) (*domain.TranscriptResult, error) {
	endpoint := fmt.Sprintf("%s/transcript/%s", s.baseURL, url.PathEscape(locators.VideoID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build transcript service request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call transcript service: %w", err)
	}
	defer drainAndClose(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read transcript service response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[youtube] %s: transcript service returned status %d", locators.VideoID, resp.StatusCode)
		return nil, nil
	}

	var payload transcriptServiceResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode transcript service response: %w", err)
	}

	if !payload.Success || len(payload.Segments) == 0 {
		log.Printf("[youtube] %s: no transcript available (%s)", locators.VideoID, payload.Error)
		return nil, nil
	}

	segments := make([]domain.TranscriptSegment, 0, len(payload.Segments))
	for _, seg := range payload.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, domain.NewSegment(
			domain.Float64(seg.Start),
			domain.Float64(seg.Duration),
			text,
		))
	}

	result := domain.NewTranscriptResult(segments, payload.Language, domain.SourceYouTubeFallback, domain.ConfidenceMedium)
	if !result.IsValid() {
		log.Printf("[youtube] %s: transcript too short to be valid (%d chars)", locators.VideoID, len(result.FullText))
		return nil, nil
	}

	log.Printf("[youtube] %s: got %d segments, %d words", locators.VideoID, len(result.Segments), result.WordCount)
	return result, nil
}
