package strategy

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"podcast-transcripts/pkg/content"
	"podcast-transcripts/pkg/domain"
	"podcast-transcripts/pkg/httpclient"
	"podcast-transcripts/pkg/parser"
)

// srtBodyRe is the sniffing heuristic for SRT content served with a generic
// content type: a numeric index line followed by an SRT timing line.
var srtBodyRe = regexp.MustCompile(`(?m)^\d+\s*\r?\n\d{2,}:\d{2}:\d{2}[,.]\d{3}\s+-->`)

// RSSTranscript fetches the transcript file a podcast feed declares in its
// transcript tag and dispatches it to the matching format parser.
//
// Dispatch is content-type directed first, content-sniffed second. That order
// can misclassify a mislabeled feed (e.g. SRT served as text/plain without
// the index+timing shape), which is an accepted tradeoff: explicit headers
// are right far more often than they are wrong.
type RSSTranscript struct {
	client *httpclient.HTTPClient
}

// NewRSSTranscript creates the RSS strategy with a bounded-timeout client
// that identifies itself and accepts any payload format.
func NewRSSTranscript() *RSSTranscript {
	return &RSSTranscript{
		client: httpclient.NewClientWithTimeout(httpclient.FeedClient, 30*time.Second),
	}
}

// Name implements Strategy.
func (s *RSSTranscript) Name() string {
	return string(domain.SourcePodcastRSS)
}

// Eligible implements Strategy.
func (s *RSSTranscript) Eligible(locators domain.Locators) bool {
	return locators.TranscriptURL != ""
}

// Attempt downloads and parses the feed-declared transcript. A missing or
// too-short transcript is an expected outcome and yields (nil, nil); only
// transport-level failures surface as errors.
func (s *RSSTranscript) Attempt(ctx context.Context, locators domain.Locators) (*domain.TranscriptResult, error) {
	body, contentType, status, err := s.fetch(ctx, locators.TranscriptURL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed transcript: %w", err)
	}
	if status < 200 || status > 299 || strings.TrimSpace(body) == "" {
		log.Printf("[rss] %s: no transcript at %s (status %d, %d bytes)",
			locators.ContentID, locators.TranscriptURL, status, len(body))
		return nil, nil
	}

	text, segments := s.parsePayload(ctx, locators.ContentID, locators.TranscriptURL, contentType, body, 0)
	if strings.TrimSpace(text) == "" {
		log.Printf("[rss] %s: payload at %s yielded no text", locators.ContentID, locators.TranscriptURL)
		return nil, nil
	}

	result := domain.NewTranscriptResult(segments, "en", domain.SourcePodcastRSS, domain.ConfidenceHigh)
	if !result.IsValid() {
		log.Printf("[rss] %s: transcript too short to be valid (%d chars)",
			locators.ContentID, len(result.FullText))
		return nil, nil
	}

	return result, nil
}

// parsePayload routes a transcript payload to the right parser. depth guards
// the one-level link-following the HTML path performs.
func (s *RSSTranscript) parsePayload(ctx context.Context, contentID, srcURL, contentType, raw string, depth int) (string, []domain.TranscriptSegment) {
	ct := strings.ToLower(contentType)
	trimmed := strings.TrimSpace(raw)
	urlPath := strings.ToLower(pathOf(srcURL))

	switch {
	case strings.Contains(ct, "text/vtt") || strings.HasPrefix(trimmed, "WEBVTT"):
		log.Printf("[rss] %s: parsing as VTT", contentID)
		return parser.ParseVTT(raw)

	case strings.Contains(ct, "application/json"):
		log.Printf("[rss] %s: parsing as JSON", contentID)
		return parser.ParseJSON(raw)

	case strings.Contains(ct, "text/srt") || strings.Contains(ct, "application/x-subrip") || srtBodyRe.MatchString(trimmed):
		log.Printf("[rss] %s: parsing as SRT", contentID)
		return parser.ParseSRT(raw)

	case strings.Contains(ct, "application/pdf") || strings.HasSuffix(urlPath, ".pdf"):
		log.Printf("[rss] %s: extracting PDF text", contentID)
		text, err := parser.ExtractPDFText([]byte(raw))
		if err != nil {
			log.Printf("[rss] %s: pdf extraction failed: %v", contentID, err)
			return "", nil
		}
		text = strings.TrimSpace(text)
		return text, parser.Segmentize(text)

	case strings.Contains(ct, "text/html") || parser.LooksLikeHTML(trimmed):
		return s.parseHTML(ctx, contentID, srcURL, raw, depth)

	default:
		// Plain text or anything unrecognized: take it as-is and segment.
		log.Printf("[rss] %s: treating payload as plain text", contentID)
		return trimmed, parser.Segmentize(trimmed)
	}
}

// parseHTML handles the transcript-tag-points-at-a-web-page case. Episode
// pages frequently link the actual transcript document, so one such link is
// followed before settling for the page's own text.
func (s *RSSTranscript) parseHTML(ctx context.Context, contentID, pageURL, raw string, depth int) (string, []domain.TranscriptSegment) {
	if depth == 0 {
		if text, segments, ok := s.followTranscriptLink(ctx, contentID, pageURL, raw); ok {
			return text, segments
		}
	}

	var text string
	if parser.LooksLikeHTML(raw) {
		if mainText, err := content.ExtractMainText(raw); err == nil {
			text = mainText
		}
	}
	if text == "" {
		text = parser.StripHTML(raw)
	}

	log.Printf("[rss] %s: stripped HTML page to %d chars", contentID, len(text))
	return text, parser.Segmentize(text)
}

func (s *RSSTranscript) followTranscriptLink(ctx context.Context, contentID, pageURL, raw string) (string, []domain.TranscriptSegment, bool) {
	href, err := content.FindTranscriptLink(raw)
	if err != nil {
		return "", nil, false
	}

	resolved, err := content.ResolveAgainst(pageURL, href)
	if err != nil {
		return "", nil, false
	}

	log.Printf("[rss] %s: following transcript link %s", contentID, resolved)
	body, contentType, status, err := s.fetch(ctx, resolved)
	if err != nil || status < 200 || status > 299 || strings.TrimSpace(body) == "" {
		log.Printf("[rss] %s: transcript link fetch failed (status %d, err %v)", contentID, status, err)
		return "", nil, false
	}

	text, segments := s.parsePayload(ctx, contentID, resolved, contentType, body, 1)
	if len(text) < domain.MinValidTranscriptChars {
		return "", nil, false
	}
	return text, segments, true
}

func (s *RSSTranscript) fetch(ctx context.Context, rawURL string) (body string, contentType string, status int, err error) {
	resp, err := s.client.GetContext(ctx, rawURL)
	if err != nil {
		return "", "", 0, err
	}
	defer drainAndClose(resp.Body)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", resp.StatusCode, err
	}

	return string(data), resp.Header.Get("Content-Type"), resp.StatusCode, nil
}

func pathOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return path.Clean(u.Path)
}

func drainAndClose(rc io.ReadCloser) {
	if rc == nil {
		return
	}
	_, _ = io.Copy(io.Discard, rc)
	_ = rc.Close()
}
