// Package feed resolves acquisition locators from podcast RSS/Atom feeds:
// the transcript tag, the audio enclosure, the advisory duration, and any
// YouTube link the episode carries.
package feed

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"

	"podcast-transcripts/pkg/domain"
	"podcast-transcripts/pkg/strategy"
)

// transcriptTypePriority ranks the MIME types a podcast:transcript tag may
// declare, preferring formats with native timing data.
var transcriptTypePriority = map[string]int{
	"text/vtt":             0,
	"application/srt":      1,
	"application/x-subrip": 1,
	"application/json":     2,
	"text/plain":           3,
	"text/html":            4,
}

// Resolver turns feed items into acquisition locators.
type Resolver struct {
	parser *gofeed.Parser
}

// NewResolver creates a feed resolver.
func NewResolver() *Resolver {
	p := gofeed.NewParser()
	p.UserAgent = "podcast-transcripts/1.0 (transcript fetcher)"
	return &Resolver{parser: p}
}

// Resolve fetches and parses a feed, producing locators for every item.
// Items with no acquisition source at all are still returned (the caller
// decides what to do with them); an empty feed is an error.
func (r *Resolver) Resolve(ctx context.Context, feedURL string) ([]domain.Locators, error) {
	f, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	if f == nil || len(f.Items) == 0 {
		return nil, fmt.Errorf("feed contains no items")
	}

	locators := make([]domain.Locators, 0, len(f.Items))
	for _, item := range f.Items {
		locators = append(locators, ResolveItem(item))
	}
	return locators, nil
}

// ResolveItem extracts locators from one feed item.
func ResolveItem(item *gofeed.Item) domain.Locators {
	l := domain.Locators{
		ContentID: item.GUID,
		Title:     item.Title,
	}
	if l.ContentID == "" {
		l.ContentID = item.Link
	}

	l.TranscriptURL = transcriptURL(item)
	l.AudioURL = audioEnclosureURL(item)
	l.VideoID = youTubeVideoID(item)

	if item.ITunesExt != nil {
		l.ExpectedDurationSeconds = parseITunesDuration(item.ITunesExt.Duration)
	}

	return l
}

// transcriptURL picks the best transcript tag from the podcast namespace
// extension, ranked by declared MIME type.
func transcriptURL(item *gofeed.Item) string {
	podcastExt, ok := item.Extensions["podcast"]
	if !ok {
		return ""
	}

	var (
		bestURL  string
		bestRank = len(transcriptTypePriority) + 1
	)

	for _, ext := range podcastExt["transcript"] {
		u := strings.TrimSpace(ext.Attrs["url"])
		if u == "" {
			continue
		}

		rank, known := transcriptTypePriority[strings.ToLower(strings.TrimSpace(ext.Attrs["type"]))]
		if !known {
			rank = len(transcriptTypePriority)
		}
		if rank < bestRank {
			bestURL = u
			bestRank = rank
		}
	}

	return bestURL
}

// audioEnclosureURL returns the first enclosure that looks like audio.
func audioEnclosureURL(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(enc.Type), "audio/") || strategy.IsValidAudioURL(enc.URL) {
			return enc.URL
		}
	}
	return ""
}

// youTubeVideoID scans the item's links for a YouTube watch URL and extracts
// the video id.
func youTubeVideoID(item *gofeed.Item) string {
	links := item.Links
	if len(links) == 0 && item.Link != "" {
		links = []string{item.Link}
	}

	for _, raw := range links {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}

		host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
		switch host {
		case "youtube.com", "m.youtube.com":
			if id := u.Query().Get("v"); id != "" {
				return id
			}
		case "youtu.be":
			if id := strings.Trim(u.Path, "/"); id != "" {
				return id
			}
		}
	}
	return ""
}

// parseITunesDuration accepts the formats feeds actually use: plain seconds
// ("3723"), MM:SS, or HH:MM:SS. Unparseable input yields 0 (unknown).
func parseITunesDuration(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	parts := strings.Split(raw, ":")
	if len(parts) == 1 {
		seconds, err := strconv.Atoi(parts[0])
		if err != nil || seconds < 0 {
			return 0
		}
		return seconds
	}
	if len(parts) > 3 {
		return 0
	}

	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return total
}
