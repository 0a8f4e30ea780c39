package domain

import "time"

// EpisodeTranscript is the persisted form of a successful acquisition: the
// normalized transcript plus enough episode metadata to find it again.
//
// This is intentionally separate from TranscriptResult so storage concerns
// (keys, timestamps) stay out of the core pipeline types.
type EpisodeTranscript struct {
	// ContentID is the caller's identifier for the episode (feed GUID or
	// equivalent). Used as the unique key for upserts.
	ContentID string `bson:"content_id" json:"content_id"`

	// Title is the episode title, when available.
	Title string `bson:"title,omitempty" json:"title,omitempty"`

	Source     TranscriptSource    `bson:"source" json:"source"`
	Confidence Confidence          `bson:"confidence" json:"confidence"`
	Language   string              `bson:"language" json:"language"`
	FullText   string              `bson:"full_text" json:"full_text"`
	WordCount  int                 `bson:"word_count" json:"word_count"`
	Segments   []TranscriptSegment `bson:"segments" json:"segments"`

	// FetchedAt is when the transcript was acquired and normalized.
	FetchedAt time.Time `bson:"fetched_at" json:"fetched_at"`
}

// NewEpisodeTranscript packages a transcript result for persistence.
func NewEpisodeTranscript(contentID, title string, result *TranscriptResult) *EpisodeTranscript {
	return &EpisodeTranscript{
		ContentID:  contentID,
		Title:      title,
		Source:     result.Source,
		Confidence: result.Confidence,
		Language:   result.Language,
		FullText:   result.FullText,
		WordCount:  result.WordCount,
		Segments:   result.Segments,
		FetchedAt:  time.Now(),
	}
}
