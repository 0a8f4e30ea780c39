package domain

// Locators carries everything the caller knows about where a transcript for
// one content item might come from. At least one of TranscriptURL, VideoID,
// or AudioURL must be set for a non-trivial acquisition attempt.
type Locators struct {
	// ContentID is the caller's identifier for the content item, used in
	// telemetry and as the persistence key.
	ContentID string

	// Title is the episode title when known (feed metadata). Informational
	// only; never used for acquisition.
	Title string

	// TranscriptURL is a feed-declared transcript file URL, when the feed
	// carries a transcript tag.
	TranscriptURL string

	// VideoID is a YouTube video identifier, when the episode is known to
	// exist on YouTube.
	VideoID string

	// AudioURL points at the raw episode audio (feed enclosure).
	AudioURL string

	// ExpectedDurationSeconds is the advisory episode length from feed
	// metadata. Zero means unknown. Feeds routinely get this wrong, so it is
	// only ever used for warnings, never hard rejection.
	ExpectedDurationSeconds int
}

// HasAnySource reports whether any acquisition method could be attempted.
func (l Locators) HasAnySource() bool {
	return l.TranscriptURL != "" || l.VideoID != "" || l.AudioURL != ""
}
