package db

import (
	"context"
	"database/sql"

	"podcast-transcripts/pkg/domain"
)

// TranscriptStore is the persistence surface the acquisition pipeline needs:
// save one episode transcript, and tell which episodes are already stored so
// batch runs can skip them.
type TranscriptStore interface {
	SaveEpisodeTranscript(ctx context.Context, doc *domain.EpisodeTranscript) error
	GetExistingContentIDs(ctx context.Context, contentIDs []string) (map[string]bool, error)
}

// DBProvider is an interface for database clients that provide access to a sql.DB handle.
// This allows both PostgresClient and SupabaseClient to be used interchangeably.
type DBProvider interface {
	DB() *sql.DB
}
