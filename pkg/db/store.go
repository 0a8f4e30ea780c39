package db

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"

	"podcast-transcripts/pkg/domain"
)

// PostgresStore persists episode transcripts through any DBProvider, so the
// plain Postgres client and the Supabase client share one implementation.
type PostgresStore struct {
	provider DBProvider
}

// NewPostgresStore wraps a connected DBProvider.
func NewPostgresStore(provider DBProvider) *PostgresStore {
	return &PostgresStore{provider: provider}
}

// EnsureSchema creates the episode_transcript table if it does not exist.
// Segments are stored as JSONB so callers get timing back without a join.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if s.provider.DB() == nil {
		return fmt.Errorf("postgres DB not connected")
	}

	const ddl = `
CREATE TABLE IF NOT EXISTS episode_transcript (
  content_id TEXT PRIMARY KEY,
  title TEXT NOT NULL DEFAULT '',
  source TEXT NOT NULL DEFAULT '',
  confidence TEXT NOT NULL DEFAULT '',
  language TEXT NOT NULL DEFAULT 'en',
  full_text TEXT NOT NULL DEFAULT '',
  word_count INTEGER NOT NULL DEFAULT 0,
  segments JSONB NOT NULL DEFAULT '[]',
  fetched_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

	if _, err := s.provider.DB().ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create episode_transcript table: %w", err)
	}
	return nil
}

// SaveEpisodeTranscript upserts one transcript keyed by content_id.
func (s *PostgresStore) SaveEpisodeTranscript(ctx context.Context, doc *domain.EpisodeTranscript) error {
	if s.provider.DB() == nil {
		return fmt.Errorf("postgres DB not connected")
	}
	if doc == nil || doc.ContentID == "" {
		return fmt.Errorf("episode transcript requires a content id")
	}

	segments, err := json.Marshal(doc.Segments)
	if err != nil {
		return fmt.Errorf("marshal segments: %w", err)
	}

	const query = `
INSERT INTO episode_transcript
  (content_id, title, source, confidence, language, full_text, word_count, segments, fetched_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (content_id) DO UPDATE SET
  title = EXCLUDED.title,
  source = EXCLUDED.source,
  confidence = EXCLUDED.confidence,
  language = EXCLUDED.language,
  full_text = EXCLUDED.full_text,
  word_count = EXCLUDED.word_count,
  segments = EXCLUDED.segments,
  fetched_at = EXCLUDED.fetched_at`

	_, err = s.provider.DB().ExecContext(ctx, query,
		doc.ContentID, doc.Title, string(doc.Source), string(doc.Confidence),
		doc.Language, doc.FullText, doc.WordCount, segments, doc.FetchedAt)
	if err != nil {
		return fmt.Errorf("insert episode transcript content_id=%q: %w", doc.ContentID, err)
	}
	return nil
}

// GetExistingContentIDs checks which of the given content ids already have a
// stored transcript and returns them as a set.
func (s *PostgresStore) GetExistingContentIDs(ctx context.Context, contentIDs []string) (map[string]bool, error) {
	if s.provider.DB() == nil {
		return nil, fmt.Errorf("postgres DB not connected")
	}
	if len(contentIDs) == 0 {
		return map[string]bool{}, nil
	}

	query, args := buildContentIDInQuery(contentIDs)

	rows, err := s.provider.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query existing content ids: %w", err)
	}
	defer rows.Close()

	set := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan content id: %w", err)
		}
		if id != "" {
			set[id] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return set, nil
}

// buildContentIDInQuery builds a SQL query with an IN clause and returns the
// query string and arguments. The leading comment makes each batch's query
// text unique, which prevents pgx from reusing a cached prepared statement
// across concurrently running batches.
func buildContentIDInQuery(contentIDs []string) (string, []interface{}) {
	var hashSuffix string
	if len(contentIDs) > 0 {
		hash := md5.Sum([]byte(contentIDs[0]))
		hashSuffix = fmt.Sprintf("%x", hash[:4])
	}

	query := fmt.Sprintf(`/* q_%d_%s */ SELECT content_id FROM episode_transcript WHERE content_id IN (`, len(contentIDs), hashSuffix)
	args := make([]interface{}, len(contentIDs))
	for i, id := range contentIDs {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query += ")"
	return query, args
}
