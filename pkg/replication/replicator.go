package replication

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"podcast-transcripts/pkg/db"
	"podcast-transcripts/pkg/domain"
)

// Config wires the replication dependencies.
type Config struct {
	Mongo    *db.Client
	Postgres db.DBProvider
}

// Replicator copies episode transcripts from MongoDB to Postgres.
//
// This is intentionally a one-shot, "copy everything" flow: transcripts
// already present in Postgres (by content_id) are left untouched.
type Replicator struct {
	mongo *db.Client
	pg    db.DBProvider
	store *db.PostgresStore
}

func NewReplicator(cfg Config) (*Replicator, error) {
	if cfg.Mongo == nil {
		return nil, fmt.Errorf("mongo client is required")
	}
	if cfg.Postgres == nil {
		return nil, fmt.Errorf("postgres client is required")
	}
	return &Replicator{
		mongo: cfg.Mongo,
		pg:    cfg.Postgres,
		store: db.NewPostgresStore(cfg.Postgres),
	}, nil
}

// ReplicateTranscriptsMongoToPostgres reads all episode transcripts from Mongo
// and inserts the ones Postgres does not have yet.
//
// Processes transcripts in batches to avoid loading all content ids into
// memory at once.
func (r *Replicator) ReplicateTranscriptsMongoToPostgres(ctx context.Context) error {
	if err := r.store.EnsureSchema(ctx); err != nil {
		return err
	}

	transcripts, err := r.mongo.GetAllEpisodeTranscripts(ctx)
	if err != nil {
		return err
	}

	log.Printf("Loaded %d transcripts from Mongo, processing in batches...", len(transcripts))

	totalProcessed, totalInserted, err := r.processBatches(ctx, transcripts)
	if err != nil {
		return err
	}

	log.Printf("Replication complete: processed %d transcripts, inserted %d new transcripts", totalProcessed, totalInserted)
	return nil
}

// processBatches processes all transcripts in parallel batches and returns
// total processed and inserted counts.
func (r *Replicator) processBatches(ctx context.Context, transcripts []domain.EpisodeTranscript) (int, int, error) {
	const processBatchSize = 100
	const numWorkers = 5

	type batchJob struct {
		batch []domain.EpisodeTranscript
		start int
		end   int
	}

	type batchResult struct {
		processed int
		inserted  int
		err       error
	}

	numBatches := (len(transcripts) + processBatchSize - 1) / processBatchSize
	jobs := make(chan batchJob, numBatches)
	results := make(chan batchResult, numBatches)

	for start := 0; start < len(transcripts); start += processBatchSize {
		end := start + processBatchSize
		if end > len(transcripts) {
			end = len(transcripts)
		}
		jobs <- batchJob{batch: transcripts[start:end], start: start, end: end}
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				inserted, err := r.processBatch(ctx, job.batch, job.start, job.end)
				results <- batchResult{
					processed: len(job.batch),
					inserted:  inserted,
					err:       err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	totalProcessed := 0
	totalInserted := 0

	for result := range results {
		if result.err != nil {
			return totalProcessed, totalInserted, result.err
		}
		totalProcessed += result.processed
		totalInserted += result.inserted
		if totalProcessed%1000 == 0 {
			log.Printf("Progress: processed %d/%d transcripts, inserted %d new", totalProcessed, len(transcripts), totalInserted)
		}
	}

	log.Printf("Progress: processed %d/%d transcripts, inserted %d new", totalProcessed, len(transcripts), totalInserted)
	return totalProcessed, totalInserted, nil
}

// processBatch checks existing content ids, filters new transcripts, and inserts them.
func (r *Replicator) processBatch(ctx context.Context, batch []domain.EpisodeTranscript, start, end int) (int, error) {
	log.Printf("Processing batch [%d:%d] (%d transcripts)...", start, end, len(batch))

	contentIDs := make([]string, 0, len(batch))
	for _, t := range batch {
		if t.ContentID != "" {
			contentIDs = append(contentIDs, t.ContentID)
		}
	}

	existing, err := r.store.GetExistingContentIDs(ctx, contentIDs)
	if err != nil {
		return 0, fmt.Errorf("check existing content ids for batch [%d:%d]: %w", start, end, err)
	}

	toInsert := make([]domain.EpisodeTranscript, 0, len(batch))
	for _, t := range batch {
		if t.ContentID == "" || existing[t.ContentID] {
			continue
		}
		toInsert = append(toInsert, t)
	}
	if len(toInsert) == 0 {
		return 0, nil
	}

	if err := r.insertTranscriptsTx(ctx, toInsert); err != nil {
		return 0, fmt.Errorf("insert batch [%d:%d]: %w", start, end, err)
	}

	return len(toInsert), nil
}

// insertTranscriptsTx inserts a batch of transcripts within a transaction.
func (r *Replicator) insertTranscriptsTx(ctx context.Context, batch []domain.EpisodeTranscript) error {
	tx, err := r.pg.DB().BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertQuery = `
INSERT INTO episode_transcript
  (content_id, title, source, confidence, language, full_text, word_count, segments, fetched_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (content_id) DO NOTHING`

	stmt, err := tx.PrepareContext(ctx, insertQuery)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range batch {
		segments, err := json.Marshal(t.Segments)
		if err != nil {
			return fmt.Errorf("marshal segments content_id=%q: %w", t.ContentID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			t.ContentID, t.Title, string(t.Source), string(t.Confidence),
			t.Language, t.FullText, t.WordCount, segments, t.FetchedAt); err != nil {
			return fmt.Errorf("insert transcript content_id=%q: %w", t.ContentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
