package transcriptservice

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"podcast-transcripts/pkg/db"
	"podcast-transcripts/pkg/domain"
	"podcast-transcripts/pkg/feed"
)

// EpisodeService walks a podcast feed and acquires a transcript for every
// episode that does not have one stored yet.
type EpisodeService struct {
	fetcher  *Service
	resolver *feed.Resolver
	store    db.TranscriptStore
	workers  int
}

// NewEpisodeService creates a batch acquisition service. The store may be nil,
// in which case results are fetched but not persisted (useful for dry runs).
func NewEpisodeService(fetcher *Service, store db.TranscriptStore) *EpisodeService {
	return &EpisodeService{
		fetcher:  fetcher,
		resolver: feed.NewResolver(),
		store:    store,
		workers:  4,
	}
}

// SetWorkers sets the number of parallel workers used to process episodes.
// If workers <= 0, it will be coerced to 1.
func (s *EpisodeService) SetWorkers(workers int) {
	if workers <= 0 {
		s.workers = 1
		return
	}
	s.workers = workers
}

var (
	ErrEmptyFeedURL = errors.New("feed URL is empty")
	ErrNilFetcher   = errors.New("fetch service is nil")
)

// BatchResult summarizes one feed run.
type BatchResult struct {
	Resolved int
	Skipped  int
	Fetched  int
	Failed   int
}

// ProcessFeed resolves episode locators from the feed, skips episodes whose
// transcripts are already stored, then fetches and persists the rest through
// a worker pool.
//
// max limits the number of episodes processed. If max <= 0 there is no limit.
func (s *EpisodeService) ProcessFeed(ctx context.Context, feedURL string, max int) (BatchResult, error) {
	var result BatchResult

	if feedURL == "" {
		return result, ErrEmptyFeedURL
	}
	if s.fetcher == nil {
		return result, ErrNilFetcher
	}

	locators, err := s.resolver.Resolve(ctx, feedURL)
	if err != nil {
		return result, fmt.Errorf("resolve feed: %w", err)
	}
	result.Resolved = len(locators)

	if max > 0 && len(locators) > max {
		locators = locators[:max]
	}

	// Filter out episodes that already have a stored transcript.
	if s.store != nil {
		contentIDs := make([]string, 0, len(locators))
		for _, loc := range locators {
			contentIDs = append(contentIDs, loc.ContentID)
		}
		existing, err := s.store.GetExistingContentIDs(ctx, contentIDs)
		if err == nil && len(existing) > 0 {
			filtered := make([]domain.Locators, 0, len(locators))
			for _, loc := range locators {
				if existing[loc.ContentID] {
					result.Skipped++
					continue
				}
				filtered = append(filtered, loc)
			}
			locators = filtered
		}
	}

	log.Printf("[feed] %s: %d episodes resolved, %d already stored, %d to process",
		feedURL, result.Resolved, result.Skipped, len(locators))

	fetched, failed, err := s.processInParallel(ctx, locators)
	result.Fetched = fetched
	result.Failed = failed
	return result, err
}

func (s *EpisodeService) processInParallel(ctx context.Context, locators []domain.Locators) (int, int, error) {
	if len(locators) == 0 {
		return 0, 0, nil
	}

	workers := s.workers
	if workers <= 0 {
		workers = 1
	}

	jobs := make(chan domain.Locators)

	var (
		mu      sync.Mutex
		fetched int
		failed  int
	)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for loc := range jobs {
				if err := s.processEpisode(ctx, loc); err != nil {
					log.Printf("[feed] episode %s failed: %v", loc.ContentID, err)
					mu.Lock()
					failed++
					mu.Unlock()
					continue
				}
				mu.Lock()
				fetched++
				mu.Unlock()
			}
		}()
	}

	for _, loc := range locators {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return fetched, failed, ctx.Err()
		case jobs <- loc:
		}
	}

	close(jobs)
	wg.Wait()
	return fetched, failed, nil
}

func (s *EpisodeService) processEpisode(ctx context.Context, loc domain.Locators) error {
	result := s.fetcher.Fetch(ctx, loc)
	if !result.Success {
		if result.Error != nil {
			return errors.New(*result.Error)
		}
		return errors.New("acquisition failed")
	}

	if s.store == nil {
		return nil
	}

	doc := domain.NewEpisodeTranscript(loc.ContentID, loc.Title, result.Data)
	if err := s.store.SaveEpisodeTranscript(ctx, doc); err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}
	return nil
}
