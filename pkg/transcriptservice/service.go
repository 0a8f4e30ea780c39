// Package transcriptservice orchestrates transcript acquisition: it runs the
// configured strategies in priority order for one content item and, for batch
// use, walks a podcast feed acquiring transcripts for every episode.
package transcriptservice

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"podcast-transcripts/pkg/domain"
	"podcast-transcripts/pkg/strategy"
)

// Service tries acquisition strategies in priority order, short-circuiting on
// the first success. It holds no per-acquisition state, so one Service may
// serve any number of concurrent Fetch calls.
type Service struct {
	strategies []strategy.Strategy
}

// New creates a Service with an explicit strategy chain, cheapest first.
func New(strategies ...strategy.Strategy) *Service {
	return &Service{strategies: strategies}
}

// NewDefault wires the standard chain from the environment: feed transcript
// first (free, authoritative), then the YouTube transcript microservice, then
// paid ASR as the last resort.
func NewDefault() *Service {
	return New(
		strategy.NewRSSTranscript(),
		strategy.NewYouTubeFallback(""),
		strategy.NewWhisperASR(os.Getenv("OPENAI_API_KEY")),
	)
}

// Fetch runs the strategy chain for one content item. Strategies execute
// strictly sequentially -- each one costs money or external quota, and an
// early success must not incur downstream cost. The returned debug info is
// populated win or lose.
func (s *Service) Fetch(ctx context.Context, locators domain.Locators) domain.TranscriptFetchResult {
	debug := domain.FetchDebugInfo{
		AttemptID:    uuid.NewString(),
		ContentID:    locators.ContentID,
		VideoID:      locators.VideoID,
		TimestampUTC: time.Now().UTC(),
		Method:       "none",
	}

	var lastErr string
	attempted := 0

	for _, st := range s.strategies {
		if !st.Eligible(locators) {
			continue
		}
		attempted++

		log.Printf("[acquire] %s (%s): attempting %s", locators.ContentID, debug.AttemptID, st.Name())
		started := time.Now()
		result, err := st.Attempt(ctx, locators)
		elapsed := time.Since(started)

		switch {
		case err != nil:
			lastErr = fmt.Sprintf("%s: %v", st.Name(), err)
			log.Printf("[acquire] %s: %s failed in %s: %v", locators.ContentID, st.Name(), elapsed, err)
			debug.Attempts = append(debug.Attempts, domain.StrategyAttempt{
				Strategy:  st.Name(),
				Error:     err.Error(),
				ElapsedMS: elapsed.Milliseconds(),
			})

		case result == nil:
			lastErr = fmt.Sprintf("%s: no transcript available", st.Name())
			log.Printf("[acquire] %s: %s found nothing in %s", locators.ContentID, st.Name(), elapsed)
			debug.Attempts = append(debug.Attempts, domain.StrategyAttempt{
				Strategy:  st.Name(),
				Error:     "no transcript available",
				ElapsedMS: elapsed.Milliseconds(),
			})

		default:
			log.Printf("[acquire] %s: %s succeeded in %s (%d segments, %d words)",
				locators.ContentID, st.Name(), elapsed, len(result.Segments), result.WordCount)
			debug.Method = st.Name()
			itemCount := len(result.Segments)
			debug.ItemCount = &itemCount
			debug.Attempts = append(debug.Attempts, domain.StrategyAttempt{
				Strategy:  st.Name(),
				ElapsedMS: elapsed.Milliseconds(),
			})
			return domain.TranscriptFetchResult{Success: true, Data: result, Debug: debug}
		}
	}

	if attempted == 0 {
		lastErr = "no acquisition method available"
	}

	errType := "acquisition_failed"
	debug.ErrorType = &errType
	debug.ErrorMessage = &lastErr

	log.Printf("[acquire] %s: all strategies exhausted: %s", locators.ContentID, lastErr)
	return domain.TranscriptFetchResult{Success: false, Error: &lastErr, Debug: debug}
}
