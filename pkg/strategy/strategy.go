// Package strategy implements the individual transcript acquisition methods.
// Each strategy is one self-contained way of obtaining a transcript for a
// content item; the orchestrator in pkg/transcriptservice runs them in
// priority order.
package strategy

import (
	"context"

	"podcast-transcripts/pkg/domain"
)

// Strategy is one self-contained method of acquiring a transcript.
//
// Attempt returns (nil, nil) when the source simply has no usable transcript
// (an expected, non-fatal outcome), and (nil, err) when something actually
// went wrong upstream. Either way the orchestrator records the attempt and
// moves on; errors never abort the chain.
type Strategy interface {
	// Name labels the strategy in telemetry and debug output.
	Name() string

	// Eligible reports whether the locators give this strategy anything to
	// try at all.
	Eligible(locators domain.Locators) bool

	// Attempt tries to acquire and normalize a transcript.
	Attempt(ctx context.Context, locators domain.Locators) (*domain.TranscriptResult, error)
}
