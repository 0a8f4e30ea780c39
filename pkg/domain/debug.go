package domain

import "time"

// StrategyAttempt records one strategy's try within an acquisition, win or
// lose. Error is empty on success.
type StrategyAttempt struct {
	Strategy  string `json:"strategy"`
	Error     string `json:"error,omitempty"`
	ElapsedMS int64  `json:"elapsedMs"`
}

// FetchDebugInfo is the operational telemetry attached to every acquisition
// result. It is always populated, success or failure, and is used purely for
// diagnosis -- nothing reads it for control flow.
type FetchDebugInfo struct {
	// AttemptID uniquely identifies one acquisition run so log lines and the
	// persisted result can be correlated.
	AttemptID    string            `json:"attemptId"`
	ContentID    string            `json:"contentId,omitempty"`
	VideoID      string            `json:"videoId,omitempty"`
	TimestampUTC time.Time         `json:"timestampUtc"`
	ItemCount    *int              `json:"itemCount"`
	ErrorType    *string           `json:"errorType"`
	ErrorMessage *string           `json:"errorMessage"`
	Method       string            `json:"method"`
	Attempts     []StrategyAttempt `json:"attempts,omitempty"`
}

// TranscriptFetchResult is the terminal output of one acquisition: either a
// normalized transcript or the most specific error the strategy chain could
// surface, always with debug telemetry.
type TranscriptFetchResult struct {
	Success bool              `json:"success"`
	Data    *TranscriptResult `json:"data"`
	Error   *string           `json:"error"`
	Debug   FetchDebugInfo    `json:"debug"`
}
