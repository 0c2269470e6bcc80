package domain

import "time"

// TranscriptEntry is one message captured at close time. Entries are
// rendered oldest-first even though the platform serves history newest-first.
type TranscriptEntry struct {
	Timestamp time.Time
	Author    string
	Content   string
}

// FeedbackOutcome marks how the post-close rating prompt resolved.
type FeedbackOutcome string

const (
	FeedbackReceived FeedbackOutcome = "RECEIVED"
	FeedbackTimedOut FeedbackOutcome = "TIMED_OUT"
)

// FeedbackRecord is the result of the rating prompt. It is ephemeral:
// forwarded to the log channel and then discarded.
type FeedbackRecord struct {
	TicketOwner string
	Rating      string
	Outcome     FeedbackOutcome
}
