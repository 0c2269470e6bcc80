package service

import (
	"fmt"
	"strings"

	"github.com/spec-kit/ticket-bot/internal/chat"
	"github.com/spec-kit/ticket-bot/internal/domain"
)

const emptyTranscript = "No messages recorded."

// transcriptFromHistory converts a newest-first history fetch into
// chronological transcript entries. The reversal is required behavior, not a
// rendering nicety.
func transcriptFromHistory(history []chat.HistoryMessage) []domain.TranscriptEntry {
	entries := make([]domain.TranscriptEntry, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		msg := history[i]
		entries = append(entries, domain.TranscriptEntry{
			Timestamp: msg.Timestamp,
			Author:    msg.Author,
			Content:   msg.Content,
		})
	}
	return entries
}

// renderTranscript renders entries oldest-first, one line per message,
// truncated to at most maxChars characters.
func renderTranscript(entries []domain.TranscriptEntry, maxChars int) string {
	if len(entries) == 0 {
		return emptyTranscript
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("[%s] %s: %s",
			e.Timestamp.UTC().Format("2006-01-02 15:04:05"), e.Author, e.Content))
	}
	rendered := strings.Join(lines, "\n")

	if runes := []rune(rendered); len(runes) > maxChars {
		rendered = string(runes[:maxChars])
	}
	return rendered
}
