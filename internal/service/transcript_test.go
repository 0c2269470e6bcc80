package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-bot/internal/chat"
	"github.com/spec-kit/ticket-bot/internal/domain"
)

func TestTranscriptReversesFetchOrder(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	history := []chat.HistoryMessage{
		{Timestamp: base.Add(2 * time.Minute), Author: "a", Content: "m3"},
		{Timestamp: base.Add(time.Minute), Author: "b", Content: "m2"},
		{Timestamp: base, Author: "a", Content: "m1"},
	}

	entries := transcriptFromHistory(history)
	require.Len(t, entries, 3)
	assert.Equal(t, "m1", entries[0].Content)
	assert.Equal(t, "m2", entries[1].Content)
	assert.Equal(t, "m3", entries[2].Content)
}

func TestRenderTranscriptLines(t *testing.T) {
	entries := []domain.TranscriptEntry{
		{
			Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			Author:    "alice",
			Content:   "hello",
		},
		{
			Timestamp: time.Date(2024, 5, 1, 12, 1, 0, 0, time.UTC),
			Author:    "staff",
			Content:   "hi there",
		},
	}

	rendered := renderTranscript(entries, 1900)
	lines := strings.Split(rendered, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[2024-05-01 12:00:00] alice: hello", lines[0])
	assert.Equal(t, "[2024-05-01 12:01:00] staff: hi there", lines[1])
}

func TestRenderTranscriptEmpty(t *testing.T) {
	assert.Equal(t, "No messages recorded.", renderTranscript(nil, 1900))
}

func TestRenderTranscriptTruncates(t *testing.T) {
	entries := []domain.TranscriptEntry{{
		Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Author:    "alice",
		Content:   strings.Repeat("x", 5000),
	}}

	rendered := renderTranscript(entries, 100)
	assert.Len(t, []rune(rendered), 100)
}
