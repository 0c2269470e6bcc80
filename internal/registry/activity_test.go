package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityIdleSinceBoundary(t *testing.T) {
	r := NewActivityRegistry()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	threshold := 2 * time.Hour

	r.Touch("at-boundary", now.Add(-threshold))
	r.Touch("past-boundary", now.Add(-threshold-time.Second))
	r.Touch("fresh", now)

	idle := r.IdleSince(now, threshold)
	assert.Equal(t, []string{"past-boundary"}, idle,
		"only strictly-greater-than-threshold idle channels qualify")
}

func TestActivityTouchRefreshes(t *testing.T) {
	r := NewActivityRegistry()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	r.Touch("chan-1", now.Add(-3*time.Hour))
	require.Len(t, r.IdleSince(now, 2*time.Hour), 1)

	r.Touch("chan-1", now)
	assert.Empty(t, r.IdleSince(now, 2*time.Hour))
}

func TestActivityRemove(t *testing.T) {
	r := NewActivityRegistry()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	r.Touch("chan-1", now.Add(-3*time.Hour))
	r.Remove("chan-1")

	assert.Empty(t, r.IdleSince(now, time.Hour))
	assert.Zero(t, r.Len())
}

func TestActivityIdleSinceIsSnapshot(t *testing.T) {
	r := NewActivityRegistry()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	r.Touch("chan-1", now.Add(-3*time.Hour))
	idle := r.IdleSince(now, time.Hour)
	require.Len(t, idle, 1)

	// Mutations after the call do not alter the returned slice.
	r.Touch("chan-2", now.Add(-5*time.Hour))
	assert.Len(t, idle, 1)
}
