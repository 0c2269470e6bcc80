package registry

import (
	"sync"
	"time"
)

// ActivityRegistry shadows the per-session last-activity timestamp in a
// channel-keyed index so the sweeper can scan it without walking sessions.
type ActivityRegistry struct {
	mu           sync.RWMutex
	lastActivity map[string]time.Time
}

// NewActivityRegistry creates an empty registry.
func NewActivityRegistry() *ActivityRegistry {
	return &ActivityRegistry{
		lastActivity: make(map[string]time.Time),
	}
}

// Touch upserts the last-activity timestamp for a channel.
func (r *ActivityRegistry) Touch(channelID string, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActivity[channelID] = now
}

// Remove drops the entry for a channel.
func (r *ActivityRegistry) Remove(channelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lastActivity, channelID)
}

// IdleSince returns the channels whose idle time strictly exceeds threshold
// at the given instant. The result is a point-in-time snapshot, not a live
// view; a channel touched exactly threshold ago is excluded.
func (r *ActivityRegistry) IdleSince(now time.Time, threshold time.Duration) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var idle []string
	for channelID, last := range r.lastActivity {
		if now.Sub(last) > threshold {
			idle = append(idle, channelID)
		}
	}
	return idle
}

// Len reports the number of tracked channels.
func (r *ActivityRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lastActivity)
}
