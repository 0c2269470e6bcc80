package registry

import (
	"sync"
	"time"
)

// CooldownRegistry tracks, per user, the earliest time a new ticket may be
// opened. CheckAndReserve must be atomic per user: two simultaneous requests
// must never both pass the check.
type CooldownRegistry interface {
	// CheckAndReserve reserves a new cooldown window ending at now+d when
	// the user has no active window, returning ok=true. When a window is
	// active it returns ok=false and the remaining duration, without
	// mutating state.
	CheckAndReserve(userID string, now time.Time, d time.Duration) (remaining time.Duration, ok bool)

	// ResetUser drops the window for one user.
	ResetUser(userID string)

	// ResetAll clears every window. Administrative operation.
	ResetAll()
}

// MemoryCooldowns is the default in-process registry. Entries are lazily
// treated as expired once now reaches expires_at; they are overwritten on
// each successful reservation rather than deleted.
type MemoryCooldowns struct {
	mu        sync.Mutex
	expiresAt map[string]time.Time
}

// NewMemoryCooldowns creates an empty registry.
func NewMemoryCooldowns() *MemoryCooldowns {
	return &MemoryCooldowns{
		expiresAt: make(map[string]time.Time),
	}
}

func (r *MemoryCooldowns) CheckAndReserve(userID string, now time.Time, d time.Duration) (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if expires, exists := r.expiresAt[userID]; exists && now.Before(expires) {
		return expires.Sub(now), false
	}
	r.expiresAt[userID] = now.Add(d)
	return 0, true
}

func (r *MemoryCooldowns) ResetUser(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.expiresAt, userID)
}

func (r *MemoryCooldowns) ResetAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expiresAt = make(map[string]time.Time)
}
