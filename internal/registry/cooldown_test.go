package registry

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCooldownsReserveAndBlock(t *testing.T) {
	r := NewMemoryCooldowns()
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cooldown := 24 * time.Hour

	_, ok := r.CheckAndReserve("user-1", t0, cooldown)
	require.True(t, ok, "first reservation should pass")

	t2 := t0.Add(20 * time.Hour)
	remaining, ok := r.CheckAndReserve("user-1", t2, cooldown)
	require.False(t, ok)
	assert.Equal(t, 4*time.Hour, remaining)
}

func TestMemoryCooldownsExpiryResetsWindow(t *testing.T) {
	r := NewMemoryCooldowns()
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cooldown := 24 * time.Hour

	_, ok := r.CheckAndReserve("user-1", t0, cooldown)
	require.True(t, ok)

	// At exactly t0+cooldown the entry is treated as expired.
	t1 := t0.Add(cooldown)
	_, ok = r.CheckAndReserve("user-1", t1, cooldown)
	require.True(t, ok)

	// Window restarts from the new reservation, not the old one.
	remaining, ok := r.CheckAndReserve("user-1", t1.Add(time.Hour), cooldown)
	require.False(t, ok)
	assert.Equal(t, 23*time.Hour, remaining)
}

func TestMemoryCooldownsIndependentUsers(t *testing.T) {
	r := NewMemoryCooldowns()
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	_, ok := r.CheckAndReserve("user-1", t0, time.Hour)
	require.True(t, ok)
	_, ok = r.CheckAndReserve("user-2", t0, time.Hour)
	require.True(t, ok)
}

func TestMemoryCooldownsResetAll(t *testing.T) {
	r := NewMemoryCooldowns()
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	_, ok := r.CheckAndReserve("user-1", t0, 24*time.Hour)
	require.True(t, ok)

	r.ResetAll()

	_, ok = r.CheckAndReserve("user-1", t0.Add(time.Minute), 24*time.Hour)
	assert.True(t, ok, "reset user should reserve immediately")
}

func TestMemoryCooldownsResetUser(t *testing.T) {
	r := NewMemoryCooldowns()
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	_, ok := r.CheckAndReserve("user-1", t0, 24*time.Hour)
	require.True(t, ok)
	_, ok = r.CheckAndReserve("user-2", t0, 24*time.Hour)
	require.True(t, ok)

	r.ResetUser("user-1")

	_, ok = r.CheckAndReserve("user-1", t0, 24*time.Hour)
	assert.True(t, ok)
	_, ok = r.CheckAndReserve("user-2", t0, 24*time.Hour)
	assert.False(t, ok, "other users keep their windows")
}

func TestMemoryCooldownsConcurrentReserveSingleWinner(t *testing.T) {
	r := NewMemoryCooldowns()
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	const attempts = 64
	var wg sync.WaitGroup
	wins := make(chan struct{}, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := r.CheckAndReserve("user-1", t0, time.Hour); ok {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	var count int
	for range wins {
		count++
	}
	assert.Equal(t, 1, count, "exactly one concurrent request may pass the check")
}
