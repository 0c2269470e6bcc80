package service

import (
	"sync"

	"github.com/spec-kit/ticket-bot/internal/chat"
)

// waitKey identifies one pending feedback subscription: a specific channel
// and the one responder whose input resolves it.
type waitKey struct {
	channel chat.ChannelHandle
	userID  string
}

// feedbackWaiters holds the pending bounded waits. Registration and
// resolution are short critical sections; nobody blocks while holding the
// lock.
type feedbackWaiters struct {
	mu      sync.Mutex
	pending map[waitKey]chan string
}

func newFeedbackWaiters() *feedbackWaiters {
	return &feedbackWaiters{pending: make(map[waitKey]chan string)}
}

// await registers a subscription and returns the channel it resolves on plus
// a cancel func. A second await for the same key supersedes the first.
func (w *feedbackWaiters) await(channel chat.ChannelHandle, userID string) (<-chan string, func()) {
	key := waitKey{channel: channel, userID: userID}
	ch := make(chan string, 1)

	w.mu.Lock()
	w.pending[key] = ch
	w.mu.Unlock()

	cancel := func() {
		w.mu.Lock()
		if w.pending[key] == ch {
			delete(w.pending, key)
		}
		w.mu.Unlock()
	}
	return ch, cancel
}

// resolve delivers a value to a matching subscription. It reports whether a
// waiter consumed the value; non-matching events are left to normal handling.
func (w *feedbackWaiters) resolve(channel chat.ChannelHandle, userID, value string) bool {
	key := waitKey{channel: channel, userID: userID}

	w.mu.Lock()
	ch, ok := w.pending[key]
	if ok {
		delete(w.pending, key)
	}
	w.mu.Unlock()

	if !ok {
		return false
	}
	ch <- value
	return true
}
