package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors returned by the coordinator's transition guards.
var (
	// ErrPermissionDenied is returned when a non-owner, non-admin actor
	// attempts a privileged action. No state change occurs.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when an operation references a channel with
	// no live session.
	ErrNotFound = errors.New("no ticket session for channel")

	// ErrAlreadyClosing is returned for duplicate close triggers on a
	// session already mid-workflow. Callers absorb it as a no-op.
	ErrAlreadyClosing = errors.New("ticket already closing")
)

// CooldownActiveError reports that a user attempted to open a ticket before
// their cooldown expired. Remaining is how long they must still wait.
type CooldownActiveError struct {
	UserID    string
	Remaining time.Duration
}

func (e *CooldownActiveError) Error() string {
	return fmt.Sprintf("cooldown active for user %s: %s remaining", e.UserID, e.Remaining)
}

// ExternalClientError wraps a failure from the chat platform client. It is
// logged and aborts the operation for that single ticket; it never crashes
// the sweeper or coordinator.
type ExternalClientError struct {
	Op  string
	Err error
}

func (e *ExternalClientError) Error() string {
	return fmt.Sprintf("chat client %s: %v", e.Op, e.Err)
}

func (e *ExternalClientError) Unwrap() error {
	return e.Err
}
