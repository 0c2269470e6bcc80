package domain

import "time"

// SessionState enumerates lifecycle states for a ticket session.
type SessionState string

const (
	SessionStateOpen    SessionState = "OPEN"
	SessionStateClosing SessionState = "CLOSING"
	SessionStateClosed  SessionState = "CLOSED"
)

// CloseReason distinguishes how a session left the Open state.
type CloseReason string

const (
	CloseReasonManual CloseReason = "MANUAL"
	CloseReasonAuto   CloseReason = "AUTO"
)

// Tier routes a ticket to a named support queue.
type Tier string

const (
	TierOne   Tier = "tier1"
	TierTwo   Tier = "tier2"
	TierThree Tier = "tier3"
)

// CategoryName returns the channel category a tier's tickets are created in.
func (t Tier) CategoryName() string {
	switch t {
	case TierOne:
		return "🎫│Tier 1 Support"
	case TierTwo:
		return "🎫│Tier 2 Support"
	case TierThree:
		return "🎫│Tier 3 Support"
	default:
		return "🎫│Tickets"
	}
}

// Valid reports whether the tier is one of the known queues.
func (t Tier) Valid() bool {
	switch t {
	case TierOne, TierTwo, TierThree:
		return true
	}
	return false
}

// TicketSession is the live state of one ticket from creation to purge.
// At most one session exists per channel ID at a time; it is owned by the
// coordinator and mutated only under its lock.
type TicketSession struct {
	TicketID       string
	ChannelID      string
	OwnerUserID    string
	OwnerName      string
	Tier           Tier
	CreatedAt      time.Time
	LastActivityAt time.Time
	State          SessionState
}

// Actor identifies who triggered an operation. IsAdmin is pre-validated by
// the platform collaborator; the coordinator trusts it.
type Actor struct {
	UserID  string
	Name    string
	IsAdmin bool
}
