package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-bot/internal/chat"
	"github.com/spec-kit/ticket-bot/internal/clock"
	"github.com/spec-kit/ticket-bot/internal/config"
	"github.com/spec-kit/ticket-bot/internal/domain"
	"github.com/spec-kit/ticket-bot/internal/observability"
	"github.com/spec-kit/ticket-bot/internal/registry"
)

// Coordinator is the façade over the ticket lifecycle: it owns the session
// map, consults the cooldown registry on open, shadows activity for the
// sweeper, and sequences the close workflow. All session-state transitions
// happen under its lock; the close workflow itself runs outside it.
type Coordinator struct {
	cfg       config.TicketConfig
	chat      chat.Client
	clock     clock.Clock
	logger    *zap.Logger
	metrics   *observability.Metrics
	cooldowns registry.CooldownRegistry
	activity  *registry.ActivityRegistry

	mu       sync.Mutex
	sessions map[chat.ChannelHandle]*domain.TicketSession

	waiters *feedbackWaiters
}

// CoordinatorDependencies bundles collaborators for the coordinator.
type CoordinatorDependencies struct {
	Chat      chat.Client
	Clock     clock.Clock
	Logger    *zap.Logger
	Metrics   *observability.Metrics
	Cooldowns registry.CooldownRegistry
	Activity  *registry.ActivityRegistry
}

// NewCoordinator constructs the coordinator.
func NewCoordinator(cfg config.TicketConfig, deps CoordinatorDependencies) *Coordinator {
	return &Coordinator{
		cfg:       cfg,
		chat:      deps.Chat,
		clock:     deps.Clock,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		cooldowns: deps.Cooldowns,
		activity:  deps.Activity,
		sessions:  make(map[chat.ChannelHandle]*domain.TicketSession),
		waiters:   newFeedbackWaiters(),
	}
}

// OpenTicket reserves the actor's cooldown window, provisions a channel, and
// registers a new Open session. On cooldown it returns a CooldownActiveError
// carrying the remaining wait.
func (c *Coordinator) OpenTicket(ctx context.Context, actor domain.Actor, tier domain.Tier) (*domain.TicketSession, error) {
	now := c.clock.Now()

	remaining, ok := c.cooldowns.CheckAndReserve(actor.UserID, now, c.cfg.Cooldown())
	if !ok {
		c.metrics.RecordCooldownRejection()
		return nil, &domain.CooldownActiveError{UserID: actor.UserID, Remaining: remaining}
	}

	name := channelName(actor.Name)
	overwrites := []chat.PermissionOverwrite{
		{SubjectID: actor.UserID, ReadMessages: true, SendMessages: true},
	}
	handle, err := c.chat.CreateChannel(ctx, tier.CategoryName(), name, overwrites)
	if err != nil {
		// Give the reservation back so the user can retry once the
		// platform recovers.
		c.cooldowns.ResetUser(actor.UserID)
		extErr := &domain.ExternalClientError{Op: "create channel", Err: err}
		c.logger.Error("ticket open failed", zap.String("user_id", actor.UserID), zap.Error(extErr))
		return nil, extErr
	}

	session := &domain.TicketSession{
		TicketID:       uuid.NewString(),
		ChannelID:      string(handle),
		OwnerUserID:    actor.UserID,
		OwnerName:      actor.Name,
		Tier:           tier,
		CreatedAt:      now,
		LastActivityAt: now,
		State:          domain.SessionStateOpen,
	}

	c.mu.Lock()
	c.sessions[handle] = session
	c.mu.Unlock()
	c.activity.Touch(string(handle), now)

	greeting := fmt.Sprintf("🎟️ Hello <@%s>! A support team member will assist you soon.\nTo close this ticket, type `/close`.", actor.UserID)
	if err := c.chat.SendMessage(ctx, handle, greeting); err != nil {
		c.logger.Warn("greeting send failed", zap.String("channel", string(handle)), zap.Error(err))
	}

	c.metrics.RecordTicketOpened()
	c.logger.Info("ticket opened",
		zap.String("ticket_id", session.TicketID),
		zap.String("channel", string(handle)),
		zap.String("user_id", actor.UserID),
		zap.String("tier", string(tier)))
	return session, nil
}

// RecordActivity refreshes the activity timestamp for a channel with a live
// session. A message from the responder a close workflow is waiting on is
// consumed as feedback instead. Channels without a session are ignored.
func (c *Coordinator) RecordActivity(channel chat.ChannelHandle, author domain.Actor, content string) {
	if c.waiters.resolve(channel, author.UserID, content) {
		return
	}

	now := c.clock.Now()

	c.mu.Lock()
	session, exists := c.sessions[channel]
	if exists {
		session.LastActivityAt = now
	}
	c.mu.Unlock()

	if exists {
		c.activity.Touch(string(channel), now)
	}
}

// ResolveComponent feeds a UI component response into a pending feedback
// wait. It reports whether a wait consumed it.
func (c *Coordinator) ResolveComponent(channel chat.ChannelHandle, actor domain.Actor, value string) bool {
	return c.waiters.resolve(channel, actor.UserID, value)
}

// RequestClose drives a session out of Open on behalf of its owner or an
// administrator. The close workflow runs on its own goroutine; duplicate
// triggers get ErrAlreadyClosing.
func (c *Coordinator) RequestClose(ctx context.Context, channel chat.ChannelHandle, actor domain.Actor) error {
	c.mu.Lock()
	session, exists := c.sessions[channel]
	if !exists {
		c.mu.Unlock()
		return domain.ErrNotFound
	}
	if actor.UserID != session.OwnerUserID && !actor.IsAdmin {
		c.mu.Unlock()
		return domain.ErrPermissionDenied
	}
	if session.State != domain.SessionStateOpen {
		c.mu.Unlock()
		return domain.ErrAlreadyClosing
	}
	session.State = domain.SessionStateClosing
	c.mu.Unlock()

	go func() {
		if err := c.runCloseWorkflow(ctx, session, domain.CloseReasonManual); err != nil {
			c.logger.Error("manual close failed",
				zap.String("channel", string(channel)), zap.Error(err))
		}
	}()
	return nil
}

// AutoClose drives an idle session through the close workflow synchronously
// so the sweeper can pace deletions. Sessions already mid-close are skipped
// via ErrAlreadyClosing.
func (c *Coordinator) AutoClose(ctx context.Context, channel chat.ChannelHandle) error {
	c.mu.Lock()
	session, exists := c.sessions[channel]
	if !exists {
		c.mu.Unlock()
		return domain.ErrNotFound
	}
	if session.State != domain.SessionStateOpen {
		c.mu.Unlock()
		return domain.ErrAlreadyClosing
	}
	session.State = domain.SessionStateClosing
	c.mu.Unlock()

	return c.runCloseWorkflow(ctx, session, domain.CloseReasonAuto)
}

// ResetCooldowns clears every cooldown window. Administrative.
func (c *Coordinator) ResetCooldowns(actor domain.Actor) error {
	if !actor.IsAdmin {
		return domain.ErrPermissionDenied
	}
	c.cooldowns.ResetAll()
	c.logger.Info("cooldowns reset", zap.String("admin_id", actor.UserID))
	return nil
}

// ResetUserCooldown clears one user's cooldown window. Administrative.
func (c *Coordinator) ResetUserCooldown(actor domain.Actor, userID string) error {
	if !actor.IsAdmin {
		return domain.ErrPermissionDenied
	}
	c.cooldowns.ResetUser(userID)
	c.logger.Info("cooldown reset",
		zap.String("admin_id", actor.UserID), zap.String("user_id", userID))
	return nil
}

// ListOpenSessions returns a snapshot of all live sessions.
func (c *Coordinator) ListOpenSessions() []domain.TicketSession {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.TicketSession, 0, len(c.sessions))
	for _, session := range c.sessions {
		out = append(out, *session)
	}
	return out
}

// PurgeAll drops every session and registry entry without touching platform
// channels. Recovery hatch for state drift. Administrative.
func (c *Coordinator) PurgeAll(actor domain.Actor) error {
	if !actor.IsAdmin {
		return domain.ErrPermissionDenied
	}

	c.mu.Lock()
	purged := make([]chat.ChannelHandle, 0, len(c.sessions))
	for handle := range c.sessions {
		purged = append(purged, handle)
	}
	c.sessions = make(map[chat.ChannelHandle]*domain.TicketSession)
	c.mu.Unlock()

	for _, handle := range purged {
		c.activity.Remove(string(handle))
	}
	c.logger.Info("sessions purged",
		zap.String("admin_id", actor.UserID), zap.Int("count", len(purged)))
	return nil
}

// session looks up a live session. Test hook and trigger-handler helper.
func (c *Coordinator) session(channel chat.ChannelHandle) (domain.TicketSession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.sessions[channel]; ok {
		return *s, true
	}
	return domain.TicketSession{}, false
}

func channelName(ownerName string) string {
	name := strings.ToLower(strings.TrimSpace(ownerName))
	name = strings.ReplaceAll(name, " ", "-")
	if name == "" {
		name = "user"
	}
	return "ticket-" + name
}
