package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-bot/internal/chat"
	"github.com/spec-kit/ticket-bot/internal/domain"
)

// runCloseWorkflow executes the closing sequence for a session already in
// Closing state: transcript capture, feedback collection for manual closes,
// then channel deletion and purge. Transcript and messaging failures are
// logged and the workflow converges on deletion regardless; a failed
// deletion leaves the session in Closing for manual intervention.
func (c *Coordinator) runCloseWorkflow(ctx context.Context, session *domain.TicketSession, reason domain.CloseReason) error {
	handle := chat.ChannelHandle(session.ChannelID)
	logChannel := chat.ChannelHandle(c.cfg.LogChannelID)

	if reason == domain.CloseReasonAuto {
		notice := "⏰ This ticket has been inactive and will now be closed automatically."
		if err := c.chat.SendMessage(ctx, handle, notice); err != nil {
			c.logger.Warn("auto-close notice failed",
				zap.String("channel", session.ChannelID), zap.Error(err))
		}
	}

	c.forwardTranscript(ctx, session, handle, logChannel)

	if reason == domain.CloseReasonManual {
		c.collectFeedback(ctx, session, handle, logChannel)
	}

	if err := c.chat.DeleteChannel(ctx, handle); err != nil {
		extErr := &domain.ExternalClientError{Op: "delete channel", Err: err}
		c.logger.Error("channel deletion failed, session left closing",
			zap.String("channel", session.ChannelID), zap.Error(extErr))
		return extErr
	}

	c.mu.Lock()
	session.State = domain.SessionStateClosed
	delete(c.sessions, handle)
	c.mu.Unlock()
	c.activity.Remove(session.ChannelID)

	c.metrics.RecordTicketClosed(string(reason))
	c.logger.Info("ticket closed",
		zap.String("ticket_id", session.TicketID),
		zap.String("channel", session.ChannelID),
		zap.String("reason", string(reason)))
	return nil
}

// forwardTranscript captures the channel history and sends the chronological
// rendering to the log channel. Best effort on both sides.
func (c *Coordinator) forwardTranscript(ctx context.Context, session *domain.TicketSession, handle, logChannel chat.ChannelHandle) {
	history, err := c.chat.FetchHistory(ctx, handle)
	if err != nil {
		c.logger.Warn("history fetch failed",
			zap.String("channel", session.ChannelID), zap.Error(err))
	}

	entries := transcriptFromHistory(history)
	rendered := renderTranscript(entries, c.cfg.TranscriptMaxChars)

	msg := fmt.Sprintf("📜 Transcript for %s:\n```%s```", channelName(session.OwnerName), rendered)
	if err := c.chat.SendMessage(ctx, logChannel, msg); err != nil {
		c.logger.Warn("transcript forward failed",
			zap.String("channel", session.ChannelID), zap.Error(err))
	}
}

// collectFeedback posts the rating prompt and waits, bounded by the
// configured timeout, for the owner's response. Timeout is a defined
// outcome, not an error; no lock is held while waiting.
func (c *Coordinator) collectFeedback(ctx context.Context, session *domain.TicketSession, handle, logChannel chat.ChannelHandle) {
	// Subscribe before prompting so a response can never beat the waiter.
	ch, cancelWait := c.waiters.await(handle, session.OwnerUserID)
	defer cancelWait()

	prompt := "⭐ Please rate your support from 1–5:"
	if err := c.chat.SendMessage(ctx, handle, prompt); err != nil {
		c.logger.Warn("feedback prompt failed",
			zap.String("channel", session.ChannelID), zap.Error(err))
	}

	record := c.waitForFeedback(ctx, ch, session.OwnerUserID)
	c.metrics.RecordFeedback(string(record.Outcome))

	var summary string
	if record.Outcome == domain.FeedbackReceived {
		summary = fmt.Sprintf("⭐ Feedback from %s: %s", session.OwnerName, record.Rating)
	} else {
		summary = fmt.Sprintf("⚙️ No feedback received from %s.", session.OwnerName)
	}
	if err := c.chat.SendMessage(ctx, logChannel, summary); err != nil {
		c.logger.Warn("feedback forward failed",
			zap.String("channel", session.ChannelID), zap.Error(err))
	}
}

func (c *Coordinator) waitForFeedback(ctx context.Context, ch <-chan string, ownerID string) domain.FeedbackRecord {
	timer := time.NewTimer(c.cfg.FeedbackTimeout())
	defer timer.Stop()

	select {
	case rating := <-ch:
		return domain.FeedbackRecord{TicketOwner: ownerID, Rating: rating, Outcome: domain.FeedbackReceived}
	case <-timer.C:
		return domain.FeedbackRecord{TicketOwner: ownerID, Outcome: domain.FeedbackTimedOut}
	case <-ctx.Done():
		return domain.FeedbackRecord{TicketOwner: ownerID, Outcome: domain.FeedbackTimedOut}
	}
}
