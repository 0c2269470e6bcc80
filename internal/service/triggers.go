package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-bot/internal/domain"
	"github.com/spec-kit/ticket-bot/internal/events"
)

// RegisterTriggerHandlers subscribes the coordinator to the platform's
// trigger kinds, one handler per kind. The platform adapter maps raw UI
// events onto these triggers; presentation of outcomes stays on its side.
func (c *Coordinator) RegisterTriggerHandlers(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.TriggerOpenRequested, c.handleOpenRequested)
	dispatcher.Subscribe(events.TriggerMessageObserved, c.handleMessageObserved)
	dispatcher.Subscribe(events.TriggerCloseRequested, c.handleCloseRequested)
	dispatcher.Subscribe(events.TriggerComponentResponse, c.handleComponentResponse)
}

func (c *Coordinator) handleOpenRequested(ctx context.Context, trigger events.Trigger) error {
	payload, ok := trigger.Payload.(events.OpenRequestedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", trigger.Payload, trigger.Type)
	}

	_, err := c.OpenTicket(ctx, payload.Actor, payload.Tier)
	var cooldownErr *domain.CooldownActiveError
	if errors.As(err, &cooldownErr) {
		c.logger.Info("open rejected by cooldown",
			zap.String("user_id", payload.Actor.UserID),
			zap.Duration("remaining", cooldownErr.Remaining))
		return nil
	}
	return err
}

func (c *Coordinator) handleMessageObserved(_ context.Context, trigger events.Trigger) error {
	payload, ok := trigger.Payload.(events.MessageObservedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", trigger.Payload, trigger.Type)
	}
	c.RecordActivity(payload.Channel, payload.Author, payload.Content)
	return nil
}

func (c *Coordinator) handleCloseRequested(ctx context.Context, trigger events.Trigger) error {
	payload, ok := trigger.Payload.(events.CloseRequestedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", trigger.Payload, trigger.Type)
	}

	err := c.RequestClose(ctx, payload.Channel, payload.Actor)
	switch {
	case errors.Is(err, domain.ErrAlreadyClosing):
		// Idempotent no-op; the first trigger owns the workflow.
		return nil
	case errors.Is(err, domain.ErrNotFound):
		c.logger.Info("close requested on non-ticket channel",
			zap.String("channel", string(payload.Channel)))
		return nil
	case errors.Is(err, domain.ErrPermissionDenied):
		c.logger.Warn("close denied",
			zap.String("channel", string(payload.Channel)),
			zap.String("actor_id", payload.Actor.UserID))
		return nil
	}
	return err
}

func (c *Coordinator) handleComponentResponse(_ context.Context, trigger events.Trigger) error {
	payload, ok := trigger.Payload.(events.ComponentResponsePayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", trigger.Payload, trigger.Type)
	}
	c.ResolveComponent(payload.Channel, payload.Actor, payload.Value)
	return nil
}
