package events

import (
	"github.com/spec-kit/ticket-bot/internal/chat"
	"github.com/spec-kit/ticket-bot/internal/domain"
)

// TriggerType enumerates the inbound trigger kinds the platform's event
// dispatch maps raw UI and gateway events onto.
type TriggerType string

const (
	TriggerOpenRequested     TriggerType = "open_requested"
	TriggerMessageObserved   TriggerType = "message_observed"
	TriggerCloseRequested    TriggerType = "close_requested"
	TriggerComponentResponse TriggerType = "component_response"
)

// Trigger is one inbound event delivered to the coordinator.
type Trigger struct {
	Type    TriggerType
	Payload interface{}
}

// OpenRequestedPayload carries a ticket-open request.
type OpenRequestedPayload struct {
	Actor domain.Actor
	Tier  domain.Tier
}

// MessageObservedPayload carries a message seen in a live ticket channel.
type MessageObservedPayload struct {
	Channel chat.ChannelHandle
	Author  domain.Actor
	Content string
}

// CloseRequestedPayload carries an explicit close request.
type CloseRequestedPayload struct {
	Channel chat.ChannelHandle
	Actor   domain.Actor
}

// ComponentResponsePayload carries a UI component response (select menu,
// button, rating control) from a ticket channel.
type ComponentResponsePayload struct {
	Channel chat.ChannelHandle
	Actor   domain.Actor
	Value   string
}
