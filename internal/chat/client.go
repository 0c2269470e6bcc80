// Package chat defines the contract the ticket coordinator holds against the
// chat platform. Concrete wire formats live in the platform SDK; the core
// only needs channel provisioning, messaging, and history.
package chat

import (
	"context"
	"time"
)

// ChannelHandle identifies a channel on the platform.
type ChannelHandle string

// HistoryMessage is one message from a channel's history. The platform
// serves history newest-first; transcript rendering reverses it.
type HistoryMessage struct {
	Timestamp time.Time
	Author    string
	Content   string
}

// PermissionOverwrite grants or denies a subject access on a created channel.
type PermissionOverwrite struct {
	SubjectID    string
	ReadMessages bool
	SendMessages bool
}

// Role is a platform role referenced by ID.
type Role struct {
	ID   string
	Name string
}

// Member is a platform member referenced by user ID.
type Member struct {
	UserID      string
	DisplayName string
}

// Client is the chat-platform collaborator consumed by the coordinator.
type Client interface {
	CreateChannel(ctx context.Context, category, name string, overwrites []PermissionOverwrite) (ChannelHandle, error)
	DeleteChannel(ctx context.Context, handle ChannelHandle) error
	SendMessage(ctx context.Context, handle ChannelHandle, content string) error

	// FetchHistory returns the channel's full message history, newest-first.
	FetchHistory(ctx context.Context, handle ChannelHandle) ([]HistoryMessage, error)

	GetRole(ctx context.Context, roleID string) (*Role, error)
	GetMember(ctx context.Context, userID string) (*Member, error)
}
