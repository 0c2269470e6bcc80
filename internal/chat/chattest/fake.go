// Package chattest provides an in-memory chat.Client for tests.
package chattest

import (
	"context"
	"fmt"
	"sync"

	"github.com/spec-kit/ticket-bot/internal/chat"
)

// Fake records every call made against it and serves canned history. All
// methods are safe for concurrent use.
type Fake struct {
	mu sync.Mutex

	nextChannel int
	history     map[chat.ChannelHandle][]chat.HistoryMessage

	created  []CreatedChannel
	deleted  []chat.ChannelHandle
	messages []SentMessage

	CreateErr error
	DeleteErr error
	SendErr   error
	FetchErr  error
}

// CreatedChannel records one CreateChannel call.
type CreatedChannel struct {
	Category   string
	Name       string
	Overwrites []chat.PermissionOverwrite
	Handle     chat.ChannelHandle
}

// SentMessage records one SendMessage call.
type SentMessage struct {
	Handle  chat.ChannelHandle
	Content string
}

// New creates an empty fake.
func New() *Fake {
	return &Fake{
		history: make(map[chat.ChannelHandle][]chat.HistoryMessage),
	}
}

func (f *Fake) CreateChannel(_ context.Context, category, name string, overwrites []chat.PermissionOverwrite) (chat.ChannelHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return "", f.CreateErr
	}
	f.nextChannel++
	handle := chat.ChannelHandle(fmt.Sprintf("chan-%d", f.nextChannel))
	f.created = append(f.created, CreatedChannel{
		Category:   category,
		Name:       name,
		Overwrites: overwrites,
		Handle:     handle,
	})
	return handle, nil
}

func (f *Fake) DeleteChannel(_ context.Context, handle chat.ChannelHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.deleted = append(f.deleted, handle)
	return nil
}

func (f *Fake) SendMessage(_ context.Context, handle chat.ChannelHandle, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return f.SendErr
	}
	f.messages = append(f.messages, SentMessage{Handle: handle, Content: content})
	return nil
}

func (f *Fake) FetchHistory(_ context.Context, handle chat.ChannelHandle) ([]chat.HistoryMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	return append([]chat.HistoryMessage{}, f.history[handle]...), nil
}

func (f *Fake) GetRole(_ context.Context, roleID string) (*chat.Role, error) {
	return &chat.Role{ID: roleID, Name: "role-" + roleID}, nil
}

func (f *Fake) GetMember(_ context.Context, userID string) (*chat.Member, error) {
	return &chat.Member{UserID: userID, DisplayName: "member-" + userID}, nil
}

// SetHistory replaces the canned history for a channel.
func (f *Fake) SetHistory(handle chat.ChannelHandle, msgs []chat.HistoryMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history[handle] = msgs
}

// Created returns a copy of the recorded CreateChannel calls.
func (f *Fake) Created() []CreatedChannel {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CreatedChannel{}, f.created...)
}

// Deleted returns a copy of the recorded DeleteChannel calls.
func (f *Fake) Deleted() []chat.ChannelHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]chat.ChannelHandle{}, f.deleted...)
}

// Messages returns a copy of the recorded SendMessage calls.
func (f *Fake) Messages() []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SentMessage{}, f.messages...)
}

// MessagesTo returns the contents sent to one channel, in order.
func (f *Fake) MessagesTo(handle chat.ChannelHandle) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.messages {
		if m.Handle == handle {
			out = append(out, m.Content)
		}
	}
	return out
}
