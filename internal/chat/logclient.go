package chat

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

// LogClient is a dry-run Client that logs every platform call instead of
// performing it. It stands in when no platform adapter is wired, so the
// coordinator, sweeper, and HTTP surface can run locally end to end.
type LogClient struct {
	logger  *zap.Logger
	counter atomic.Int64
}

// NewLogClient creates a dry-run client.
func NewLogClient(logger *zap.Logger) *LogClient {
	return &LogClient{logger: logger}
}

func (l *LogClient) CreateChannel(_ context.Context, category, name string, overwrites []PermissionOverwrite) (ChannelHandle, error) {
	handle := ChannelHandle(fmt.Sprintf("dry-run-%d", l.counter.Add(1)))
	l.logger.Info("dry-run create channel",
		zap.String("category", category),
		zap.String("name", name),
		zap.Int("overwrites", len(overwrites)),
		zap.String("handle", string(handle)))
	return handle, nil
}

func (l *LogClient) DeleteChannel(_ context.Context, handle ChannelHandle) error {
	l.logger.Info("dry-run delete channel", zap.String("handle", string(handle)))
	return nil
}

func (l *LogClient) SendMessage(_ context.Context, handle ChannelHandle, content string) error {
	l.logger.Info("dry-run send message",
		zap.String("handle", string(handle)), zap.String("content", content))
	return nil
}

func (l *LogClient) FetchHistory(_ context.Context, handle ChannelHandle) ([]HistoryMessage, error) {
	l.logger.Info("dry-run fetch history", zap.String("handle", string(handle)))
	return nil, nil
}

func (l *LogClient) GetRole(_ context.Context, roleID string) (*Role, error) {
	return &Role{ID: roleID}, nil
}

func (l *LogClient) GetMember(_ context.Context, userID string) (*Member, error) {
	return &Member{UserID: userID}, nil
}
