package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// TriggerHandler handles a published trigger.
type TriggerHandler func(context.Context, Trigger) error

// Dispatcher routes inbound triggers to their handlers.
type Dispatcher interface {
	Publish(ctx context.Context, trigger Trigger) error
	Subscribe(triggerType TriggerType, handler TriggerHandler)
}

// inMemoryDispatcher is a simple synchronous dispatcher. Handler errors are
// logged and the trigger is dropped; the process never crashes on one.
type inMemoryDispatcher struct {
	mu        sync.RWMutex
	logger    *zap.Logger
	listeners map[TriggerType][]TriggerHandler
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher(logger *zap.Logger) Dispatcher {
	return &inMemoryDispatcher{
		logger:    logger,
		listeners: make(map[TriggerType][]TriggerHandler),
	}
}

// Publish synchronously invokes handlers for the given trigger.
func (d *inMemoryDispatcher) Publish(ctx context.Context, trigger Trigger) error {
	d.mu.RLock()
	handlers := append([]TriggerHandler{}, d.listeners[trigger.Type]...)
	d.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, trigger); err != nil {
			d.logger.Warn("trigger handler failed",
				zap.String("trigger", string(trigger.Type)),
				zap.Error(err))
		}
	}
	return nil
}

// Subscribe registers a handler for the given trigger type.
func (d *inMemoryDispatcher) Subscribe(triggerType TriggerType, handler TriggerHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[triggerType] = append(d.listeners[triggerType], handler)
}
