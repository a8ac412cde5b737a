package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is anything published on the bus.
type Event interface {
	Name() string
}

// Listener handles one event.
type Listener func(ctx context.Context, event Event) error

// Bus is an in-process publish/subscribe hub. Listeners run in their own
// goroutine with a bounded context, so Publish never blocks the caller.
type Bus struct {
	listeners      map[string][]Listener
	mu             sync.RWMutex
	logger         *zap.Logger
	handlerTimeout time.Duration
}

func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners:      make(map[string][]Listener),
		logger:         logger,
		handlerTimeout: time.Minute,
	}
}

func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

// Publish fans the event out to every subscriber of its name.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	eventName := event.Name()
	for _, listener := range b.listeners[eventName] {
		go func(l Listener) {
			// The request context is usually gone by the time a listener runs.
			ctxWithTimeout, cancel := context.WithTimeout(context.Background(), b.handlerTimeout)
			defer cancel()

			if err := l(ctxWithTimeout, event); err != nil {
				b.logger.Error("event listener failed",
					zap.String("event", eventName),
					zap.Error(err),
				)
			}
		}(listener)
	}
}
