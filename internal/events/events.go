package events

import (
	"fmt"
	"sync"

	console "inkwell/internal/utils/logger"
)

var log = console.New("EVENTS")

// EventHandler receives the payload the emitter attached to the event.
type EventHandler func(interface{})

// EventBus is an in-process publish/subscribe bus. Handlers run on their own
// goroutines; a panicking handler is logged and does not affect the emitter
// or other handlers.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[string][]EventHandler)}
}

// On registers a handler for an event name.
func (bus *EventBus) On(event string, handler EventHandler) {
	bus.mu.Lock()
	bus.handlers[event] = append(bus.handlers[event], handler)
	bus.mu.Unlock()

	log.Info("Registered handler for event: %s", event)
}

// Emit delivers data to every handler registered for event. Emitting an event
// nobody listens to is a no-op.
func (bus *EventBus) Emit(event string, data interface{}) {
	bus.mu.RLock()
	handlers := bus.handlers[event]
	bus.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	log.Info("Emitting event: %s", event)

	for _, handler := range handlers {
		go func(h EventHandler) {
			defer func() {
				if r := recover(); r != nil {
					_ = log.Error("Panic in event handler", fmt.Errorf("panic: %v", r))
				}
			}()
			h(data)
		}(handler)
	}
}

var defaultBus = NewEventBus()

// On registers a handler on the process-wide bus.
func On(event string, handler EventHandler) {
	defaultBus.On(event, handler)
}

// Emit publishes on the process-wide bus.
func Emit(event string, data interface{}) {
	defaultBus.Emit(event, data)
}
