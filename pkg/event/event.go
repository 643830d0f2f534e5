// Package event is a small in-process event bus. Listeners run
// synchronously in registration order unless fired with FireAsync.
package event

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/bazaar/pkg/logger"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload interface{})

// Bus holds listeners by event name.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	wg       sync.WaitGroup
}

func NewBus() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Listen registers handler for event.
func (b *Bus) Listen(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], handler)
}

func (b *Bus) listeners(event string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Handler(nil), b.handlers[event]...)
}

// Fire runs every listener of event before returning. A panicking
// listener is logged and does not stop the others.
func (b *Bus) Fire(ctx context.Context, event string, payload interface{}) {
	for _, h := range b.listeners(event) {
		safeCall(ctx, event, h, payload)
	}
}

// FireAsync runs the listeners in the background, detached from ctx
// cancellation. Wait blocks until they finish.
func (b *Bus) FireAsync(ctx context.Context, event string, payload interface{}) {
	ctx = context.WithoutCancel(ctx)
	for _, h := range b.listeners(event) {
		b.wg.Add(1)
		go func(h Handler) {
			defer b.wg.Done()
			safeCall(ctx, event, h, payload)
		}(h)
	}
}

// Wait blocks until every FireAsync listener has returned.
func (b *Bus) Wait() { b.wg.Wait() }

// Flush removes every listener.
func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = map[string][]Handler{}
}

func safeCall(ctx context.Context, event string, h Handler, payload interface{}) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.WithCtx(ctx).Error("event listener panicked", "event", event, "panic", rec)
		}
	}()
	h(ctx, payload)
}

// Default is the process-wide bus used by the package functions.
var Default = NewBus()

func Listen(event string, handler Handler) { Default.Listen(event, handler) }

func Fire(ctx context.Context, event string, payload interface{}) {
	Default.Fire(ctx, event, payload)
}

func FireAsync(ctx context.Context, event string, payload interface{}) {
	Default.FireAsync(ctx, event, payload)
}

func Flush() { Default.Flush() }
