// Package dispatcher implements the topic-keyed concurrent event fan-out:
// handlers subscribe with a CanHandle predicate, Dispatch runs every
// matching handler in its own recovered goroutine and waits for all.
package dispatcher

import (
	"log"
	"sync"

	"github.com/paneguard/tmux-monitor/internal/events"
)

// Handler is the capability interface every subscriber implements.
type Handler interface {
	CanHandle(t events.Type) bool
	Handle(e events.Event)
}

// Bus is the dispatch surface the monitoring service and cycle coordinator
// publish through. Dispatcher is the production implementation; Null lets
// tests run the same code paths without observing any fan-out.
type Bus interface {
	Subscribe(h Handler)
	Dispatch(e events.Event)
}

// Dispatcher fans an event out to every subscribed handler whose CanHandle
// returns true, running each concurrently and waiting for all to finish.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers []Handler
}

// New returns an empty Dispatcher.
func New() *Dispatcher {
	return &Dispatcher{}
}

// Subscribe appends h to the dispatcher's handler list.
func (d *Dispatcher) Subscribe(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, h)
}

// Unsubscribe removes h by identity.
func (d *Dispatcher) Unsubscribe(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, existing := range d.handlers {
		if existing == h {
			d.handlers = append(d.handlers[:i], d.handlers[i+1:]...)
			return
		}
	}
}

// Dispatch invokes every subscribed handler whose CanHandle(e.Type())
// returns true, concurrently, and returns once all have completed. A
// handler that panics is recovered and logged; its failure does not affect
// any sibling handler.
func (d *Dispatcher) Dispatch(e events.Event) {
	d.mu.RLock()
	targets := make([]Handler, 0, len(d.handlers))
	for _, h := range d.handlers {
		if h.CanHandle(e.Type()) {
			targets = append(targets, h)
		}
	}
	d.mu.RUnlock()

	var wg sync.WaitGroup
	for _, h := range targets {
		wg.Add(1)
		go func(h Handler) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("⚠️ event handler panicked handling %s: %v", e.Type(), r)
				}
			}()
			h.Handle(e)
		}(h)
	}
	wg.Wait()
}

var (
	_ Bus = (*Dispatcher)(nil)
	_ Bus = Null{}
)

// Null is a no-op Dispatcher variant for tests that need a dispatcher in
// place without observing its effects.
type Null struct{}

// Subscribe does nothing.
func (Null) Subscribe(Handler) {}

// Dispatch does nothing.
func (Null) Dispatch(events.Event) {}
