// Package events is a small synchronous pub/sub bus for dashboard lifecycle
// notifications.
package events

import (
	"sync"
	"time"
)

// Kind identifies an event.
type Kind int

const (
	LoadStarted Kind = iota
	LoadCompleted
	LoadFailed
	RefreshIgnored
	EntitySelected
)

func (k Kind) String() string {
	switch k {
	case LoadStarted:
		return "load_started"
	case LoadCompleted:
		return "load_completed"
	case LoadFailed:
		return "load_failed"
	case RefreshIgnored:
		return "refresh_ignored"
	case EntitySelected:
		return "entity_selected"
	default:
		return "unknown"
	}
}

// Event is a single notification. Only the fields relevant to Kind are set.
type Event struct {
	Kind     Kind
	At       time.Time
	Articles int
	Duration time.Duration
	Ticker   string
	Err      error
}

// Handler receives events.
type Handler func(Event)

// Bus delivers events to subscribers in subscription order, on the
// publisher's goroutine. The zero value is ready to use.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers []subscription
}

type subscription struct {
	id int
	fn Handler
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.handlers = append(b.handlers, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.handlers {
				if s.id == id {
					b.handlers = append(b.handlers[:i:i], b.handlers[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish delivers e to every current subscriber. A zero At is set to now.
// Handlers may subscribe or unsubscribe without deadlocking.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	for i, s := range b.handlers {
		handlers[i] = s.fn
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(e)
	}
}
