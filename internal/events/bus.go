// Package events provides a simple publish-subscribe bus carrying state
// snapshots to SSE clients.
package events

import (
	"sync"

	"github.com/google/uuid"
	"github.com/micro-nova/ethaudio-go/internal/models"
)

const subBufferSize = 8

// Bus is a non-blocking publish-subscribe event bus. Subscribers that are
// slow to consume have events dropped rather than blocking publishers.
type Bus struct {
	mu   sync.Mutex
	subs map[string]chan models.State
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[string]chan models.State),
	}
}

// Subscribe registers a new subscriber and returns its id along with the
// channel state updates arrive on. Call Unsubscribe with the id when done.
func (b *Bus) Subscribe() (string, <-chan models.State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := uuid.New().String()
	ch := make(chan models.State, subBufferSize)
	b.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish sends a state update to all subscribers, dropping it for any
// subscriber whose buffer is full.
func (b *Bus) Publish(state models.State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- state:
		default:
			// Drop if subscriber is slow.
		}
	}
}

// SubscriberCount returns the current number of subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
