package emitter

import (
	"fmt"
	"log/slog"
	"sync"
)

// Callback receives the payload of a topic publication.
type Callback func(msg any)

// Emitter fans topic publications out to subscriber callbacks.
//
// Subscriptions are keyed by topic name; each Subscribe returns an id used
// to remove that one callback later. Emit invokes every callback currently
// subscribed to the topic, synchronously, in subscription order.
type Emitter struct {
	log *slog.Logger

	mu          sync.RWMutex
	nextID      int
	subscribers map[string][]subscription
}

type subscription struct {
	id       string
	callback Callback
}

// New creates an empty emitter.
func New(log *slog.Logger) *Emitter {
	return &Emitter{
		log:         log.With("component", "emitter"),
		subscribers: make(map[string][]subscription, 8),
	}
}

// Subscribe registers a callback for a topic and returns its subscription id.
func (e *Emitter) Subscribe(topic string, callback Callback) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := fmt.Sprintf("subscribe:%s:%d", topic, e.nextID)
	e.nextID++

	e.subscribers[topic] = append(e.subscribers[topic], subscription{
		id:       id,
		callback: callback,
	})

	e.log.Debug("Subscribed to topic", "topic", topic, "subscription_id", id)

	return id
}

// Unsubscribe removes one subscription from a topic. Unknown ids are ignored.
// Returns true if a topic has no subscribers left afterwards.
func (e *Emitter) Unsubscribe(topic, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	subs := e.subscribers[topic]
	for i, sub := range subs {
		if sub.id == id {
			e.subscribers[topic] = append(subs[:i:i], subs[i+1:]...)

			break
		}
	}

	if len(e.subscribers[topic]) == 0 {
		delete(e.subscribers, topic)

		return true
	}

	return false
}

// SubscriberCount returns the number of callbacks subscribed to a topic.
func (e *Emitter) SubscriberCount(topic string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.subscribers[topic])
}

// Emit delivers a publication to every subscriber of the topic.
// Callbacks run synchronously on the caller's goroutine; slow subscribers
// stall frame dispatch for the whole session.
func (e *Emitter) Emit(topic string, msg any) {
	e.mu.RLock()
	subs := e.subscribers[topic]
	e.mu.RUnlock()

	for _, sub := range subs {
		sub.callback(msg)
	}
}
