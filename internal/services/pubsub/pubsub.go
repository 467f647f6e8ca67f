// Package pubsub fans out playout and rundown updates to websocket streams.
package pubsub

import (
	"strconv"
	"sync"
	"sync/atomic"
)

// Topic names a stream of updates.
type Topic string

const (
	TopicPlayoutStatus  Topic = "PLAYOUT_STATUS_UPDATED"
	TopicRundownUpdated Topic = "RUNDOWN_UPDATED"
)

// Subscriber receives the updates published on one topic.
type Subscriber struct {
	ID    string
	Topic Topic
	// Filter restricts delivery to one key, such as a rundown ID. Empty receives everything.
	Filter  string
	Channel chan any

	dropped atomic.Int64
}

// Dropped returns how many updates were discarded because Channel was full.
func (s *Subscriber) Dropped() int64 {
	return s.dropped.Load()
}

func (s *Subscriber) accepts(filter string) bool {
	return s.Filter == "" || filter == "" || s.Filter == filter
}

// PubSub routes published updates to subscribers. Publishing never blocks:
// a subscriber that falls behind misses updates rather than stalling playout.
type PubSub struct {
	mu     sync.RWMutex
	topics map[Topic]map[string]*Subscriber
	seq    uint64
	closed bool
}

// New creates an empty PubSub.
func New() *PubSub {
	return &PubSub{topics: make(map[Topic]map[string]*Subscriber)}
}

// Subscribe registers a subscriber with a buffered channel. After Close the
// returned subscriber's channel is already closed.
func (ps *PubSub) Subscribe(topic Topic, filter string, bufferSize int) *Subscriber {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.seq++
	sub := &Subscriber{
		ID:      strconv.FormatUint(ps.seq, 10),
		Topic:   topic,
		Filter:  filter,
		Channel: make(chan any, bufferSize),
	}
	if ps.closed {
		close(sub.Channel)
		return sub
	}
	if ps.topics[topic] == nil {
		ps.topics[topic] = make(map[string]*Subscriber)
	}
	ps.topics[topic][sub.ID] = sub
	return sub
}

// Unsubscribe removes sub and closes its channel. Unknown or already removed
// subscribers are ignored.
func (ps *PubSub) Unsubscribe(sub *Subscriber) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	subs := ps.topics[sub.Topic]
	if _, ok := subs[sub.ID]; !ok {
		return
	}
	delete(subs, sub.ID)
	close(sub.Channel)
}

// Publish delivers message to every subscriber of topic whose filter matches.
// An empty filter reaches all subscribers.
func (ps *PubSub) Publish(topic Topic, filter string, message any) {
	// Sending under the read lock keeps Unsubscribe from closing a channel mid-send.
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for _, sub := range ps.topics[topic] {
		if !sub.accepts(filter) {
			continue
		}
		select {
		case sub.Channel <- message:
		default:
			sub.dropped.Add(1)
		}
	}
}

// SubscriberCount returns the number of subscribers on topic.
func (ps *PubSub) SubscriberCount(topic Topic) int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.topics[topic])
}

// Close closes every subscriber channel so streams end, and turns later
// subscriptions into closed ones.
func (ps *PubSub) Close() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.closed {
		return
	}
	ps.closed = true
	for topic, subs := range ps.topics {
		for _, sub := range subs {
			close(sub.Channel)
		}
		delete(ps.topics, topic)
	}
}
