package notify

import (
	"log"
	"sync"
)

// Bus is the fire-and-forget notification sink the orchestrator publishes to.
// Implementations must never block gameplay: delivery is at-most-once and a
// returned error is logged by the caller, not propagated.
type Bus interface {
	Publish(topic string, event Event) error
}

type Message struct {
	Topic string `json:"topic"`
	Event Event  `json:"event"`
}

const subscriberBuffer = 32

// Hub fans events out to subscribers keyed by topic. Subscribers that fall
// behind lose messages rather than slowing publishers down.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscriber]bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscriber]bool)}
}

type Subscriber struct {
	hub    *Hub
	topics []string
	ch     chan Message
	once   sync.Once
}

func (h *Hub) Subscribe(topics ...string) *Subscriber {
	sub := &Subscriber{
		hub:    h,
		topics: topics,
		ch:     make(chan Message, subscriberBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, topic := range topics {
		if h.subs[topic] == nil {
			h.subs[topic] = make(map[*Subscriber]bool)
		}
		h.subs[topic][sub] = true
	}
	return sub
}

func (h *Hub) Publish(topic string, event Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[topic] {
		select {
		case sub.ch <- Message{Topic: topic, Event: event}:
		default:
			log.Printf("notify: dropping %s on %s, subscriber buffer full", event.EventType(), topic)
		}
	}
	return nil
}

func (s *Subscriber) C() <-chan Message {
	return s.ch
}

// Close detaches the subscriber from the hub and closes its channel.
func (s *Subscriber) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		for _, topic := range s.topics {
			if subs, ok := s.hub.subs[topic]; ok {
				delete(subs, s)
				if len(subs) == 0 {
					delete(s.hub.subs, topic)
				}
			}
		}
		s.hub.mu.Unlock()
		close(s.ch)
	})
}
