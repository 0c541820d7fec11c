package realtime

import (
	"encoding/json"
	"sync"
)

// Well-known topics.
const (
	TopicPublisher = "publisher"
	TopicPostLog   = "post_log"
	TopicCounters  = "counters"
	TopicCampaigns = "campaigns"
)

// subBuffer is the per-subscriber channel capacity. A subscriber that
// cannot keep up loses intermediate snapshots, never the stream itself.
const subBuffer = 8

// Broker is an in-process fan-out of state snapshots. Writers publish the
// full current value of a topic after every mutation; subscribers receive
// JSON-encoded snapshots on their own channel.
type Broker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]chan []byte
}

// NewBroker creates an empty broker
func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[int]chan []byte),
	}
}

// Subscription is a cancellable handle to a topic stream. The consumer owns
// the lifecycle and must call Cancel when done.
type Subscription struct {
	C      <-chan []byte
	cancel func()
	once   sync.Once
}

// Cancel releases the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// Subscribe registers a new subscriber on a topic
func (b *Broker) Subscribe(topic string) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan []byte, subBuffer)
	id := b.nextID
	b.nextID++

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]chan []byte)
	}
	b.subs[topic][id] = ch

	return &Subscription{
		C: ch,
		cancel: func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if subs, ok := b.subs[topic]; ok {
				if _, ok := subs[id]; ok {
					delete(subs, id)
					close(ch)
				}
			}
		},
	}
}

// Publish marshals the payload once and delivers it to every subscriber of
// the topic. Delivery is non-blocking: slow subscribers drop snapshots.
func (b *Broker) Publish(topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[topic] {
		select {
		case ch <- data:
		default:
		}
	}
	return nil
}

// SubscriberCount returns the number of subscribers on a topic
func (b *Broker) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
