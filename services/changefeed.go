package services

import (
	"context"
	"sync"
)

// Order event kinds carried on the change feed.
const (
	EventOrderCreated  = "order_created"
	EventStatusChange  = "status_change"
	EventPaymentChange = "payment_change"
)

// OrderEvent is a row-level change notification for one order. Consumers
// treat it purely as a refresh trigger for the owning shop's dashboard;
// no payload beyond identity is carried.
type OrderEvent struct {
	ShopID  string `json:"shop_id"`
	OrderID string `json:"order_id"`
	Kind    string `json:"kind"`
}

// Feed is the change feed for order mutations. Subscriptions are scoped to
// a single shop: a subscriber for shop S never receives another shop's
// events.
type Feed interface {
	// Publish sends an order event to all subscribers of event.ShopID
	Publish(ctx context.Context, event OrderEvent) error

	// Subscribe returns a channel of events for the given shop and a
	// cancel function that must be called when the session ends
	Subscribe(ctx context.Context, shopID string) (<-chan OrderEvent, func(), error)

	// Close tears down the feed
	Close() error
}

var (
	feedInstance Feed
	feedOnce     sync.Once
)

// GetFeed returns the current feed, defaulting to an in-process hub when
// no broker-backed feed has been installed.
func GetFeed() Feed {
	feedOnce.Do(func() {
		if feedInstance == nil {
			feedInstance = NewMemoryFeed()
		}
	})
	return feedInstance
}

// SetFeed installs a feed implementation (AMQP in production, memory or a
// test double elsewhere).
func SetFeed(f Feed) {
	feedOnce.Do(func() {})
	feedInstance = f
}

// MemoryFeed is an in-process Feed implementation. It backs tests and
// single-node deployments that run without a broker.
type MemoryFeed struct {
	mu     sync.RWMutex
	subs   map[string]map[int]chan OrderEvent // shopID -> subscriber id -> channel
	nextID int
	closed bool
}

// NewMemoryFeed creates an in-process feed hub
func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{
		subs: make(map[string]map[int]chan OrderEvent),
	}
}

// Publish delivers the event to every subscriber of event.ShopID.
// Subscribers with full buffers are skipped rather than blocked: events are
// refresh triggers, so dropping one inside a burst loses nothing.
func (f *MemoryFeed) Publish(ctx context.Context, event OrderEvent) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return nil
	}

	for _, ch := range f.subs[event.ShopID] {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe registers a buffered channel for one shop's events
func (f *MemoryFeed) Subscribe(ctx context.Context, shopID string) (<-chan OrderEvent, func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan OrderEvent, 16)
	id := f.nextID
	f.nextID++

	if f.subs[shopID] == nil {
		f.subs[shopID] = make(map[int]chan OrderEvent)
	}
	f.subs[shopID][id] = ch

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.subs[shopID][id]; ok {
			delete(f.subs[shopID], id)
			close(ch)
		}
	}

	return ch, cancel, nil
}

// Close tears down all subscriptions
func (f *MemoryFeed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	for shopID, subs := range f.subs {
		for id, ch := range subs {
			close(ch)
			delete(subs, id)
		}
		delete(f.subs, shopID)
	}
	return nil
}
