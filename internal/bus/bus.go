package bus

import (
	"log"
	"sync"
	"time"
)

// ─────────────────────────────────────────────────────────────
// Data Bus — in-memory pub/sub between widget modules
// ─────────────────────────────────────────────────────────────

// Subscription identifies one consumer's interest in one provider's contract.
type Subscription struct {
	ConsumerWidgetID string `json:"consumerWidgetId"`
	ProviderWidgetID string `json:"providerWidgetId"`
	ContractID       string `json:"contractId"`
}

// Callback receives published payloads. Payloads are shape-agnostic at the
// transport level; type safety is the contract id convention at the call
// site (see Channel for a typed wrapper).
type Callback func(data any)

type subscription struct {
	seq      uint64
	consumer string
	provider string
	contract string
	fn       Callback
}

type cacheEntry struct {
	data      any
	timestamp time.Time
}

// DataBus is the in-memory broker: providers publish projected snapshots,
// consumers subscribe by (consumer, provider, contract), and the bus caches
// the last-known value per (provider, contract). The bus does not check
// permissions — callers are expected to have consulted the access policy
// before subscribing.
//
// Construct one instance per board context; there is no package singleton.
type DataBus struct {
	mu      sync.Mutex
	nextSeq uint64
	subs    []*subscription // insertion order is delivery order
	cache   map[string]cacheEntry
}

// New creates an empty DataBus.
func New() *DataBus {
	return &DataBus{cache: make(map[string]cacheEntry)}
}

func cacheKey(providerWidgetID, contractID string) string {
	return providerWidgetID + ":" + contractID
}

// Subscribe registers a callback for (provider, contract) publishes. If a
// cached value already exists for the pair, the callback fires synchronously
// before Subscribe returns, so consumers never wait for the first publish.
// The returned closure removes the subscription and is safe to call more
// than once.
func (b *DataBus) Subscribe(consumerWidgetID, providerWidgetID, contractID string, fn Callback) func() {
	b.mu.Lock()
	b.nextSeq++
	sub := &subscription{
		seq:      b.nextSeq,
		consumer: consumerWidgetID,
		provider: providerWidgetID,
		contract: contractID,
		fn:       fn,
	}
	b.subs = append(b.subs, sub)
	cached, hasCached := b.cache[cacheKey(providerWidgetID, contractID)]
	b.mu.Unlock()

	if hasCached {
		b.deliver(sub, cached.data)
	}

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(sub.seq) })
	}
}

// Publish overwrites the cached value for (provider, contract) — no diffing,
// subscribers are notified even on an identical re-publish — then invokes
// every matching subscriber synchronously in subscription order.
func (b *DataBus) Publish(providerWidgetID, contractID string, data any) {
	b.mu.Lock()
	b.cache[cacheKey(providerWidgetID, contractID)] = cacheEntry{data: data, timestamp: time.Now()}
	// Deliver over a snapshot: a callback may subscribe or unsubscribe
	// (including itself) without corrupting this delivery pass.
	matching := make([]*subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		if sub.provider == providerWidgetID && sub.contract == contractID {
			matching = append(matching, sub)
		}
	}
	b.mu.Unlock()

	for _, sub := range matching {
		b.deliver(sub, data)
	}
}

// deliver invokes one callback, isolating panics so a faulty consumer cannot
// break delivery to the remaining subscribers or crash the publisher.
func (b *DataBus) deliver(sub *subscription, data any) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("data bus: subscriber callback panicked (consumer=%s provider=%s contract=%s): %v",
				sub.consumer, sub.provider, sub.contract, r)
		}
	}()
	sub.fn(data)
}

// GetData returns the last published value for (provider, contract).
func (b *DataBus) GetData(providerWidgetID, contractID string) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entry, ok := b.cache[cacheKey(providerWidgetID, contractID)]
	if !ok {
		return nil, false
	}
	return entry.data, true
}

// GetDataTimestamp returns when the last value for (provider, contract) was published.
func (b *DataBus) GetDataTimestamp(providerWidgetID, contractID string) (time.Time, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entry, ok := b.cache[cacheKey(providerWidgetID, contractID)]
	if !ok {
		return time.Time{}, false
	}
	return entry.timestamp, true
}

// HasSubscribers reports whether anyone is subscribed to (provider, contract).
func (b *DataBus) HasSubscribers(providerWidgetID, contractID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		if sub.provider == providerWidgetID && sub.contract == contractID {
			return true
		}
	}
	return false
}

// ConsumerSubscriptions returns the active subscriptions held by a consumer widget.
func (b *DataBus) ConsumerSubscriptions(consumerWidgetID string) []Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Subscription
	for _, sub := range b.subs {
		if sub.consumer == consumerWidgetID {
			out = append(out, Subscription{
				ConsumerWidgetID: sub.consumer,
				ProviderWidgetID: sub.provider,
				ContractID:       sub.contract,
			})
		}
	}
	return out
}

// RemoveWidget purges every subscription where the widget is consumer or
// provider, and every cache entry keyed by the widget as provider. The board
// must call this when a widget is deleted; the bus does no liveness tracking
// of its own.
func (b *DataBus) RemoveWidget(widgetID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.subs[:0]
	for _, sub := range b.subs {
		if sub.consumer == widgetID || sub.provider == widgetID {
			continue
		}
		kept = append(kept, sub)
	}
	b.subs = kept
	for key := range b.cache {
		if entryProvider(key) == widgetID {
			delete(b.cache, key)
		}
	}
}

// Clear drops all subscriptions and cached data. Intended for test isolation.
func (b *DataBus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = nil
	b.cache = make(map[string]cacheEntry)
}

func (b *DataBus) remove(seq uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub.seq == seq {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// entryProvider extracts the provider widget id from a cache key.
// Widget ids are UUIDs and never contain ':'.
func entryProvider(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i]
		}
	}
	return key
}
