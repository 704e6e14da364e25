package service

import "sync"

// broadcaster fans one stream of events out to any number of subscribers,
// mirroring the drop-the-slow-reader semantics of a bounded broadcast
// channel: a subscriber that isn't keeping up loses events rather than
// blocking the publisher.
type broadcaster struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[chan Event]struct{})}
}

// Subscribe returns a channel that receives every future published event,
// and an unsubscribe function the caller must call when done listening.
func (b *broadcaster) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 64)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, unsubscribe
}

// Publish delivers ev to every current subscriber without blocking; a
// subscriber whose buffer is full simply misses it.
func (b *broadcaster) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
