package event

import (
	"sync"
)

// Sink receives published events. Handle is called synchronously by the
// publisher, so a slow sink delays the room that produced the event.
type Sink interface {
	Handle(ev Event)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(ev Event)

// Handle calls f(ev).
func (f SinkFunc) Handle(ev Event) { f(ev) }

// Publisher is what the engine needs from a bus.
type Publisher interface {
	Publish(ev Event)
}

// Discard drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}

type subscription struct {
	id   uint64
	sink Sink
}

// Bus fans events out to subscribed sinks in subscription order.
// Publishing for distinct rooms may happen concurrently; the caller is
// responsible for serialising publishes of one room.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID uint64

	seqMu sync.Mutex
	seq   map[string]uint64
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{
		seq: make(map[string]uint64),
	}
}

// Subscribe registers a sink and returns a function removing it again.
func (b *Bus) Subscribe(s Sink) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, sink: s})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, sub := range b.subs {
			if sub.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish stamps the event with the next sequence number of its room and
// hands it to every sink.
func (b *Bus) Publish(ev Event) {
	b.seqMu.Lock()
	b.seq[ev.RoomID]++
	ev.Seq = b.seq[ev.RoomID]
	b.seqMu.Unlock()

	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for _, sub := range subs {
		sub.sink.Handle(ev)
	}
}

// Forget drops the sequence counter of a destroyed room.
func (b *Bus) Forget(roomID string) {
	b.seqMu.Lock()
	defer b.seqMu.Unlock()
	delete(b.seq, roomID)
}

// Subscribers returns the number of registered sinks.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// ForRoom wraps s so it only sees events of one room.
func ForRoom(roomID string, s Sink) Sink {
	return SinkFunc(func(ev Event) {
		if ev.RoomID == roomID {
			s.Handle(ev)
		}
	})
}

// OfType wraps s so it only sees the listed event types.
func OfType(s Sink, types ...Type) Sink {
	wanted := make(map[Type]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}
	return SinkFunc(func(ev Event) {
		if wanted[ev.Type] {
			s.Handle(ev)
		}
	})
}
