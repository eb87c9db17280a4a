// README: In-process orderUpdated signal shared by independently rendered views.
package bus

import "sync"

// Handler is invoked once per publish. The signal carries no payload;
// subscribers re-fetch whatever they render.
type Handler func()

// Bus is the process-wide orderUpdated publish/subscribe channel. One
// instance is owned by the application root and injected into every
// component that mutates or displays order state.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]Handler
}

func New() *Bus {
	return &Bus{subs: make(map[int]Handler)}
}

// Subscription identifies one registered handler. Callers unsubscribe
// when the owning view goes away; a subscription must not outlive it.
type Subscription struct {
	id  int
	bus *Bus
}

func (b *Bus) Subscribe(h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs[id] = h
	return &Subscription{id: id, bus: b}
}

func (s *Subscription) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	delete(s.bus.subs, s.id)
}

// Publish invokes every handler registered at the time of the call.
// The subscriber set is copied under the lock so a handler that
// unsubscribed before the publish is never invoked.
func (b *Bus) Publish() {
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, h := range b.subs {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h()
	}
}
