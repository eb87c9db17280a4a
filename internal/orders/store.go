// README: In-memory order store; the single writer for order state.
package orders

import (
	"sort"
	"sync"
	"time"

	"courierd/internal/status"
)

// Store holds the current and past order sets between refreshes. All
// mutation goes through the store's lock, so overlapping refreshes and
// transitions stay last-write-wins without corrupting either set. Reads
// return copies; views never see store-owned memory.
type Store struct {
	mu      sync.RWMutex
	current map[int64]Order
	past    map[int64]Order
}

func NewStore() *Store {
	return &Store{
		current: make(map[int64]Order),
		past:    make(map[int64]Order),
	}
}

// Partition splits a mapped batch: an order is past iff its code is
// exactly Delivered. Cancelled, not-picked and no-show deliberately stay
// current; that mirrors the backend's accepted ambiguity.
func Partition(list []Order) (current, past []Order) {
	for _, o := range list {
		if o.StatusID == status.Delivered {
			past = append(past, o)
		} else {
			current = append(current, o)
		}
	}
	return current, past
}

// Replace swaps in a freshly fetched snapshot.
func (s *Store) Replace(current, past []Order) {
	cur := make(map[int64]Order, len(current))
	for _, o := range current {
		cur[o.ID] = o
	}
	pst := make(map[int64]Order, len(past))
	for _, o := range past {
		pst[o.ID] = o
	}

	s.mu.Lock()
	s.current = cur
	s.past = pst
	s.mu.Unlock()
}

// Get returns a copy of the order with the given id, searching current
// then past.
func (s *Store) Get(id int64) (Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if o, ok := s.current[id]; ok {
		return o, true
	}
	if o, ok := s.past[id]; ok {
		return o, true
	}
	return Order{}, false
}

// SetStatus updates the semantic name and numeric code together, stamps
// the lifecycle milestone for the new stage, and moves the order to the
// past set when it reaches Delivered. Called only after the backend
// confirmed the transition.
func (s *Store) SetStatus(id int64, info status.Info, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.current[id]
	if !ok {
		if o, ok = s.past[id]; !ok {
			return false
		}
	}

	o.Status = info.Name
	o.StatusID = info.Code
	switch info.Code {
	case status.Assigned:
		o.AcceptedAt = &now
	case status.PickedUp:
		o.PickedAt = &now
	case status.Delivered:
		o.DeliveredAt = &now
	}

	if info.Code == status.Delivered {
		delete(s.current, id)
		s.past[id] = o
	} else {
		delete(s.past, id)
		s.current[id] = o
	}
	return true
}

// Remove drops the order from both sets. Used when a rejection hides an
// order from this courier's view ahead of the next refresh.
func (s *Store) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.current, id)
	delete(s.past, id)
}

// Snapshot returns copies of both sets, newest first.
func (s *Store) Snapshot() (current, past []Order) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	current = make([]Order, 0, len(s.current))
	for _, o := range s.current {
		current = append(current, o)
	}
	past = make([]Order, 0, len(s.past))
	for _, o := range s.past {
		past = append(past, o)
	}

	byNewest := func(list []Order) func(i, j int) bool {
		return func(i, j int) bool {
			if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
				return list[i].CreatedAt.After(list[j].CreatedAt)
			}
			return list[i].ID > list[j].ID
		}
	}
	sort.Slice(current, byNewest(current))
	sort.Slice(past, byNewest(past))
	return current, past
}

// HasActiveDelivery reports whether any held order is claimed and not
// yet concluded. Going offline is blocked while this is true.
func (s *Store) HasActiveDelivery() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.current {
		if status.InProgress(o.StatusID) {
			return true
		}
	}
	return false
}
