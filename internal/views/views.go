// README: View models for the dashboard and order list screens.
package views

import (
	"sync"
	"time"

	"courierd/internal/bus"
	"courierd/internal/orders"
	"courierd/internal/status"
)

// Source provides order snapshots for rendering. Views never reach into
// the store directly and never mutate what they receive.
type Source interface {
	Snapshot() (current, past []orders.Order)
}

// AvailabilitySource exposes the online toggle for the dashboard.
type AvailabilitySource interface {
	Online() bool
}

// Dashboard is the home screen's summary.
type Dashboard struct {
	Online           bool
	AvailableOrders  int
	ActiveDeliveries int
	DeliveredToday   int
}

// DashboardView keeps the home screen consistent with the rest of the
// app: it re-fetches its numbers whenever an orderUpdated signal fires.
type DashboardView struct {
	source       Source
	availability AvailabilitySource
	sub          *bus.Subscription
	now          func() time.Time

	mu       sync.Mutex
	rendered Dashboard
}

func NewDashboardView(source Source, availability AvailabilitySource, b *bus.Bus) *DashboardView {
	v := &DashboardView{source: source, availability: availability, now: time.Now}
	v.Reload()
	v.sub = b.Subscribe(v.Reload)
	return v
}

// Reload re-fetches the dashboard numbers from the order store.
func (v *DashboardView) Reload() {
	current, past := v.source.Snapshot()

	d := Dashboard{}
	for _, o := range current {
		switch {
		case o.StatusID == status.Accepted:
			d.AvailableOrders++
		case status.InProgress(o.StatusID):
			d.ActiveDeliveries++
		}
	}
	today := v.now().Format("2006-01-02")
	for _, o := range past {
		if o.DeliveredAt != nil && o.DeliveredAt.Format("2006-01-02") == today {
			d.DeliveredToday++
		}
	}
	if v.availability != nil {
		d.Online = v.availability.Online()
	}

	v.mu.Lock()
	v.rendered = d
	v.mu.Unlock()
}

// Render returns the cached dashboard.
func (v *DashboardView) Render() Dashboard {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rendered
}

// Close drops the bus subscription; must be called when the view goes
// away.
func (v *DashboardView) Close() {
	v.sub.Unsubscribe()
}

// OrderListView caches the current/past split for the orders screen.
type OrderListView struct {
	source Source
	sub    *bus.Subscription

	mu      sync.Mutex
	current []orders.Order
	past    []orders.Order
}

func NewOrderListView(source Source, b *bus.Bus) *OrderListView {
	v := &OrderListView{source: source}
	v.Reload()
	v.sub = b.Subscribe(v.Reload)
	return v
}

func (v *OrderListView) Reload() {
	current, past := v.source.Snapshot()
	v.mu.Lock()
	v.current = current
	v.past = past
	v.mu.Unlock()
}

// Orders returns the cached current and past sets.
func (v *OrderListView) Orders() (current, past []orders.Order) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current, v.past
}

func (v *OrderListView) Close() {
	v.sub.Unsubscribe()
}
