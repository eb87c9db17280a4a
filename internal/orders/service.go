// README: Order service; fetch pipeline, claim/reject, and confirmed status transitions.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"courierd/internal/backend"
	"courierd/internal/bus"
	"courierd/internal/status"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrTransitionRejected marks a business-rule violation: an illegal
	// status jump, a claim on a non-available order, or going offline
	// mid-delivery. Reported to the user, never retried.
	ErrTransitionRejected = errors.New("transition rejected")
	// ErrRefreshFailed means both backend order queries failed. Prior
	// data, when present, is preserved untouched.
	ErrRefreshFailed = errors.New("order refresh failed")
)

// BackendClient is the slice of the backend API the order service needs.
type BackendClient interface {
	AvailableOrders(ctx context.Context) ([]backend.RawOrder, error)
	AssignedOrders(ctx context.Context, staffID int64) ([]backend.RawOrder, error)
	UpdateOrderStatus(ctx context.Context, upd backend.UpdateStatusRequest) error
}

// RejectionLedger filters the store's view and records declines. All
// methods are fail-open; persistence trouble never blocks order flow.
type RejectionLedger interface {
	Reject(ctx context.Context, orderID int64)
	ListActive(ctx context.Context) []int64
}

// Archiver records a delivered order for earnings history. Failures are
// logged by the caller, never surfaced.
type Archiver interface {
	RecordDelivered(ctx context.Context, o Order) error
}

type Service struct {
	store   *Store
	backend BackendClient
	ledger  RejectionLedger
	archive Archiver
	bus     *bus.Bus
	log     *slog.Logger
	now     func() time.Time
	seeded  atomic.Bool
}

func NewService(store *Store, client BackendClient, ledger RejectionLedger, archive Archiver, b *bus.Bus, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:   store,
		backend: client,
		ledger:  ledger,
		archive: archive,
		bus:     b,
		log:     log,
		now:     time.Now,
	}
}

type fetchResult struct {
	orders []backend.RawOrder
	err    error
}

// Refresh runs the fetch-and-partition pipeline: both backend queries in
// parallel, per-order mapping with unknown statuses dropped, rejection
// filtering, partition, store replacement. One source failing leaves the
// other usable; only when both fail is the refresh failed, and in that
// case previously displayed data is left untouched.
func (s *Service) Refresh(ctx context.Context, staff backend.StaffProfile) error {
	available := make(chan fetchResult, 1)
	assigned := make(chan fetchResult, 1)
	go func() {
		o, err := s.backend.AvailableOrders(ctx)
		available <- fetchResult{orders: o, err: err}
	}()
	go func() {
		o, err := s.backend.AssignedOrders(ctx, staff.ID)
		assigned <- fetchResult{orders: o, err: err}
	}()
	avail, assign := <-available, <-assigned

	if avail.err != nil && assign.err != nil {
		return fmt.Errorf("%w: available: %v; assigned: %v", ErrRefreshFailed, avail.err, assign.err)
	}
	if avail.err != nil {
		s.log.Warn("available orders fetch failed", "error", avail.err)
	}
	if assign.err != nil {
		s.log.Warn("assigned orders fetch failed", "error", assign.err)
	}

	merged := make(map[int64]Order)
	for _, raw := range append(avail.orders, assign.orders...) {
		o, err := MapOrder(raw)
		if err != nil {
			s.log.Error("dropping unmappable order", "order_id", raw.ID, "error", err)
			continue
		}
		merged[o.ID] = o
	}

	rejected := make(map[int64]bool)
	for _, id := range s.ledger.ListActive(ctx) {
		rejected[id] = true
	}

	kept := make([]Order, 0, len(merged))
	for id, o := range merged {
		if !rejected[id] {
			kept = append(kept, o)
		}
	}

	current, past := Partition(kept)
	s.store.Replace(current, past)
	s.seeded.Store(true)
	return nil
}

// Seeded reports whether at least one refresh has populated the store.
// A failed refresh is an error state for the views only before this.
func (s *Service) Seeded() bool {
	return s.seeded.Load()
}

// Snapshot returns the current and past order sets for rendering.
func (s *Service) Snapshot() (current, past []Order) {
	return s.store.Snapshot()
}

// Get returns a copy of one order.
func (s *Service) Get(id int64) (Order, error) {
	o, ok := s.store.Get(id)
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}

// Accept claims an available order: an out-of-band jump from Accepted
// straight to Assigned, distinct from the forward progression.
func (s *Service) Accept(ctx context.Context, staff backend.StaffProfile, orderID int64) error {
	o, ok := s.store.Get(orderID)
	if !ok {
		return ErrNotFound
	}
	if o.StatusID != status.Accepted {
		return fmt.Errorf("%w: order %d is not available for claiming", ErrTransitionRejected, orderID)
	}
	return s.confirmTransition(ctx, staff, o, status.Assigned)
}

// Reject records a local decline. The order is removed from the store
// before subscribers are notified, so no view renders it again within
// the rejection window; the backend is not told.
func (s *Service) Reject(ctx context.Context, orderID int64) error {
	o, ok := s.store.Get(orderID)
	if !ok {
		return ErrNotFound
	}
	if o.StatusID != status.Accepted {
		return fmt.Errorf("%w: only available orders can be rejected", ErrTransitionRejected)
	}
	s.ledger.Reject(ctx, orderID)
	s.store.Remove(orderID)
	s.bus.Publish()
	return nil
}

// ApplyTransition validates and performs a forward status transition.
// The local copy is mutated only after the backend confirms; on backend
// failure the store is untouched and the error surfaces to the caller.
func (s *Service) ApplyTransition(ctx context.Context, staff backend.StaffProfile, orderID int64, requested status.Code) error {
	o, ok := s.store.Get(orderID)
	if !ok {
		return ErrNotFound
	}
	if !status.CanDisplayStatusControl(o.StatusID) {
		return fmt.Errorf("%w: order %d is below the claim threshold", ErrTransitionRejected, orderID)
	}
	if !status.CanTransition(o.StatusID, requested) {
		return fmt.Errorf("%w: %s (%d) cannot move to %d", ErrTransitionRejected, o.Status, o.StatusID, requested)
	}
	return s.confirmTransition(ctx, staff, o, requested)
}

func (s *Service) confirmTransition(ctx context.Context, staff backend.StaffProfile, o Order, requested status.Code) error {
	info, err := status.Lookup(requested)
	if err != nil {
		return err
	}

	err = s.backend.UpdateOrderStatus(ctx, backend.UpdateStatusRequest{
		OrderID:    o.ID,
		StatusID:   int(requested),
		StaffID:    staff.ID,
		StaffPhone: staff.Phone,
	})
	if err != nil {
		return fmt.Errorf("status update for order %d: %w", o.ID, err)
	}

	now := s.now()
	s.store.SetStatus(o.ID, info, now)

	if requested == status.Delivered && s.archive != nil {
		delivered, _ := s.store.Get(o.ID)
		if err := s.archive.RecordDelivered(ctx, delivered); err != nil {
			s.log.Error("archiving delivered order failed", "order_id", o.ID, "error", err)
		}
	}

	s.bus.Publish()
	return nil
}
