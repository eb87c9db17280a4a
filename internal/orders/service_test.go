// README: Order service tests (fetch pipeline + transitions) with stub collaborators.
package orders

import (
	"context"
	"errors"
	"testing"

	"courierd/internal/backend"
	"courierd/internal/bus"
	"courierd/internal/status"
)

type fakeBackend struct {
	available    []backend.RawOrder
	assigned     []backend.RawOrder
	availableErr error
	assignedErr  error
	updateErr    error
	updates      []backend.UpdateStatusRequest
}

func (f *fakeBackend) AvailableOrders(context.Context) ([]backend.RawOrder, error) {
	return f.available, f.availableErr
}

func (f *fakeBackend) AssignedOrders(context.Context, int64) ([]backend.RawOrder, error) {
	return f.assigned, f.assignedErr
}

func (f *fakeBackend) UpdateOrderStatus(_ context.Context, upd backend.UpdateStatusRequest) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, upd)
	return nil
}

type fakeLedger struct {
	rejected map[int64]bool
}

func newFakeLedger() *fakeLedger { return &fakeLedger{rejected: make(map[int64]bool)} }

func (f *fakeLedger) Reject(_ context.Context, orderID int64) { f.rejected[orderID] = true }

func (f *fakeLedger) ListActive(context.Context) []int64 {
	var ids []int64
	for id := range f.rejected {
		ids = append(ids, id)
	}
	return ids
}

type fakeArchive struct {
	recorded []Order
}

func (f *fakeArchive) RecordDelivered(_ context.Context, o Order) error {
	f.recorded = append(f.recorded, o)
	return nil
}

var staff = backend.StaffProfile{ID: 42, Name: "Ravi", Phone: "+910000000000"}

func newTestService(fb *fakeBackend) (*Service, *fakeLedger, *fakeArchive, *bus.Bus) {
	ledger := newFakeLedger()
	archive := &fakeArchive{}
	b := bus.New()
	svc := NewService(NewStore(), fb, ledger, archive, b, nil)
	return svc, ledger, archive, b
}

func TestRefreshMergesBothSources(t *testing.T) {
	fb := &fakeBackend{
		available: []backend.RawOrder{rawOrder(1, 5)},
		assigned:  []backend.RawOrder{rawOrder(2, 52)},
	}
	svc, _, _, _ := newTestService(fb)

	if err := svc.Refresh(context.Background(), staff); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	current, past := svc.Snapshot()
	if len(current) != 2 || len(past) != 0 {
		t.Errorf("snapshot = %d current, %d past; want 2, 0", len(current), len(past))
	}
	if !svc.Seeded() {
		t.Error("Seeded() = false after successful refresh")
	}
}

func TestRefreshToleratesOneSourceFailing(t *testing.T) {
	fb := &fakeBackend{
		availableErr: errors.New("boom"),
		assigned:     []backend.RawOrder{rawOrder(2, 52)},
	}
	svc, _, _, _ := newTestService(fb)

	if err := svc.Refresh(context.Background(), staff); err != nil {
		t.Fatalf("Refresh with one failing source: %v", err)
	}
	current, _ := svc.Snapshot()
	if len(current) != 1 || current[0].ID != 2 {
		t.Errorf("current = %v, want only order 2", current)
	}
}

func TestRefreshBothSourcesFailingKeepsStaleData(t *testing.T) {
	fb := &fakeBackend{assigned: []backend.RawOrder{rawOrder(2, 52)}}
	svc, _, _, _ := newTestService(fb)
	if err := svc.Refresh(context.Background(), staff); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}

	fb.availableErr = errors.New("net down")
	fb.assignedErr = errors.New("net down")
	err := svc.Refresh(context.Background(), staff)
	if !errors.Is(err, ErrRefreshFailed) {
		t.Fatalf("err = %v, want ErrRefreshFailed", err)
	}
	current, _ := svc.Snapshot()
	if len(current) != 1 {
		t.Errorf("stale data cleared on failed refresh: current = %v", current)
	}
}

func TestRefreshDropsUnknownStatusOrders(t *testing.T) {
	fb := &fakeBackend{
		available: []backend.RawOrder{rawOrder(1, 999), rawOrder(2, 5)},
	}
	svc, _, _, _ := newTestService(fb)

	if err := svc.Refresh(context.Background(), staff); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	current, _ := svc.Snapshot()
	if len(current) != 1 || current[0].ID != 2 {
		t.Errorf("current = %v, want only the mappable order 2", current)
	}
}

func TestRefreshFiltersRejectedOrders(t *testing.T) {
	fb := &fakeBackend{
		available: []backend.RawOrder{rawOrder(1, 5), rawOrder(2, 5)},
	}
	svc, ledger, _, _ := newTestService(fb)
	ledger.rejected[1] = true

	if err := svc.Refresh(context.Background(), staff); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	current, _ := svc.Snapshot()
	if len(current) != 1 || current[0].ID != 2 {
		t.Errorf("current = %v, want rejected order 1 filtered out", current)
	}
}

func TestAcceptClaimsAvailableOrder(t *testing.T) {
	fb := &fakeBackend{available: []backend.RawOrder{rawOrder(1, 5)}}
	svc, _, _, b := newTestService(fb)
	_ = svc.Refresh(context.Background(), staff)

	var published int
	b.Subscribe(func() { published++ })

	if err := svc.Accept(context.Background(), staff, 1); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	o, _ := svc.Get(1)
	if o.StatusID != status.Assigned || o.Status != "assigned" {
		t.Errorf("status after accept = (%s, %d), want (assigned, 52)", o.Status, o.StatusID)
	}
	if o.AcceptedAt == nil {
		t.Error("AcceptedAt not stamped")
	}
	if len(fb.updates) != 1 || fb.updates[0].StatusID != 52 || fb.updates[0].StaffID != 42 {
		t.Errorf("backend updates = %+v", fb.updates)
	}
	if published != 1 {
		t.Errorf("publishes = %d, want 1", published)
	}
}

func TestAcceptRequiresAvailableStatus(t *testing.T) {
	fb := &fakeBackend{assigned: []backend.RawOrder{rawOrder(1, 52)}}
	svc, _, _, _ := newTestService(fb)
	_ = svc.Refresh(context.Background(), staff)

	if err := svc.Accept(context.Background(), staff, 1); !errors.Is(err, ErrTransitionRejected) {
		t.Errorf("err = %v, want ErrTransitionRejected", err)
	}
	if len(fb.updates) != 0 {
		t.Errorf("backend called for invalid claim: %+v", fb.updates)
	}
}

func TestRejectRecordsAndPublishes(t *testing.T) {
	fb := &fakeBackend{available: []backend.RawOrder{rawOrder(1, 5)}}
	svc, ledger, _, b := newTestService(fb)
	_ = svc.Refresh(context.Background(), staff)

	var published int
	b.Subscribe(func() { published++ })

	if err := svc.Reject(context.Background(), 1); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if !ledger.rejected[1] {
		t.Error("rejection not recorded in ledger")
	}
	if published != 1 {
		t.Errorf("publishes = %d, want 1", published)
	}
}

func TestRejectHidesOrderBeforeNextRefresh(t *testing.T) {
	fb := &fakeBackend{
		available: []backend.RawOrder{rawOrder(1, 5), rawOrder(2, 5)},
	}
	svc, _, _, b := newTestService(fb)
	_ = svc.Refresh(context.Background(), staff)

	// subscribers must never see the rejected order when they re-fetch
	var seen [][]Order
	b.Subscribe(func() {
		current, _ := svc.Snapshot()
		seen = append(seen, current)
	})

	if err := svc.Reject(context.Background(), 1); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	current, _ := svc.Snapshot()
	if len(current) != 1 || current[0].ID != 2 {
		t.Errorf("current = %v, want rejected order 1 gone immediately", current)
	}
	if _, err := svc.Get(1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(1) err = %v, want ErrNotFound after rejection", err)
	}
	if len(seen) != 1 {
		t.Fatalf("publishes = %d, want 1", len(seen))
	}
	for _, o := range seen[0] {
		if o.ID == 1 {
			t.Error("subscriber saw the rejected order on re-fetch")
		}
	}
}

func TestApplyTransitionHappyPath(t *testing.T) {
	fb := &fakeBackend{assigned: []backend.RawOrder{rawOrder(1, 52)}}
	svc, _, _, _ := newTestService(fb)
	_ = svc.Refresh(context.Background(), staff)

	if err := svc.ApplyTransition(context.Background(), staff, 1, status.HeadingToPickup); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}
	o, _ := svc.Get(1)
	if o.StatusID != status.HeadingToPickup || o.Status != "heading_to_pickup" {
		t.Errorf("status = (%s, %d), want (heading_to_pickup, 53)", o.Status, o.StatusID)
	}
}

func TestApplyTransitionBackendFailureLeavesStoreUntouched(t *testing.T) {
	fb := &fakeBackend{assigned: []backend.RawOrder{rawOrder(1, 52)}}
	svc, _, _, b := newTestService(fb)
	_ = svc.Refresh(context.Background(), staff)

	var published int
	b.Subscribe(func() { published++ })

	fb.updateErr = errors.New("network failure")
	err := svc.ApplyTransition(context.Background(), staff, 1, status.HeadingToPickup)
	if err == nil {
		t.Fatal("expected error when backend update fails")
	}
	o, _ := svc.Get(1)
	if o.StatusID != status.Assigned {
		t.Errorf("store mutated before backend confirmation: code %d", o.StatusID)
	}
	if published != 0 {
		t.Errorf("published %d events despite failed transition", published)
	}
}

func TestApplyTransitionRejectsIllegalJump(t *testing.T) {
	fb := &fakeBackend{assigned: []backend.RawOrder{rawOrder(1, 52)}}
	svc, _, _, _ := newTestService(fb)
	_ = svc.Refresh(context.Background(), staff)

	err := svc.ApplyTransition(context.Background(), staff, 1, status.Delivered)
	if !errors.Is(err, ErrTransitionRejected) {
		t.Fatalf("err = %v, want ErrTransitionRejected", err)
	}
	if len(fb.updates) != 0 {
		t.Errorf("backend called for illegal transition: %+v", fb.updates)
	}
}

func TestApplyTransitionBelowClaimThreshold(t *testing.T) {
	fb := &fakeBackend{available: []backend.RawOrder{rawOrder(1, 5)}}
	svc, _, _, _ := newTestService(fb)
	_ = svc.Refresh(context.Background(), staff)

	err := svc.ApplyTransition(context.Background(), staff, 1, status.Assigned)
	if !errors.Is(err, ErrTransitionRejected) {
		t.Errorf("err = %v, want ErrTransitionRejected", err)
	}
}

func TestApplyTransitionNoShowFromReached(t *testing.T) {
	fb := &fakeBackend{assigned: []backend.RawOrder{rawOrder(1, 57)}}
	svc, _, archive, _ := newTestService(fb)
	_ = svc.Refresh(context.Background(), staff)

	// not the default successor, but explicitly legal at the door
	if err := svc.ApplyTransition(context.Background(), staff, 1, status.NoShow); err != nil {
		t.Fatalf("ApplyTransition to no_show: %v", err)
	}
	o, _ := svc.Get(1)
	if o.StatusID != status.NoShow {
		t.Errorf("code = %d, want 263", o.StatusID)
	}
	// no-show is not a delivery; nothing archived
	if len(archive.recorded) != 0 {
		t.Errorf("archived %d orders, want 0", len(archive.recorded))
	}
}

func TestApplyTransitionDeliveredArchivesAndPartitions(t *testing.T) {
	fb := &fakeBackend{assigned: []backend.RawOrder{rawOrder(1, 57)}}
	svc, _, archive, _ := newTestService(fb)
	_ = svc.Refresh(context.Background(), staff)

	if err := svc.ApplyTransition(context.Background(), staff, 1, status.Delivered); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}
	current, past := svc.Snapshot()
	if len(current) != 0 || len(past) != 1 {
		t.Errorf("snapshot = %d current, %d past; want 0, 1", len(current), len(past))
	}
	if len(archive.recorded) != 1 || archive.recorded[0].ID != 1 {
		t.Errorf("archive = %+v, want delivered order 1", archive.recorded)
	}
	if archive.recorded[0].DeliveredAt == nil {
		t.Error("archived order missing DeliveredAt")
	}
}

func TestGetUnknownOrder(t *testing.T) {
	svc, _, _, _ := newTestService(&fakeBackend{})
	if _, err := svc.Get(404); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
