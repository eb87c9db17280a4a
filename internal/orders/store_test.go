// README: Store partition and mutation tests.
package orders

import (
	"testing"
	"time"

	"courierd/internal/status"
)

func mkOrder(id int64, code status.Code) Order {
	info, err := status.Lookup(code)
	if err != nil {
		panic(err)
	}
	return Order{ID: id, OrderNumber: "N", Status: info.Name, StatusID: code}
}

func TestPartitionExhaustiveDisjoint(t *testing.T) {
	input := []Order{
		mkOrder(1, status.Accepted),
		mkOrder(2, status.Assigned),
		mkOrder(3, status.Delivered),
		mkOrder(4, status.Cancelled),
		mkOrder(5, status.NoShow),
		mkOrder(6, status.NotPicked),
		mkOrder(7, status.Reached),
	}
	current, past := Partition(input)

	if len(current)+len(past) != len(input) {
		t.Fatalf("partition not exhaustive: %d + %d != %d", len(current), len(past), len(input))
	}
	seen := map[int64]int{}
	for _, o := range current {
		seen[o.ID]++
		if o.StatusID == status.Delivered {
			t.Errorf("delivered order %d in current", o.ID)
		}
	}
	for _, o := range past {
		seen[o.ID]++
		if o.StatusID != status.Delivered {
			t.Errorf("order %d with code %d in past", o.ID, o.StatusID)
		}
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("order %d appears %d times", id, n)
		}
	}
	// cancelled and no-show stay current on purpose
	if len(past) != 1 || past[0].ID != 3 {
		t.Errorf("past = %v, want only order 3", past)
	}
}

func TestSetStatusUpdatesNameAndCodeTogether(t *testing.T) {
	s := NewStore()
	s.Replace([]Order{mkOrder(10, status.Assigned)}, nil)

	info, _ := status.Lookup(status.HeadingToPickup)
	if !s.SetStatus(10, info, time.Now()) {
		t.Fatal("SetStatus returned false for known order")
	}

	o, ok := s.Get(10)
	if !ok {
		t.Fatal("order vanished")
	}
	if o.StatusID != status.HeadingToPickup || o.Status != "heading_to_pickup" {
		t.Errorf("status = (%s, %d), want (heading_to_pickup, 53)", o.Status, o.StatusID)
	}
}

func TestSetStatusMilestones(t *testing.T) {
	s := NewStore()
	s.Replace([]Order{mkOrder(10, status.ReachedPickup)}, nil)
	now := time.Date(2026, 8, 29, 14, 0, 0, 0, time.UTC)

	picked, _ := status.Lookup(status.PickedUp)
	s.SetStatus(10, picked, now)
	o, _ := s.Get(10)
	if o.PickedAt == nil || !o.PickedAt.Equal(now) {
		t.Errorf("PickedAt = %v, want %v", o.PickedAt, now)
	}
	if o.DeliveredAt != nil {
		t.Errorf("DeliveredAt stamped early: %v", o.DeliveredAt)
	}
}

func TestSetStatusDeliveredMovesToPast(t *testing.T) {
	s := NewStore()
	s.Replace([]Order{mkOrder(10, status.Reached)}, nil)

	delivered, _ := status.Lookup(status.Delivered)
	s.SetStatus(10, delivered, time.Now())

	current, past := s.Snapshot()
	if len(current) != 0 {
		t.Errorf("current = %v, want empty", current)
	}
	if len(past) != 1 || past[0].ID != 10 || past[0].DeliveredAt == nil {
		t.Errorf("past = %+v, want delivered order 10", past)
	}
}

func TestSetStatusUnknownOrder(t *testing.T) {
	s := NewStore()
	info, _ := status.Lookup(status.Delivered)
	if s.SetStatus(99, info, time.Now()) {
		t.Error("SetStatus returned true for unknown order")
	}
}

func TestSnapshotReturnsCopies(t *testing.T) {
	s := NewStore()
	s.Replace([]Order{mkOrder(1, status.Assigned)}, nil)

	current, _ := s.Snapshot()
	current[0].Status = "tampered"
	current[0].StatusID = 0

	o, _ := s.Get(1)
	if o.Status != "assigned" || o.StatusID != status.Assigned {
		t.Error("view mutation leaked into the store")
	}
}

func TestSnapshotOrdering(t *testing.T) {
	s := NewStore()
	older := mkOrder(1, status.Assigned)
	older.CreatedAt = time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	newer := mkOrder(2, status.Assigned)
	newer.CreatedAt = time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	s.Replace([]Order{older, newer}, nil)

	current, _ := s.Snapshot()
	if len(current) != 2 || current[0].ID != 2 {
		t.Errorf("snapshot order = %v, want newest first", []int64{current[0].ID, current[1].ID})
	}
}

func TestHasActiveDelivery(t *testing.T) {
	s := NewStore()
	if s.HasActiveDelivery() {
		t.Error("empty store reports active delivery")
	}

	s.Replace([]Order{mkOrder(1, status.Accepted)}, nil)
	if s.HasActiveDelivery() {
		t.Error("available-pool order counted as active delivery")
	}

	s.Replace([]Order{mkOrder(1, status.Assigned)}, nil)
	if !s.HasActiveDelivery() {
		t.Error("assigned order not counted as active delivery")
	}

	s.Replace(nil, []Order{mkOrder(1, status.Delivered)})
	if s.HasActiveDelivery() {
		t.Error("delivered order counted as active delivery")
	}
}
