// README: Availability toggle tests (Scenario: offline blocked mid-delivery).
package courier

import (
	"context"
	"errors"
	"testing"

	"courierd/internal/backend"
	"courierd/internal/orders"
	"courierd/internal/status"
)

type stubAvailability struct {
	err   error
	calls []bool
}

func (s *stubAvailability) SetAvailability(_ context.Context, _ int64, online bool) error {
	if s.err != nil {
		return s.err
	}
	s.calls = append(s.calls, online)
	return nil
}

var staff = backend.StaffProfile{ID: 42, Phone: "+910000000000"}

func storeWith(code status.Code) *orders.Store {
	info, err := status.Lookup(code)
	if err != nil {
		panic(err)
	}
	s := orders.NewStore()
	o := orders.Order{ID: 1, Status: info.Name, StatusID: code}
	cur, past := orders.Partition([]orders.Order{o})
	s.Replace(cur, past)
	return s
}

func TestGoOnline(t *testing.T) {
	stub := &stubAvailability{}
	svc := NewService(stub, orders.NewStore(), nil)

	if err := svc.SetOnline(context.Background(), staff, true); err != nil {
		t.Fatalf("SetOnline: %v", err)
	}
	if !svc.Online() {
		t.Error("Online() = false after going online")
	}
	if len(stub.calls) != 1 || !stub.calls[0] {
		t.Errorf("backend calls = %v", stub.calls)
	}
}

func TestOfflineBlockedWithActiveDelivery(t *testing.T) {
	stub := &stubAvailability{}
	svc := NewService(stub, storeWith(status.Assigned), nil)
	if err := svc.SetOnline(context.Background(), staff, true); err != nil {
		t.Fatalf("SetOnline: %v", err)
	}

	err := svc.SetOnline(context.Background(), staff, false)
	if !errors.Is(err, orders.ErrTransitionRejected) {
		t.Fatalf("err = %v, want ErrTransitionRejected", err)
	}
	if !svc.Online() {
		t.Error("toggle flipped despite rejected request")
	}
	// backend must not have been asked to go offline
	for _, online := range stub.calls {
		if !online {
			t.Error("backend received offline call for rejected toggle")
		}
	}
}

func TestOfflineAllowedAfterDelivery(t *testing.T) {
	stub := &stubAvailability{}
	svc := NewService(stub, storeWith(status.Delivered), nil)
	_ = svc.SetOnline(context.Background(), staff, true)

	if err := svc.SetOnline(context.Background(), staff, false); err != nil {
		t.Fatalf("SetOnline(false): %v", err)
	}
	if svc.Online() {
		t.Error("Online() = true after going offline")
	}
}

func TestBackendFailureLeavesToggle(t *testing.T) {
	stub := &stubAvailability{err: errors.New("network failure")}
	svc := NewService(stub, orders.NewStore(), nil)

	if err := svc.SetOnline(context.Background(), staff, true); err == nil {
		t.Fatal("expected error from failing backend")
	}
	if svc.Online() {
		t.Error("toggle flipped without backend confirmation")
	}
}
