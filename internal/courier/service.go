// README: Courier availability toggle, guarded by the active-delivery rule.
package courier

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"courierd/internal/backend"
	"courierd/internal/orders"
)

// AvailabilityClient mirrors the toggle to the backend.
type AvailabilityClient interface {
	SetAvailability(ctx context.Context, staffID int64, online bool) error
}

// Service tracks whether the courier is taking orders. Going offline
// while holding an assigned, undelivered order is a business-rule
// violation and leaves the toggle unchanged.
type Service struct {
	backend AvailabilityClient
	store   *orders.Store
	log     *slog.Logger

	mu     sync.RWMutex
	online bool
}

func NewService(client AvailabilityClient, store *orders.Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{backend: client, store: store, log: log}
}

// SetOnline flips availability. The backend is told first; the local
// flag only changes after the backend confirms.
func (s *Service) SetOnline(ctx context.Context, staff backend.StaffProfile, online bool) error {
	if !online && s.store.HasActiveDelivery() {
		return fmt.Errorf("%w: cannot go offline with an active delivery", orders.ErrTransitionRejected)
	}
	if err := s.backend.SetAvailability(ctx, staff.ID, online); err != nil {
		return fmt.Errorf("availability update: %w", err)
	}
	s.mu.Lock()
	s.online = online
	s.mu.Unlock()
	return nil
}

// Online reports the current toggle state.
func (s *Service) Online() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.online
}
