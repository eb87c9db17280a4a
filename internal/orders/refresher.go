// README: Periodic background refresh of the fetch pipeline.
package orders

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"courierd/internal/backend"
)

// StaffSource yields the signed-in staff profile, if any. Ticks before
// sign-in are skipped.
type StaffSource func() (backend.StaffProfile, bool)

// Refresher re-runs the fetch-and-partition pipeline on a fixed
// interval. A failed tick keeps whatever the views already show; the
// failure is logged once and not retried until the next tick.
type Refresher struct {
	svc      *Service
	staff    StaffSource
	interval time.Duration
	log      *slog.Logger
}

func NewRefresher(svc *Service, staff StaffSource, interval time.Duration, log *slog.Logger) *Refresher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	return &Refresher{svc: svc, staff: staff, interval: interval, log: log}
}

func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Refresher) tick(ctx context.Context) {
	staff, ok := r.staff()
	if !ok {
		return
	}
	if err := r.svc.Refresh(ctx, staff); err != nil {
		if errors.Is(err, ErrRefreshFailed) && r.svc.Seeded() {
			r.log.Warn("background refresh failed, keeping stale data", "error", err)
			return
		}
		r.log.Error("background refresh failed", "error", err)
	}
}
