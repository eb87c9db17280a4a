// README: Earnings service; wallet balance and delivery history summaries.
package earnings

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"courierd/internal/backend"
	"courierd/internal/orders"
)

// WalletClient fetches the courier's balance from the backend.
type WalletClient interface {
	WalletBalance(ctx context.Context, staffID int64) (decimal.Decimal, error)
}

type Service struct {
	backend WalletClient
	archive Archive
	log     *slog.Logger
	now     func() time.Time
}

func NewService(client WalletClient, archive Archive, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{backend: client, archive: archive, log: log, now: time.Now}
}

// Balance fetches the live wallet balance.
func (s *Service) Balance(ctx context.Context, staff backend.StaffProfile) (decimal.Decimal, error) {
	return s.backend.WalletBalance(ctx, staff.ID)
}

// RecordDelivered archives a freshly delivered order. Implements
// orders.Archiver; the order service logs and ignores a failure here,
// so this never blocks a transition.
func (s *Service) RecordDelivered(ctx context.Context, o orders.Order) error {
	deliveredAt := s.now()
	if o.DeliveredAt != nil {
		deliveredAt = *o.DeliveredAt
	}
	return s.archive.Record(ctx, Delivery{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		Fee:           o.DeliveryFee,
		PaymentMethod: string(o.PaymentMethod),
		DeliveredAt:   deliveredAt,
	})
}

// Summary returns per-day totals for the trailing window.
func (s *Service) Summary(ctx context.Context, days int) ([]DaySummary, error) {
	if days <= 0 {
		days = 7
	}
	now := s.now()
	to := now.Add(24 * time.Hour)
	from := now.AddDate(0, 0, -days)
	summaries, err := s.archive.Summarize(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("summarize deliveries: %w", err)
	}
	return summaries, nil
}
