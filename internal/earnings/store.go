// README: Delivery archive backed by PostgreSQL.
package earnings

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Archive persists delivered orders. Implementations must tolerate
// duplicate records for the same order (re-fetch races) by keeping the
// first.
type Archive interface {
	Record(ctx context.Context, d Delivery) error
	Summarize(ctx context.Context, from, to time.Time) ([]DaySummary, error)
}

type PostgresArchive struct {
	pool *pgxpool.Pool
}

func NewPostgresArchive(pool *pgxpool.Pool) *PostgresArchive {
	return &PostgresArchive{pool: pool}
}

func (s *PostgresArchive) Record(ctx context.Context, d Delivery) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO deliveries (order_id, order_number, fee, payment_method, delivered_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (order_id) DO NOTHING`,
		d.OrderID,
		d.OrderNumber,
		d.Fee.String(),
		d.PaymentMethod,
		d.DeliveredAt,
	)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

func (s *PostgresArchive) Summarize(ctx context.Context, from, to time.Time) ([]DaySummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT to_char(delivered_at::date, 'YYYY-MM-DD') AS day,
		       COUNT(*),
		       COALESCE(SUM(fee), 0)
		FROM deliveries
		WHERE delivered_at >= $1 AND delivered_at < $2
		GROUP BY day
		ORDER BY day DESC`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query deliveries: %w", err)
	}
	defer rows.Close()

	var out []DaySummary
	for rows.Next() {
		var d DaySummary
		var total string
		if err := rows.Scan(&d.Day, &d.Deliveries, &total); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		d.Total, err = decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("parse total %q: %w", total, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
